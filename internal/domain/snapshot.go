package domain

// Snapshot is one decoded inventory report. Importers produce it; the
// conversion pipeline consumes it without modification.
type Snapshot struct {
	Nodes    []NodeRecord    `yaml:"nodes" validate:"dive"`
	Links    []LinkRecord    `yaml:"links" validate:"dive"`
	Declared *DeclaredCounts `yaml:"declared,omitempty"`
}

// NodeRecord is a decoded inventory node with its ports
type NodeRecord struct {
	GUID        string       `yaml:"guid" validate:"required"`
	Description string       `yaml:"description"`
	TypeCode    int          `yaml:"type_code" validate:"min=0"`
	Ports       []PortRecord `yaml:"ports,omitempty" validate:"dive"`
}

// PortRecord is one port of a node. SubnetPrefix is the raw identifier of
// the subnet the port belongs to.
type PortRecord struct {
	ID           string `yaml:"id,omitempty"`
	Number       string `yaml:"number,omitempty"`
	SubnetPrefix string `yaml:"subnet_prefix,omitempty"`
	LinkWidth    string `yaml:"link_width,omitempty"`
	LinkSpeed    string `yaml:"link_speed,omitempty"`
}

// EndpointRecord names one side of a decoded link
type EndpointRecord struct {
	GUID string `yaml:"guid" validate:"required"`
	Port string `yaml:"port"`
}

// LinkRecord is a decoded physical link between two ports
type LinkRecord struct {
	ID string         `yaml:"id,omitempty"`
	A  EndpointRecord `yaml:"a"`
	B  EndpointRecord `yaml:"b"`
}

// DeclaredCounts carries the totals a report claims to contain. Nil fields
// were not declared.
type DeclaredCounts struct {
	Hosts    *int `yaml:"hosts,omitempty"`
	Switches *int `yaml:"switches,omitempty"`
	Links    *int `yaml:"links,omitempty"`
}

// ObservedCounts tallies hosts, switches and links actually present
func (s *Snapshot) ObservedCounts() (hosts, switches, links int) {
	for _, n := range s.Nodes {
		if NodeTypeFromCode(n.TypeCode) == NodeTypeHost {
			hosts++
		} else {
			switches++
		}
	}
	return hosts, switches, len(s.Links)
}
