package codec

import (
	"fmt"

	"fabtopo/internal/domain"
)

// subnetDocument is the structured rendering of one subnet shared by the
// JSON and YAML exporters
type subnetDocument struct {
	Version    int             `json:"version" yaml:"version"`
	Label      string          `json:"label" yaml:"label"`
	Subnet     string          `json:"subnet" yaml:"subnet"`
	Nodes      []nodeDocument  `json:"nodes" yaml:"nodes"`
	Adjacency  []entryDocument `json:"adjacency" yaml:"adjacency"`
	Partitions []string        `json:"partitions" yaml:"partitions"`
}

type nodeDocument struct {
	ID          string   `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Type        string   `json:"type" yaml:"type"`
	Capacity    int      `json:"capacity" yaml:"capacity"`
	Partitions  []string `json:"partitions,omitempty" yaml:"partitions,omitempty"`
}

type entryDocument struct {
	Src         string         `json:"src" yaml:"src"`
	Dst         string         `json:"dst" yaml:"dst"`
	Speed       int            `json:"speed" yaml:"speed"`
	NumParallel int            `json:"num_parallel" yaml:"num_parallel"`
	Links       []linkDocument `json:"links" yaml:"links"`
}

type linkDocument struct {
	ID      int    `json:"id" yaml:"id"`
	OtherID int    `json:"other_id" yaml:"other_id"`
	SrcPort string `json:"src_port" yaml:"src_port"`
	DstPort string `json:"dst_port" yaml:"dst_port"`
	Width   string `json:"width" yaml:"width"`
	Speed   string `json:"speed" yaml:"speed"`
	Gbits   int    `json:"gbits" yaml:"gbits"`
}

func newSubnetDocument(topo *domain.Topology, subnetID string) (*subnetDocument, error) {
	subnet, ok := topo.Subnet(subnetID)
	if !ok {
		return nil, fmt.Errorf("unknown subnet %s", subnetID)
	}

	doc := &subnetDocument{
		Version:    FormatVersion,
		Label:      topo.Label,
		Subnet:     subnet.ID,
		Nodes:      make([]nodeDocument, 0, subnet.Nodes.Len()),
		Adjacency:  make([]entryDocument, 0, subnet.Links.Len()),
		Partitions: topo.Partitions(),
	}

	for _, n := range subnet.Nodes.Nodes() {
		doc.Nodes = append(doc.Nodes, nodeDocument{
			ID:          n.ID,
			Description: n.Description,
			Name:        n.Name,
			Type:        n.Type.String(),
			Capacity:    n.Capacity,
			Partitions:  n.Partitions,
		})
	}

	for _, e := range subnet.Links.AllEntries() {
		entry := entryDocument{
			Src:         e.Src,
			Dst:         e.Dst,
			Speed:       e.Speed(),
			NumParallel: e.NumParallel(),
			Links:       make([]linkDocument, 0, len(e.Links)),
		}
		for _, l := range e.Links {
			entry.Links = append(entry.Links, linkDocument{
				ID:      l.ID,
				OtherID: l.OtherID,
				SrcPort: l.Src.Port,
				DstPort: l.Dst.Port,
				Width:   l.Width,
				Speed:   l.Speed,
				Gbits:   l.Gbits,
			})
		}
		doc.Adjacency = append(doc.Adjacency, entry)
	}

	return doc, nil
}
