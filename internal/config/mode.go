package config

// Mode selects how subnets are discovered
type Mode string

const (
	ModeAuto     Mode = "auto"     // topology for topology reports, snapshot otherwise
	ModeSnapshot Mode = "snapshot" // one subnet per port subnet prefix
	ModeTopology Mode = "topology" // a single implicit subnet
)

// ParseMode converts a string to Mode, defaulting to ModeAuto
func ParseMode(s string) Mode {
	switch s {
	case "snapshot":
		return ModeSnapshot
	case "topology":
		return ModeTopology
	default:
		return ModeAuto
	}
}

// Resolve returns the concrete mode for an input of the given format
func (m Mode) Resolve(inputFormat string) Mode {
	if m != ModeAuto {
		return m
	}
	if inputFormat == "topology-xml" {
		return ModeTopology
	}
	return ModeSnapshot
}

// SingleSubnet returns true if the mode places every node in one subnet
func (m Mode) SingleSubnet() bool {
	return m == ModeTopology
}
