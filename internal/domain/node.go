package domain

import (
	"regexp"
	"strings"
)

// NodeType distinguishes host channel adapters from switches. The numeric
// value is the type code written to the topology file.
type NodeType int

const (
	NodeTypeHost   NodeType = 0
	NodeTypeSwitch NodeType = 1
)

// HostTypeCode is the inventory type code reported for host adapters.
// Every other code is treated as a switch.
const HostTypeCode = 1

// NodeTypeFromCode maps an inventory type code to a NodeType
func NodeTypeFromCode(code int) NodeType {
	if code == HostTypeCode {
		return NodeTypeHost
	}
	return NodeTypeSwitch
}

// Code returns the output type code (0 = host, 1 = switch)
func (t NodeType) Code() int {
	return int(t)
}

func (t NodeType) String() string {
	switch t {
	case NodeTypeHost:
		return "host"
	case NodeTypeSwitch:
		return "switch"
	default:
		return "unknown"
	}
}

// MarshalText renders the type as its lowercase name
func (t NodeType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Node is one fabric endpoint (host adapter) or switch within a subnet
type Node struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Name        string   `json:"name,omitempty"`
	Type        NodeType `json:"type"`
	Capacity    int      `json:"capacity"`
	Partitions  []string `json:"partitions,omitempty"`
}

// NewNode creates a node from inventory values. Hosts get a short name taken
// from their description and, when the name has an alphabetic prefix, a
// partition. Switches get neither.
func NewNode(id, description string, typeCode, capacity int) *Node {
	node := &Node{
		ID:          id,
		Description: description,
		Type:        NodeTypeFromCode(typeCode),
		Capacity:    capacity,
	}

	if node.Type == NodeTypeHost {
		node.Name = HostName(description)
		if partition, ok := InferPartition(node.Name); ok {
			node.Partitions = []string{partition}
		}
	}

	return node
}

// IsHost reports whether the node is a host adapter
func (n *Node) IsHost() bool {
	return n.Type == NodeTypeHost
}

// HostName returns the first whitespace delimited token of a description
func HostName(description string) string {
	fields := strings.Fields(description)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

var partitionPattern = regexp.MustCompile(`^[a-zA-Z-]+`)

// InferPartition extracts the partition name from a host name: the leading
// run of letters and hyphens, without trailing hyphens. Names that start with
// anything else have no partition.
//
//	compute-node-42 -> compute-node
//	42node          -> (none)
func InferPartition(name string) (string, bool) {
	prefix := strings.TrimRight(partitionPattern.FindString(name), "-")
	return prefix, prefix != ""
}
