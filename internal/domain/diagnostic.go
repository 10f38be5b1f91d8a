package domain

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a non-fatal data-quality finding
type DiagnosticKind string

const (
	// DiagCountMismatch: a declared host/switch/link count disagrees with the records found
	DiagCountMismatch DiagnosticKind = "count_mismatch"
	// DiagDanglingLink: a link names a node absent from its subnet's registry
	DiagDanglingLink DiagnosticKind = "dangling_link_reference"
	// DiagOrphanNode: registered nodes have no outgoing adjacency
	DiagOrphanNode DiagnosticKind = "orphan_node"
	// DiagUnresolvedLink: no endpoint port maps the link to a subnet
	DiagUnresolvedLink DiagnosticKind = "unresolved_link"
)

// Diagnostic is a non-fatal finding raised while building a topology
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Subnet   string         `json:"subnet,omitempty"`
	Entity   string         `json:"entity,omitempty"`
	NodeIDs  []string       `json:"node_ids,omitempty"`
	LinkID   string         `json:"link_id,omitempty"`
	Expected int            `json:"expected,omitempty"`
	Observed int            `json:"observed,omitempty"`
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagCountMismatch:
		return fmt.Sprintf("%s: %d %s found (declared %d)", d.Kind, d.Observed, d.Entity, d.Expected)
	case DiagDanglingLink:
		return fmt.Sprintf("%s: node %s not found in subnet %s but referenced by a link",
			d.Kind, strings.Join(d.NodeIDs, ","), d.Subnet)
	case DiagOrphanNode:
		return fmt.Sprintf("%s: %d nodes of subnet %s have no outgoing link: %s",
			d.Kind, len(d.NodeIDs), d.Subnet, strings.Join(d.NodeIDs, ","))
	case DiagUnresolvedLink:
		return fmt.Sprintf("%s: link %s has no endpoint port with a known subnet", d.Kind, d.LinkID)
	default:
		return string(d.Kind)
	}
}

// Diagnostics is an ordered list of findings
type Diagnostics []Diagnostic

// OfKind returns the diagnostics of a single kind
func (ds Diagnostics) OfKind(kind DiagnosticKind) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// CountByKind tallies diagnostics per kind
func (ds Diagnostics) CountByKind() map[DiagnosticKind]int {
	counts := make(map[DiagnosticKind]int)
	for _, d := range ds {
		counts[d.Kind]++
	}
	return counts
}
