package domain

import "time"

// Run is one completed conversion as handed to the archive
type Run struct {
	ID          string
	CreatedAt   time.Time
	Source      string
	Format      string
	Mode        string
	Topology    *Topology
	Diagnostics Diagnostics
	Files       []OutputFile
}

// RunInfo is an archived run read back without its node and link records
type RunInfo struct {
	ID          string       `json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	Source      string       `json:"source"`
	Format      string       `json:"format"`
	Mode        string       `json:"mode"`
	Label       string       `json:"label"`
	Partitions  []string     `json:"partitions"`
	Subnets     []SubnetInfo `json:"subnets"`
	Diagnostics Diagnostics  `json:"diagnostics,omitempty"`
}

// SubnetInfo summarizes one archived subnet and the file written for it
type SubnetInfo struct {
	ID            string `json:"id"`
	Nodes         int    `json:"nodes"`
	Adjacencies   int    `json:"adjacencies"`
	DirectedLinks int    `json:"directed_links"`
	Path          string `json:"path,omitempty"`
	Digest        string `json:"digest,omitempty"`
	Bytes         int64  `json:"bytes,omitempty"`
}
