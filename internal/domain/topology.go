package domain

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Registry holds the nodes of one subnet in first-seen order
type Registry struct {
	nodes *orderedmap.OrderedMap[string, *Node]
}

// NewRegistry creates an empty node registry
func NewRegistry() *Registry {
	return &Registry{nodes: orderedmap.New[string, *Node]()}
}

// Add registers a node. The first node registered under an id wins; later
// additions with the same id are ignored and Add returns false.
func (r *Registry) Add(node *Node) bool {
	if _, exists := r.nodes.Get(node.ID); exists {
		return false
	}
	r.nodes.Set(node.ID, node)
	return true
}

// Get returns the node registered under id
func (r *Registry) Get(id string) (*Node, bool) {
	return r.nodes.Get(id)
}

// Has reports whether id is registered
func (r *Registry) Has(id string) bool {
	_, ok := r.nodes.Get(id)
	return ok
}

// Len returns the number of registered nodes
func (r *Registry) Len() int {
	return r.nodes.Len()
}

// Nodes returns the registered nodes in insertion order
func (r *Registry) Nodes() []*Node {
	out := make([]*Node, 0, r.nodes.Len())
	for pair := r.nodes.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// IDs returns the registered node ids in insertion order
func (r *Registry) IDs() []string {
	out := make([]string, 0, r.nodes.Len())
	for pair := r.nodes.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// AdjacencyEntry groups the parallel links of one ordered node pair
type AdjacencyEntry struct {
	Src   string
	Dst   string
	Links []DirectedLink
}

// NumParallel returns the number of physical links between Src and Dst
func (e AdjacencyEntry) NumParallel() int {
	return len(e.Links)
}

// Speed returns the aggregate bandwidth proxy of the entry
func (e AdjacencyEntry) Speed() int {
	return SpeedPerLink * len(e.Links)
}

type destinations = orderedmap.OrderedMap[string, []DirectedLink]

// Adjacency maps source node -> destination node -> parallel links, keeping
// every level in the order it was first encountered
type Adjacency struct {
	sources *orderedmap.OrderedMap[string, *destinations]
	entries int
	links   int
}

// NewAdjacency creates an empty adjacency structure
func NewAdjacency() *Adjacency {
	return &Adjacency{sources: orderedmap.New[string, *destinations]()}
}

// Append records a directed link under (Src.NodeID, Dst.NodeID)
func (a *Adjacency) Append(link DirectedLink) {
	dsts, ok := a.sources.Get(link.Src.NodeID)
	if !ok {
		dsts = orderedmap.New[string, []DirectedLink]()
		a.sources.Set(link.Src.NodeID, dsts)
	}

	links, ok := dsts.Get(link.Dst.NodeID)
	if !ok {
		a.entries++
	}
	dsts.Set(link.Dst.NodeID, append(links, link))
	a.links++
}

// Links returns the parallel links from src to dst in input order
func (a *Adjacency) Links(src, dst string) []DirectedLink {
	dsts, ok := a.sources.Get(src)
	if !ok {
		return nil
	}
	links, _ := dsts.Get(dst)
	return links
}

// HasSource reports whether id has at least one outgoing link
func (a *Adjacency) HasSource(id string) bool {
	_, ok := a.sources.Get(id)
	return ok
}

// Sources returns the source node ids in first-seen order
func (a *Adjacency) Sources() []string {
	out := make([]string, 0, a.sources.Len())
	for pair := a.sources.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Entries returns the adjacency entries of one source in first-seen order
func (a *Adjacency) Entries(src string) []AdjacencyEntry {
	dsts, ok := a.sources.Get(src)
	if !ok {
		return nil
	}
	out := make([]AdjacencyEntry, 0, dsts.Len())
	for pair := dsts.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, AdjacencyEntry{Src: src, Dst: pair.Key, Links: pair.Value})
	}
	return out
}

// AllEntries returns every adjacency entry, grouped by source
func (a *Adjacency) AllEntries() []AdjacencyEntry {
	out := make([]AdjacencyEntry, 0, a.entries)
	for _, src := range a.Sources() {
		out = append(out, a.Entries(src)...)
	}
	return out
}

// DirectedLinks returns every directed link record, grouped by entry
func (a *Adjacency) DirectedLinks() []DirectedLink {
	out := make([]DirectedLink, 0, a.links)
	for _, entry := range a.AllEntries() {
		out = append(out, entry.Links...)
	}
	return out
}

// Len returns the number of (source, destination) entries
func (a *Adjacency) Len() int {
	return a.entries
}

// LinkCount returns the number of directed link records
func (a *Adjacency) LinkCount() int {
	return a.links
}

// Subnet is one independent scope: a node registry and its adjacency
type Subnet struct {
	ID    string
	Nodes *Registry
	Links *Adjacency
}

// NewSubnet creates an empty subnet
func NewSubnet(id string) *Subnet {
	return &Subnet{
		ID:    id,
		Nodes: NewRegistry(),
		Links: NewAdjacency(),
	}
}

// Topology is the result of one conversion: every discovered subnet plus
// the global partition names, both in discovery order
type Topology struct {
	// Label is written as the subnet label line of every output file
	Label string

	subnets    *orderedmap.OrderedMap[string, *Subnet]
	partitions *orderedmap.OrderedMap[string, struct{}]
}

// NewTopology creates an empty topology
func NewTopology(label string) *Topology {
	return &Topology{
		Label:      label,
		subnets:    orderedmap.New[string, *Subnet](),
		partitions: orderedmap.New[string, struct{}](),
	}
}

// EnsureSubnet returns the subnet with the given id, creating it if needed
func (t *Topology) EnsureSubnet(id string) *Subnet {
	if s, ok := t.subnets.Get(id); ok {
		return s
	}
	s := NewSubnet(id)
	t.subnets.Set(id, s)
	return s
}

// Subnet returns the subnet with the given id
func (t *Topology) Subnet(id string) (*Subnet, bool) {
	return t.subnets.Get(id)
}

// Subnets returns all subnets in discovery order
func (t *Topology) Subnets() []*Subnet {
	out := make([]*Subnet, 0, t.subnets.Len())
	for pair := t.subnets.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// SubnetIDs returns all subnet ids in discovery order
func (t *Topology) SubnetIDs() []string {
	out := make([]string, 0, t.subnets.Len())
	for pair := t.subnets.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// AddPartition records a partition name; duplicates are ignored
func (t *Topology) AddPartition(name string) {
	if _, ok := t.partitions.Get(name); ok {
		return
	}
	t.partitions.Set(name, struct{}{})
}

// Partitions returns the discovered partition names in discovery order
func (t *Topology) Partitions() []string {
	out := make([]string, 0, t.partitions.Len())
	for pair := t.partitions.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}
