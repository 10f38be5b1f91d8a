// Package service implements the conversion of a fabric inventory snapshot
// into per-subnet topology files.
//
// # Stages
//
// InventoryBuilder registers every node into the subnets its ports belong
// to and collects partition names. LinkGrapher turns every physical link
// into two directed records with paired ids and files them into the
// adjacency of the owning subnet. ConsistencyChecker compares declared and
// observed counts, flags links that reference unregistered nodes, and lists
// nodes without outgoing links.
//
// Pipeline runs the stages in order over one Snapshot and returns a Result
// holding the Topology and every Diagnostic raised. FileSink renders each
// subnet with a codec.Exporter.
//
// # Event System
//
// Stages publish events on an EventBus (subnet built, diagnostic, subnet
// written, run completed). The metrics recorder subscribes to them.
package service
