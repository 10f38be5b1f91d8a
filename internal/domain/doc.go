// Package domain defines the core types of the fabric topology converter.
//
// # Identifiers
//
// Node GUIDs and subnet prefixes arrive as "0x"-prefixed 64-bit hex values.
// CanonicalID turns them into the colon grouped form used as the key for
// nodes and subnets everywhere else. A malformed identifier is the only
// fatal input condition.
//
// # Topology
//
// A Topology holds one Subnet per discovered subnet prefix. Each Subnet has
// a Registry of nodes and an Adjacency of directed links. Both keep
// insertion order so that serialized output is deterministic.
//
// Every physical link yields two DirectedLink records whose ids are the
// pair 2k and 2k+1, each pointing at the other through OtherID. Parallel
// links between the same ordered node pair share one AdjacencyEntry.
//
// # Diagnostics
//
// Data-quality problems (count mismatches, dangling link references, orphan
// nodes, unresolvable links) are reported as Diagnostic values next to the
// result instead of aborting a run.
package domain
