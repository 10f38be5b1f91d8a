// Package repository defines the run archive interface for fabtopo.
//
// Every conversion can be recorded together with the topology it produced,
// so earlier runs can be listed and compared after their output files have
// been replaced. The implementation is in the sqlite subpackage.
//
// # SQLite Implementation
//
// The sqlite archive stores one row per run plus its subnets, nodes,
// directed links and partitions. Each run is written in a single
// transaction, so a failed save leaves no partial run behind. The schema is
// created on open.
//
// # Testing
//
// The sqlite archive is tested against in-memory databases.
package repository
