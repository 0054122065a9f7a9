// Package runtime holds the GenSyn graph core: the gate registry, per-gate parameter
// stores, the typed connection graph, pull-based evaluation and snapshot import/export.
//
// A Graph is safe for concurrent use. Every mutation takes a single graph-wide write
// lock; reads, including evaluation passes, share the read lock.
package runtime
