// Package store provides SQLite-backed durable storage for piper IR
// trees and pass provenance.
//
// Trees are content-addressed: the primary key is ast.TreeID, the
// SHA-256 of the tree's canonical encoding, so saving the same tree
// twice is a no-op and IDs are stable across processes. The stored body
// is the tagged envelope produced by ast.MarshalItem, which
// deserializes back to an equal tree.
//
// Pass runs record which pass produced which tree from which source,
// giving a provenance chain between intermediate trees.
//
// Database configuration:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: pass runs must reference stored trees
//
// All ordering uses seq INTEGER (insertion order), never timestamps, so
// listings are deterministic.
package store
