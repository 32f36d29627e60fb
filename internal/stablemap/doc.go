// Package stablemap provides durable ordered maps keyed by byte strings.
//
// An Engine stores raw key/value bytes partitioned by MemoryID, one partition
// per logical map, the same way a memory manager hands out independent
// virtual memories from one backing store. Within a partition keys iterate
// in ascending byte order.
//
// Three engines are available:
//   - sqlite: single-file database (mattn/go-sqlite3), WAL mode
//   - pebble: LSM key-value store (cockroachdb/pebble)
//   - memory: process-local, for tests and throwaway runs
//
// Map layers typed keys and values over an engine using codec.Codec
// implementations. Engines do not coordinate concurrent writers; callers
// serialize access (see package state).
package stablemap
