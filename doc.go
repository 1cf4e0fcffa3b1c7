// Package art implements a stream-backed adaptive radix tree: an
// ordered, space-optimized associative index mapping byte-encoded keys
// to byte-encoded values, stored as self-describing records in an
// append-growable random-access byte stream (a Stream implementation
// supplied by the caller). Point operations are O(k) in key length
// with no recursion and no GC-visible allocation growth beyond what a
// single operation touches; the tree assumes single-writer,
// single-reader use (see Options and Tree).
package art
