package art

// Stream is the backing random-access byte medium (spec §6). It is an
// external collaborator: the tree never assumes any concrete backing,
// only this contract. On construction of a fresh tree the stream must
// be empty (length 0); for Load, it must already contain a valid image.
type Stream interface {
	// ReadAt reads len(buf) bytes starting at off, returning the
	// number of bytes actually read (short reads are only expected at
	// EOF, which is a caller bug for a well-formed image).
	ReadAt(buf []byte, off uint64) (int, error)
	// WriteAt writes buf at off, growing the stream first if needed
	// is the caller's responsibility via SetLength.
	WriteAt(buf []byte, off uint64) (int, error)
	// Len returns the current stream length, i.e. its capacity.
	Len() (uint64, error)
	// SetLength grows or shrinks the stream to exactly n bytes. The
	// allocator calls this on both growth (append) and shrink.
	SetLength(n uint64) error
	// Flush persists any buffered writes. Best-effort: the spec
	// carries no durability contract (§5), so Flush failures are
	// surfaced but never block correctness of subsequent operations.
	Flush() error
	// Close releases any OS-level resources (file handles, mappings).
	Close() error
}
