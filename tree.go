package art

import "fmt"

// Tree is a stream-backed adaptive radix tree (spec §1-3): an ordered
// associative index from byte-encoded keys to byte-encoded values,
// stored entirely as self-describing records in a Stream. Grounded on
// sirgallo-mari/Mari.go's top-level struct (stream handle, resize
// state, node pool) widened with the seven per-class pools and the
// escape/prefix/pointer-width format constants the spec requires.
type Tree struct {
	stream Stream

	pointerWidth uint8
	maxPrefix    uint8
	terminator   byte
	escape1      byte
	escape2      byte

	alloc *allocator
	pools [7]*pool // indexed by nodeClass for the seven inner classes

	count uint64
}

// New creates a Tree over an empty Stream, writing an initial empty
// root cell. Stream must currently have length 0; use Load to open a
// stream that already holds a tree image.
func New(opts Options) (*Tree, error) {
	opts = opts.normalized()
	if opts.Stream == nil {
		return nil, fmt.Errorf("art: new: %w: Options.Stream is required", ErrFormatError)
	}

	n, err := opts.Stream.Len()
	if err != nil {
		return nil, err
	}
	if n != 0 {
		return nil, fmt.Errorf("art: new: %w: stream is not empty, use Load", ErrFormatError)
	}

	t := newTree(opts)

	rootCellSize := uint64(t.pointerWidth)
	if _, err := t.alloc.alloc(rootCellSize); err != nil {
		return nil, err
	}
	if err := t.writeRoot(0); err != nil {
		return nil, err
	}

	return t, nil
}

// Load opens a Tree over a Stream that already holds a valid image,
// rebuilding the allocator's free list by inferring used spans with
// Reload (§4.L). opts must describe the same format constants the
// image was created with.
func Load(opts Options) (*Tree, error) {
	opts = opts.normalized()
	if opts.Stream == nil {
		return nil, fmt.Errorf("art: load: %w: Options.Stream is required", ErrFormatError)
	}

	t := newTree(opts)

	if err := t.reload(); err != nil {
		return nil, err
	}

	return t, nil
}

func newTree(opts Options) *Tree {
	t := &Tree{
		stream:       opts.Stream,
		pointerWidth: opts.PointerWidth,
		maxPrefix:    opts.MaxPrefix,
		terminator:   opts.Terminator,
		escape1:      opts.Escape1,
		escape2:      opts.Escape2,
	}

	t.alloc = newAllocator(t.stream, 0)

	for _, class := range allInnerClasses {
		t.pools[class] = newPool(t.alloc, class, nodeSize(class, t.pointerWidth, t.maxPrefix))
	}

	return t
}

// Close flushes and releases the backing stream.
func (t *Tree) Close() error {
	if err := t.stream.Flush(); err != nil {
		return err
	}
	return t.stream.Close()
}

// Count returns the number of keys currently stored.
func (t *Tree) Count() uint64 {
	return t.count
}
