package art

import (
	"fmt"
)

// Bit-exact node (de)serialisation (spec §4.F). Inner records have a
// fixed size per class (node.go's nodeSize) and live in that class's
// pool; leaf records are variable-length and allocated directly from
// the allocator. Grounded on sirgallo-mari/Serialize.go's
// tag-then-fields wire layout, split across the seven node classes the
// way TomTonic-multimap/art's per-class files each serialise their own
// shape.
//
// Inner layout: tag(1) childCount(1) prefixLen(1) prefix(maxPrefix),
// per spec §3's "1 byte class tag; 1 byte child count c; 1 byte prefix
// length ℓ". childCount is unused (written as 0) for N256, whose true
// count can exceed a byte's range and is instead recovered by scanning
// all 256 direct pointer slots. Then, by class:
//
//	N4/N8/N16/N32: keys(maxChildren) children(maxChildren*P)
//	N64/N128:      slots(256)        children(maxChildren*P)
//	N256:          children(256*P)
//
// Leaf layout: tag(1) varint(partialLen) varint(valueLen) partial(partialLen) value(valueLen)

func (t *Tree) readTag(off uint64) (nodeClass, error) {
	var buf [1]byte
	if _, err := t.stream.ReadAt(buf[:], off); err != nil {
		return 0, err
	}
	return nodeClass(buf[0]), nil
}

func (t *Tree) innerHeaderSize() int {
	return 1 + 1 + 1 + int(t.maxPrefix)
}

func (t *Tree) readInner(off uint64) (*innerNode, error) {
	size := t.innerHeaderSize()
	header := make([]byte, size)
	if _, err := t.stream.ReadAt(header, off); err != nil {
		return nil, err
	}

	class := nodeClass(header[0])
	if class == classLeaf {
		return nil, fmt.Errorf("art: read inner: %w: offset %d holds a leaf", ErrFormatError, off)
	}

	// The stored child-count byte is meaningless for N256 (its 256
	// children can't fit in one byte): N256's body is read back by
	// scanning all 256 pointer slots directly, so the byte is left
	// unused on disk for that one class (spec §3).
	childCount := int(header[1])
	prefixLen := int(header[2])
	prefix := make([]byte, prefixLen)
	copy(prefix, header[3:3+prefixLen])

	n := newInnerNode(class)
	n.prefix = prefix
	n.prefixLen = prefixLen

	body := make([]byte, int(nodeSize(class, t.pointerWidth, t.maxPrefix))-size)
	if _, err := t.stream.ReadAt(body, off+uint64(size)); err != nil {
		return nil, err
	}

	switch {
	case class.hasKeyArray():
		max := class.maxChildren()
		n.keys = append(n.keys[:0], body[:childCount]...)
		ptrStart := max
		n.children = n.children[:0]
		for i := 0; i < childCount; i++ {
			n.children = append(n.children, decodePointer(body[ptrStart+i*int(t.pointerWidth):], t.pointerWidth))
		}

	case class.hasSlotIndex():
		var slots [256]byte
		copy(slots[:], body[:256])
		n.slots = &slots
		n.children = n.children[:0]
		for i := 0; i < childCount; i++ {
			n.children = append(n.children, decodePointer(body[256+i*int(t.pointerWidth):], t.pointerWidth))
		}

	case class == classN256:
		for b := 0; b < 256; b++ {
			n.children[b] = decodePointer(body[b*int(t.pointerWidth):], t.pointerWidth)
		}
	}

	return n, nil
}

// writeInner serialises n into its fixed-size record at off, which
// must already be sized for n.class (the caller allocates/reallocates
// on class change).
func (t *Tree) writeInner(off uint64, n *innerNode) error {
	size := nodeSize(n.class, t.pointerWidth, t.maxPrefix)
	buf := make([]byte, size)

	buf[0] = byte(n.class)
	if n.class != classN256 {
		buf[1] = byte(n.childCount())
	}
	buf[2] = byte(n.prefixLen)
	copy(buf[3:3+int(t.maxPrefix)], n.prefix)

	body := buf[t.innerHeaderSize():]

	switch {
	case n.class.hasKeyArray():
		max := n.class.maxChildren()
		copy(body[:len(n.keys)], n.keys)
		for i, addr := range n.children {
			encodePointer(body[max+i*int(t.pointerWidth):], addr, t.pointerWidth)
		}

	case n.class.hasSlotIndex():
		copy(body[:256], n.slots[:])
		for i, addr := range n.children {
			encodePointer(body[256+i*int(t.pointerWidth):], addr, t.pointerWidth)
		}

	case n.class == classN256:
		for b, addr := range n.children {
			encodePointer(body[b*int(t.pointerWidth):], addr, t.pointerWidth)
		}
	}

	_, err := t.stream.WriteAt(buf, off)
	return err
}

// allocInner takes a fresh slot from class's pool and writes n into it.
func (t *Tree) allocInner(n *innerNode) (uint64, error) {
	off, err := t.pools[n.class].get()
	if err != nil {
		return 0, err
	}
	if err := t.writeInner(off, n); err != nil {
		return 0, err
	}
	return off, nil
}

// freeInner returns an inner record's slot to its class's pool.
func (t *Tree) freeInner(off uint64, class nodeClass) {
	t.pools[class].put(off)
}

func (t *Tree) readLeaf(off uint64) (*leafNode, uint64, error) {
	var tag [1]byte
	if _, err := t.stream.ReadAt(tag[:], off); err != nil {
		return nil, 0, err
	}
	if nodeClass(tag[0]) != classLeaf {
		return nil, 0, fmt.Errorf("art: read leaf: %w: offset %d is not a leaf", ErrFormatError, off)
	}

	partialLen, n1, err := decodeVarintAt(t.stream, off+1)
	if err != nil {
		return nil, 0, err
	}
	valueLen, n2, err := decodeVarintAt(t.stream, off+1+uint64(n1))
	if err != nil {
		return nil, 0, err
	}

	bodyOff := off + 1 + uint64(n1) + uint64(n2)
	body := make([]byte, partialLen+valueLen)
	if _, err := t.stream.ReadAt(body, bodyOff); err != nil {
		return nil, 0, err
	}

	leaf := &leafNode{
		partial: body[:partialLen],
		value:   body[partialLen:],
	}

	total := bodyOff + uint64(len(body)) - off
	return leaf, total, nil
}

// leafSize returns the on-stream byte size of a leaf holding partial/value.
func leafSize(partial, value []byte) uint64 {
	return 1 + uint64(varintLength(uint64(len(partial)))) + uint64(varintLength(uint64(len(value)))) + uint64(len(partial)) + uint64(len(value))
}

// allocLeaf allocates and writes a new leaf record, returning its offset.
func (t *Tree) allocLeaf(leaf *leafNode) (uint64, error) {
	size := leafSize(leaf.partial, leaf.value)
	off, err := t.alloc.alloc(size)
	if err != nil {
		return 0, err
	}

	buf := make([]byte, 0, size)
	buf = append(buf, byte(classLeaf))
	buf = encodeVarint(buf, uint64(len(leaf.partial)))
	buf = encodeVarint(buf, uint64(len(leaf.value)))
	buf = append(buf, leaf.partial...)
	buf = append(buf, leaf.value...)

	if _, err := t.stream.WriteAt(buf, off); err != nil {
		return 0, err
	}

	return off, nil
}

func (t *Tree) freeLeaf(off, size uint64) {
	t.alloc.free_(off, size)
}

func decodePointer(buf []byte, p uint8) uint64 {
	var addr uint64
	for i := int(p) - 1; i >= 0; i-- {
		addr = addr<<8 | uint64(buf[i])
	}
	return addr
}

func encodePointer(dst []byte, addr uint64, p uint8) {
	for i := 0; i < int(p); i++ {
		dst[i] = byte(addr)
		addr >>= 8
	}
}
