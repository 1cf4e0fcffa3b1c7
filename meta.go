package art

// The root pointer cell occupies the first pointerWidth bytes of the
// stream (rootCellOffset == 0): a single fixed-width address, 0
// meaning the tree is empty. Grounded on sirgallo-mari/Meta.go's
// fixed metadata-at-offset-0 convention, narrowed from the teacher's
// multi-field version/root/pool-size header to the single address the
// spec's image format calls for (§6): everything else is recomputed
// by Reload rather than persisted.

func (t *Tree) readRoot() (uint64, error) {
	return t.readPointer(rootCellOffset)
}

func (t *Tree) writeRoot(addr uint64) error {
	return t.writePointer(rootCellOffset, addr)
}

// readPointer reads a pointerWidth-byte little-endian address at off.
func (t *Tree) readPointer(off uint64) (uint64, error) {
	buf := make([]byte, t.pointerWidth)
	if _, err := t.stream.ReadAt(buf, off); err != nil {
		return 0, err
	}

	var addr uint64
	for i := int(t.pointerWidth) - 1; i >= 0; i-- {
		addr = addr<<8 | uint64(buf[i])
	}

	return addr, nil
}

// writePointer writes a pointerWidth-byte little-endian address at off.
func (t *Tree) writePointer(off uint64, addr uint64) error {
	buf := make([]byte, t.pointerWidth)
	for i := 0; i < int(t.pointerWidth); i++ {
		buf[i] = byte(addr)
		addr >>= 8
	}

	_, err := t.stream.WriteAt(buf, off)
	return err
}
