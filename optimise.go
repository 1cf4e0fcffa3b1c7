package art

import "fmt"

// Optimise rewrites the tree into a contiguous, BFS-ordered image with
// no free spans, opportunistically downgrading any inner node whose
// class is now larger than its live child count needs. Grounded on
// sirgallo-mari/Compact.go + CompactUtils.go's copy-compaction pass,
// adapted from mari's version-tagged copy to a single parent-pointer
// rewrite map since this tree carries no version history to preserve.
func (t *Tree) Optimise() error {
	root, err := t.readRoot()
	if err != nil {
		return err
	}
	if root == 0 {
		return nil
	}

	type discovered struct {
		oldOffset uint64
		isLeaf    bool
		inner     *innerNode
		leaf      *leafNode
		class     nodeClass
		size      uint64
	}

	var order []discovered
	newOffset := make(map[uint64]uint64)

	queue := []uint64{root}
	for len(queue) > 0 {
		off := queue[0]
		queue = queue[1:]

		class, err := t.readTag(off)
		if err != nil {
			return err
		}

		if class == classLeaf {
			leaf, size, err := t.readLeaf(off)
			if err != nil {
				return err
			}
			order = append(order, discovered{oldOffset: off, isLeaf: true, leaf: leaf, class: classLeaf, size: size})
			continue
		}

		inner, err := t.readInner(off)
		if err != nil {
			return err
		}

		fitted := fitClass(inner.childCount())
		order = append(order, discovered{oldOffset: off, inner: inner, class: fitted, size: nodeSize(fitted, t.pointerWidth, t.maxPrefix)})

		for _, e := range collectOrderedChildren(inner) {
			queue = append(queue, e.addr)
		}
	}

	watermark := uint64(t.pointerWidth)
	for i := range order {
		newOffset[order[i].oldOffset] = watermark
		watermark += order[i].size
	}

	for _, d := range order {
		addr := newOffset[d.oldOffset]

		if d.isLeaf {
			buf := make([]byte, 0, d.size)
			buf = append(buf, byte(classLeaf))
			buf = encodeVarint(buf, uint64(len(d.leaf.partial)))
			buf = encodeVarint(buf, uint64(len(d.leaf.value)))
			buf = append(buf, d.leaf.partial...)
			buf = append(buf, d.leaf.value...)
			if _, err := t.stream.WriteAt(buf, addr); err != nil {
				return err
			}
			continue
		}

		remapped := remapClass(d.inner, d.class, newOffset)
		if err := t.writeInner(addr, remapped); err != nil {
			return err
		}
	}

	if err := t.stream.SetLength(watermark); err != nil {
		return err
	}

	if err := t.writeRoot(newOffset[root]); err != nil {
		return err
	}

	t.alloc.loadFromSpans(nil, watermark)
	for _, class := range allInnerClasses {
		t.pools[class].free = nil
	}

	return nil
}

// fitClass returns the smallest inner-node class able to hold count children.
func fitClass(count int) nodeClass {
	for _, c := range allInnerClasses {
		if c.maxChildren() >= count {
			return c
		}
	}
	return classN256
}

// remapClass builds a node of newClass holding n's children, with
// every child address translated through newOffset.
func remapClass(n *innerNode, newClass nodeClass, newOffset map[uint64]uint64) *innerNode {
	out := newInnerNode(newClass)
	out.prefix = cloneBytes(n.prefix)
	out.prefixLen = n.prefixLen

	for _, e := range collectOrderedChildren(n) {
		out.addChild(e.b, newOffset[e.addr])
	}

	return out
}

// span is reused here; usedSpan names a live record's byte range
// during Reload's inference pass.
type usedSpan = span

// reload rebuilds in-memory bookkeeping (the allocator's free list and
// the item count) from a stream that already holds a valid image, by
// running a full DFS via PathEnumerator and inferring everything else
// as free (spec §4.L). Grounded on sirgallo-mari/Compact.go's
// free-space recomputation.
func (t *Tree) reload() error {
	streamLen, err := t.stream.Len()
	if err != nil {
		return err
	}

	var used []usedSpan
	used = append(used, usedSpan{offset: 0, length: uint64(t.pointerWidth)})

	var count uint64

	if err := t.PathEnumerator(false, func(trail []TrailStep) bool {
		step := trail[len(trail)-1]
		if step.Leaf != nil {
			used = append(used, usedSpan{offset: step.Offset, length: step.LeafSize})
			count++
			return true
		}
		used = append(used, usedSpan{offset: step.Offset, length: nodeSize(step.Class, t.pointerWidth, t.maxPrefix)})
		return true
	}); err != nil {
		return err
	}

	free, err := complementSpans(used, streamLen)
	if err != nil {
		return err
	}

	t.alloc.loadFromSpans(free, streamLen)
	t.count = count

	return nil
}

// complementSpans sorts used (checking for overlaps, which would
// indicate a corrupt image) and returns the gaps between them up to
// total.
func complementSpans(used []usedSpan, total uint64) ([]usedSpan, error) {
	sortSpans(used)

	var free []usedSpan
	var cursor uint64

	for _, s := range used {
		if s.offset < cursor {
			return nil, fmt.Errorf("art: reload: %w: overlapping records at offset %d", ErrFormatError, s.offset)
		}
		if s.offset > cursor {
			free = append(free, usedSpan{offset: cursor, length: s.offset - cursor})
		}
		cursor = s.offset + s.length
	}

	if cursor < total {
		free = append(free, usedSpan{offset: cursor, length: total - cursor})
	} else if cursor > total {
		return nil, fmt.Errorf("art: reload: %w: records extend past stream end", ErrFormatError)
	}

	return free, nil
}

func sortSpans(s []usedSpan) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1].offset > s[j].offset; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
