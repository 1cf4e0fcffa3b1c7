package art

import "sort"

// span is a free byte range [offset, offset+length) within the stream.
type span struct {
	offset uint64
	length uint64
}

// allocator is the range allocator of spec §4.B: a first-fit free list
// over the stream's byte address space, with adjacent-span coalescing
// on free and trailing-span trimming on shrink. New space beyond the
// current stream length is carved by growing the stream itself.
//
// Grounded on sirgallo-mari's NodePool.go allocation discipline
// (allocate-new, never mutate in place) generalised from its fixed
// per-class pool to an arbitrary-length free-list allocator, since the
// spec additionally stores variable-length leaf records the teacher's
// fixed-size node pool never needed to size.
type allocator struct {
	stream Stream
	// free holds disjoint spans sorted by offset, ascending.
	free []span
	// watermark is the first stream offset not yet ever handed out;
	// everything at or beyond it is unused virgin space, reachable by
	// growing the stream rather than consulting free.
	watermark uint64
}

func newAllocator(stream Stream, watermark uint64) *allocator {
	return &allocator{stream: stream, watermark: watermark}
}

// alloc reserves n contiguous bytes, returning their offset. It tries
// the free list first (first-fit), splitting any oversized span; if
// none fits, it grows the stream past the watermark.
func (a *allocator) alloc(n uint64) (uint64, error) {
	if n == 0 {
		return 0, nil
	}

	for i, s := range a.free {
		if s.length < n {
			continue
		}

		if s.length == n {
			a.free = append(a.free[:i], a.free[i+1:]...)
		} else {
			a.free[i] = span{offset: s.offset + n, length: s.length - n}
		}

		return s.offset, nil
	}

	off := a.watermark
	if err := a.stream.SetLength(off + n); err != nil {
		return 0, err
	}
	a.watermark = off + n

	return off, nil
}

// free releases a previously allocated [offset, offset+length) range,
// coalescing it with any adjacent free spans.
func (a *allocator) free_(offset, length uint64) {
	if length == 0 {
		return
	}

	i := sort.Search(len(a.free), func(i int) bool { return a.free[i].offset >= offset })

	merged := span{offset: offset, length: length}

	if i > 0 && a.free[i-1].offset+a.free[i-1].length == offset {
		merged.offset = a.free[i-1].offset
		merged.length += a.free[i-1].length
		i--
		a.free = append(a.free[:i], a.free[i+1:]...)
	}

	if i < len(a.free) && merged.offset+merged.length == a.free[i].offset {
		merged.length += a.free[i].length
		a.free = append(a.free[:i], a.free[i+1:]...)
	}

	if merged.offset+merged.length == a.watermark {
		if err := a.stream.SetLength(merged.offset); err == nil {
			a.watermark = merged.offset
			return
		}
		// Shrink failed (best-effort per §5); keep the span on the
		// free list instead of losing track of the space.
	}

	a.free = append(a.free, span{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = merged
}

// loadFromSpans replaces the free list wholesale, used by Reload once
// the set of unused spans has been inferred from a DFS over the live
// tree image (§4.L).
func (a *allocator) loadFromSpans(spans []span, watermark uint64) {
	sorted := make([]span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].offset < sorted[j].offset })

	a.free = sorted
	a.watermark = watermark
}

// freeBytes reports the total bytes currently on the free list, used
// by Optimise to size its compacted image.
func (a *allocator) freeBytes() uint64 {
	var total uint64
	for _, s := range a.free {
		total += s.length
	}
	return total
}
