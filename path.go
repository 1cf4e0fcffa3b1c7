package art

// PathStep records one hop of a root-to-node walk (spec §4.G): either
// an inner node or the terminal leaf, together with the parent link
// that reached it, so the insert/delete engines can rewrite a single
// parent pointer without ever recursing back up the tree.
type PathStep struct {
	offset uint64
	class  nodeClass

	inner *innerNode // nil when this step is the leaf
	leaf  *leafNode  // nil when this step is an inner node

	leafSize uint64 // on-stream size of leaf, valid when leaf != nil

	parentOffset uint64
	parentClass  nodeClass
	hasParent    bool
	keyByte      byte // key byte, at parent, selecting this step

	consumed int // key bytes consumed by the walk before this step's own prefix (or a leaf's partial key)
}

// Path is the full trail produced by findPath.
type Path struct {
	steps []PathStep
	key   []byte // full escaped search key
}

// last returns the final step of the walk, or the zero value if the
// tree has no root yet.
func (p *Path) last() (PathStep, bool) {
	if len(p.steps) == 0 {
		return PathStep{}, false
	}
	return p.steps[len(p.steps)-1], true
}

// isExact reports whether the walk terminated on a leaf whose partial
// key exactly matches the remaining, unconsumed suffix of the search
// key — i.e. the key is present.
func (p *Path) isExact() bool {
	last, ok := p.last()
	if !ok || last.leaf == nil {
		return false
	}
	remaining := p.key[last.consumed:]
	return bytesEqual(last.leaf.partial, remaining)
}

// findPath walks from the root toward key (already escaped), stopping
// at the first point of divergence: a leaf whose partial key differs,
// an inner node whose inline prefix differs, or an inner node with no
// child for the next key byte. The returned Path always has at least
// one step once the tree is non-empty.
func (t *Tree) findPath(key []byte) (*Path, error) {
	root, err := t.readRoot()
	if err != nil {
		return nil, err
	}

	path := &Path{key: key}
	if root == 0 {
		return path, nil
	}

	offset := root
	consumed := 0
	var parentOff uint64
	var parentClass nodeClass
	hasParent := false
	var keyByte byte

	for {
		class, err := t.readTag(offset)
		if err != nil {
			return nil, err
		}

		if class == classLeaf {
			leaf, size, err := t.readLeaf(offset)
			if err != nil {
				return nil, err
			}
			path.steps = append(path.steps, PathStep{
				offset: offset, class: class, leaf: leaf, leafSize: size,
				parentOffset: parentOff, parentClass: parentClass, hasParent: hasParent,
				keyByte: keyByte, consumed: consumed,
			})
			return path, nil
		}

		inner, err := t.readInner(offset)
		if err != nil {
			return nil, err
		}

		// consumed (and therefore step.consumed below) always counts
		// bytes consumed BEFORE this node's own prefix, for every stop
		// reason: insert/delete need to recompute inner.prefix's match
		// against the key uniformly regardless of why findPath halted.
		preConsumed := consumed

		matched := commonPrefixLen(inner.prefix, key[consumed:])

		if matched < inner.prefixLen {
			// Prefix mismatch: stop here, this node is the divergence point.
			path.steps = append(path.steps, PathStep{
				offset: offset, class: class, inner: inner,
				parentOffset: parentOff, parentClass: parentClass, hasParent: hasParent,
				keyByte: keyByte, consumed: preConsumed,
			})
			return path, nil
		}

		consumed += inner.prefixLen

		if consumed >= len(key) {
			// Key is exhausted exactly at this inner node: no further
			// byte to select a child with. Record it as the divergence
			// point; the insert engine treats this as a no-match case.
			path.steps = append(path.steps, PathStep{
				offset: offset, class: class, inner: inner,
				parentOffset: parentOff, parentClass: parentClass, hasParent: hasParent,
				keyByte: keyByte, consumed: preConsumed,
			})
			return path, nil
		}

		next := key[consumed]
		child, ok := inner.findChild(next)

		path.steps = append(path.steps, PathStep{
			offset: offset, class: class, inner: inner,
			parentOffset: parentOff, parentClass: parentClass, hasParent: hasParent,
			keyByte: keyByte, consumed: preConsumed,
		})

		if !ok {
			return path, nil
		}

		parentOff, parentClass, hasParent, keyByte = offset, class, true, next
		consumed++
		offset = child
	}
}

// commonPrefixLen returns the length of the shared prefix of a and b.
func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
