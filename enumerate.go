package art

// Item is a decoded key/value pair yielded by an enumerator. Key is
// the original, pre-escape key bytes the caller inserted.
type Item struct {
	Key   []byte
	Value []byte
}

// visitFn is called once per leaf reached by an enumerator; returning
// false stops the walk early.
type visitFn func(keyPrefix []byte, leaf *leafNode) bool

// walkSubtree performs an iterative (explicit-stack) DFS rooted at
// offset, passing each leaf's fully reconstructed escaped key (minus
// its trailing terminator) to visit. Grounded on
// sirgallo-mari/Iterate.go's traversal, rewritten from recursive to an
// explicit stack per spec §5's no-recursion requirement.
func (t *Tree) walkSubtree(offset uint64, prefix []byte, visit visitFn) (bool, error) {
	if offset == 0 {
		return true, nil
	}

	type frame struct {
		offset uint64
		prefix []byte
	}

	stack := []frame{{offset: offset, prefix: prefix}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		class, err := t.readTag(f.offset)
		if err != nil {
			return false, err
		}

		if class == classLeaf {
			leaf, _, err := t.readLeaf(f.offset)
			if err != nil {
				return false, err
			}
			full := append(append([]byte{}, f.prefix...), leaf.partial...)
			key := full[:len(full)-1] // drop terminator
			if !visit(key, leaf) {
				return false, nil
			}
			continue
		}

		inner, err := t.readInner(f.offset)
		if err != nil {
			return false, err
		}

		withPrefix := append(append([]byte{}, f.prefix...), inner.prefix...)

		children := collectOrderedChildren(inner)
		// Push in reverse so the smallest key byte is processed first
		// (a stack pops last-in-first-out).
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			childPrefix := append(append([]byte{}, withPrefix...), c.b)
			stack = append(stack, frame{offset: c.addr, prefix: childPrefix})
		}
	}

	return true, nil
}

type childEdge struct {
	b    byte
	addr uint64
}

// collectOrderedChildren returns a node's children sorted by key byte
// ascending, regardless of its class's native storage order.
func collectOrderedChildren(n *innerNode) []childEdge {
	var out []childEdge

	switch {
	case n.class == classN4 || n.class == classN8:
		out = make([]childEdge, len(n.keys))
		for i, k := range n.keys {
			out[i] = childEdge{k, n.children[i]}
		}
		sortEdges(out)

	case n.class.hasSortedKeys():
		out = make([]childEdge, len(n.keys))
		for i, k := range n.keys {
			out[i] = childEdge{k, n.children[i]}
		}

	case n.class.hasSlotIndex():
		for b, idx := range n.slots {
			if idx != emptySlot {
				out = append(out, childEdge{byte(b), n.children[idx]})
			}
		}

	case n.class == classN256:
		for b, c := range n.children {
			if c != 0 {
				out = append(out, childEdge{byte(b), c})
			}
		}
	}

	return out
}

func sortEdges(edges []childEdge) {
	for i := 1; i < len(edges); i++ {
		for j := i; j > 0 && edges[j-1].b > edges[j].b; j-- {
			edges[j-1], edges[j] = edges[j], edges[j-1]
		}
	}
}

// Keys returns every key in ascending order.
func (t *Tree) Keys() ([][]byte, error) {
	items, err := t.Items()
	if err != nil {
		return nil, err
	}
	keys := make([][]byte, len(items))
	for i, it := range items {
		keys[i] = it.Key
	}
	return keys, nil
}

// Values returns every value, ordered by ascending key.
func (t *Tree) Values() ([][]byte, error) {
	items, err := t.Items()
	if err != nil {
		return nil, err
	}
	values := make([][]byte, len(items))
	for i, it := range items {
		values[i] = it.Value
	}
	return values, nil
}

// Items returns every key/value pair, ordered by ascending key.
func (t *Tree) Items() ([]Item, error) {
	root, err := t.readRoot()
	if err != nil {
		return nil, err
	}

	var items []Item
	_, err = t.walkSubtree(root, nil, func(keyPrefix []byte, leaf *leafNode) bool {
		raw, uerr := t.unescape(keyPrefix)
		if uerr != nil {
			err = uerr
			return false
		}
		items = append(items, Item{Key: raw, Value: leaf.value})
		return true
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

// MinKey returns the smallest key in the tree.
func (t *Tree) MinKey() ([]byte, bool, error) {
	root, err := t.readRoot()
	if err != nil || root == 0 {
		return nil, false, err
	}

	var found []byte
	_, err = t.walkMinMax(root, nil, true, func(keyPrefix []byte, leaf *leafNode) {
		raw, _ := t.unescape(keyPrefix)
		found = raw
	})
	return found, found != nil, err
}

// MaxKey returns the largest key in the tree.
func (t *Tree) MaxKey() ([]byte, bool, error) {
	root, err := t.readRoot()
	if err != nil || root == 0 {
		return nil, false, err
	}

	var found []byte
	_, err = t.walkMinMax(root, nil, false, func(keyPrefix []byte, leaf *leafNode) {
		raw, _ := t.unescape(keyPrefix)
		found = raw
	})
	return found, found != nil, err
}

// walkMinMax descends always taking the first (smallest==true) or
// last (smallest==false) child until it reaches a leaf.
func (t *Tree) walkMinMax(offset uint64, prefix []byte, smallest bool, onLeaf func(keyPrefix []byte, leaf *leafNode)) (bool, error) {
	for {
		class, err := t.readTag(offset)
		if err != nil {
			return false, err
		}

		if class == classLeaf {
			leaf, _, err := t.readLeaf(offset)
			if err != nil {
				return false, err
			}
			full := append(append([]byte{}, prefix...), leaf.partial...)
			onLeaf(full[:len(full)-1], leaf)
			return true, nil
		}

		inner, err := t.readInner(offset)
		if err != nil {
			return false, err
		}
		prefix = append(append([]byte{}, prefix...), inner.prefix...)

		edges := collectOrderedChildren(inner)
		if len(edges) == 0 {
			return false, nil
		}

		var next childEdge
		if smallest {
			next = edges[0]
		} else {
			next = edges[len(edges)-1]
		}

		prefix = append(prefix, next.b)
		offset = next.addr
	}
}
