package art

// innerNode is the in-memory form of an inner-node record (spec §3):
// a class tag, an inline compressed prefix, and a child set whose
// shape depends on class. Grounded on sirgallo-mari/Node.go's node
// struct, split into per-class arrays the way TomTonic-multimap/art's
// node_types.go lays out its N4/N16/N48/N256 structs, since mari
// itself has only one node shape (its HAMT has no class hierarchy).
type innerNode struct {
	class nodeClass

	prefix    []byte // length == prefixLen, capacity <= tree.maxPrefix
	prefixLen int

	// keys holds one key byte per child, in the same order as
	// children, for classes with hasKeyArray(). N16/N32 keep this
	// sorted ascending for binary search; N4/N8 keep insertion order.
	keys []byte

	// slots is the 256-entry byte->compact-index map for hasSlotIndex
	// classes (N64/N128). slots[b] == emptySlot means byte b has no
	// child; otherwise it indexes into children.
	slots *[256]byte

	// children holds child stream addresses. For N4/N8/N16/N32 and
	// N64/N128 its length equals the live child count (compact,
	// parallel to keys or slots); for N256 it is always 256 long and
	// indexed directly by key byte, 0 meaning no child.
	children []uint64
}

// emptySlot marks an unused entry in an N64/N128 slot index.
const emptySlot = 0xFF

// leafNode is the in-memory form of a leaf record (spec §3): the
// tail of the key not already consumed by the path to this leaf
// (escaped, terminator-suffixed), plus the value. When the terminator
// itself is the key byte selecting the leaf at its parent, nothing of
// the key is left and partial is empty.
type leafNode struct {
	partial []byte // escaped partial key: ends with the terminator byte, or is empty
	value   []byte
}

func newInnerNode(class nodeClass) *innerNode {
	n := &innerNode{class: class}

	switch {
	case class.hasKeyArray():
		n.keys = make([]byte, 0, class.maxChildren())
		n.children = make([]uint64, 0, class.maxChildren())
	case class.hasSlotIndex():
		var slots [256]byte
		for i := range slots {
			slots[i] = emptySlot
		}
		n.slots = &slots
		n.children = make([]uint64, 0, class.maxChildren())
	case class == classN256:
		n.children = make([]uint64, 256)
	}

	return n
}

// childCount reports the number of live children.
func (n *innerNode) childCount() int {
	switch {
	case n.class.hasKeyArray() || n.class.hasSlotIndex():
		return len(n.children)
	case n.class == classN256:
		count := 0
		for _, c := range n.children {
			if c != 0 {
				count++
			}
		}
		return count
	default:
		return 0
	}
}

// findChild returns the child address for key byte b and whether it exists.
func (n *innerNode) findChild(b byte) (uint64, bool) {
	switch {
	case n.class == classN4 || n.class == classN8:
		for i, k := range n.keys {
			if k == b {
				return n.children[i], true
			}
		}
		return 0, false

	case n.class.hasSortedKeys():
		i := sortSearchBytes(n.keys, b)
		if i < len(n.keys) && n.keys[i] == b {
			return n.children[i], true
		}
		return 0, false

	case n.class.hasSlotIndex():
		idx := n.slots[b]
		if idx == emptySlot {
			return 0, false
		}
		return n.children[idx], true

	case n.class == classN256:
		c := n.children[b]
		return c, c != 0
	}

	return 0, false
}

// sortSearchBytes returns the index of the first byte >= b in a
// sorted slice (a specialised sort.Search to avoid the closure cost
// on this hot path).
func sortSearchBytes(keys []byte, b byte) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := (lo + hi) / 2
		if keys[mid] < b {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// addChild inserts a new child keyed by b. The caller must have
// already verified the node is not at capacity.
func (n *innerNode) addChild(b byte, addr uint64) {
	switch {
	case n.class == classN4 || n.class == classN8:
		n.keys = append(n.keys, b)
		n.children = append(n.children, addr)

	case n.class.hasSortedKeys():
		i := sortSearchBytes(n.keys, b)
		n.keys = append(n.keys, 0)
		copy(n.keys[i+1:], n.keys[i:len(n.keys)-1])
		n.keys[i] = b

		n.children = append(n.children, 0)
		copy(n.children[i+1:], n.children[i:len(n.children)-1])
		n.children[i] = addr

	case n.class.hasSlotIndex():
		n.slots[b] = byte(len(n.children))
		n.children = append(n.children, addr)

	case n.class == classN256:
		n.children[b] = addr
	}
}

// removeChild deletes the child keyed by b, which must be present.
func (n *innerNode) removeChild(b byte) {
	switch {
	case n.class == classN4 || n.class == classN8:
		for i, k := range n.keys {
			if k == b {
				n.keys = append(n.keys[:i], n.keys[i+1:]...)
				n.children = append(n.children[:i], n.children[i+1:]...)
				return
			}
		}

	case n.class.hasSortedKeys():
		i := sortSearchBytes(n.keys, b)
		n.keys = append(n.keys[:i], n.keys[i+1:]...)
		n.children = append(n.children[:i], n.children[i+1:]...)

	case n.class.hasSlotIndex():
		idx := n.slots[b]
		n.slots[b] = emptySlot
		n.children = append(n.children[:idx], n.children[idx+1:]...)
		// Every slot index pointing past the removed compact index
		// must shift down by one to track the children slice.
		for k, v := range n.slots {
			if v != emptySlot && v > idx {
				n.slots[byte(k)] = v - 1
			}
		}

	case n.class == classN256:
		n.children[b] = 0
	}
}

// soleChild returns the only remaining child's key byte and address,
// valid only when childCount() == 1 (used by the delete engine's
// lone-child merge, §4.I).
func (n *innerNode) soleChild() (byte, uint64) {
	switch {
	case n.class.hasKeyArray():
		return n.keys[0], n.children[0]

	case n.class.hasSlotIndex():
		for b, idx := range n.slots {
			if idx != emptySlot {
				return byte(b), n.children[idx]
			}
		}

	case n.class == classN256:
		for b, c := range n.children {
			if c != 0 {
				return byte(b), c
			}
		}
	}

	return 0, 0
}

// nodeSize returns the fixed on-stream byte size of class's record
// given pointer width p and max prefix length maxPrefix (spec §4.F).
// classLeaf has no fixed size; leaf records are sized per-instance by
// serialize.go and allocated directly from the allocator, not a pool.
func nodeSize(class nodeClass, p uint8, maxPrefix uint8) uint64 {
	header := uint64(1 + 1 + 1 + int(maxPrefix)) // tag, childCount(1 byte), prefixLen, prefix bytes

	switch {
	case class.hasKeyArray():
		n := uint64(class.maxChildren())
		return header + n + n*uint64(p)

	case class.hasSlotIndex():
		n := uint64(class.maxChildren())
		return header + 256 + n*uint64(p)

	case class == classN256:
		return header + 256*uint64(p)
	}

	return 0
}
