package art

// TrailStep is one node snapshot in a PathEnumerator trail (spec
// §4.J): either an inner node or a leaf, together with the escaped
// key bytes accumulated on the walk down to it.
type TrailStep struct {
	Offset   uint64
	Class    nodeClass
	Inner    *innerNode // nil when this step is the leaf
	Leaf     *leafNode  // nil when this step is an inner node
	LeafSize uint64     // on-stream size of Leaf, valid when Leaf != nil
	Key      []byte     // accumulated escaped key bytes through this step
}

// TrailVisitFn is called once per node PathEnumerator reaches, with
// the full root-to-node trail (root first); returning false stops the
// walk early.
type TrailVisitFn func(trail []TrailStep) bool

// PathEnumerator walks every node in the tree, DFS or BFS, invoking
// visit with the complete root-to-node trail at each step (spec
// §4.J). Grounded on enumerate.go's walkSubtree traversal order,
// widened to report the ancestor chain rather than just the leaf key.
func (t *Tree) PathEnumerator(bfs bool, visit TrailVisitFn) error {
	root, err := t.readRoot()
	if err != nil || root == 0 {
		return err
	}

	if bfs {
		return t.pathEnumerateBFS(root, visit)
	}
	return t.pathEnumerateDFS(root, visit)
}

func (t *Tree) pathEnumerateDFS(root uint64, visit TrailVisitFn) error {
	type frame struct {
		offset uint64
		prefix []byte
		trail  []TrailStep
	}

	stack := []frame{{offset: root}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		class, err := t.readTag(f.offset)
		if err != nil {
			return err
		}

		if class == classLeaf {
			leaf, size, err := t.readLeaf(f.offset)
			if err != nil {
				return err
			}
			full := append(append([]byte{}, f.prefix...), leaf.partial...)
			trail := append(append([]TrailStep{}, f.trail...), TrailStep{
				Offset: f.offset, Class: class, Leaf: leaf, LeafSize: size, Key: full,
			})
			if !visit(trail) {
				return nil
			}
			continue
		}

		inner, err := t.readInner(f.offset)
		if err != nil {
			return err
		}

		withPrefix := append(append([]byte{}, f.prefix...), inner.prefix...)
		trail := append(append([]TrailStep{}, f.trail...), TrailStep{
			Offset: f.offset, Class: class, Inner: inner, Key: withPrefix,
		})
		if !visit(trail) {
			return nil
		}

		edges := collectOrderedChildren(inner)
		for i := len(edges) - 1; i >= 0; i-- {
			e := edges[i]
			childPrefix := append(append([]byte{}, withPrefix...), e.b)
			stack = append(stack, frame{offset: e.addr, prefix: childPrefix, trail: trail})
		}
	}

	return nil
}

// pathEnumerateBFS walks breadth-first. Rather than copying the full
// trail at every enqueue, each discovered node only remembers its
// parent's index into the flat nodes slice; the trail at any depth is
// then rebuilt by walking that back-pointer chain exactly once (spec
// §4.J).
func (t *Tree) pathEnumerateBFS(root uint64, visit TrailVisitFn) error {
	type discovered struct {
		step   TrailStep
		parent int
	}
	type queued struct {
		offset uint64
		prefix []byte
		parent int
	}

	var nodes []discovered
	queue := []queued{{offset: root, parent: -1}}

	for len(queue) > 0 {
		q := queue[0]
		queue = queue[1:]

		class, err := t.readTag(q.offset)
		if err != nil {
			return err
		}

		var step TrailStep
		if class == classLeaf {
			leaf, size, err := t.readLeaf(q.offset)
			if err != nil {
				return err
			}
			full := append(append([]byte{}, q.prefix...), leaf.partial...)
			step = TrailStep{Offset: q.offset, Class: class, Leaf: leaf, LeafSize: size, Key: full}
		} else {
			inner, err := t.readInner(q.offset)
			if err != nil {
				return err
			}
			withPrefix := append(append([]byte{}, q.prefix...), inner.prefix...)
			step = TrailStep{Offset: q.offset, Class: class, Inner: inner, Key: withPrefix}

			for _, e := range collectOrderedChildren(inner) {
				childPrefix := append(append([]byte{}, withPrefix...), e.b)
				queue = append(queue, queued{offset: e.addr, prefix: childPrefix, parent: len(nodes)})
			}
		}

		nodes = append(nodes, discovered{step: step, parent: q.parent})

		idx := len(nodes) - 1
		var trail []TrailStep
		for idx != -1 {
			trail = append(trail, nodes[idx].step)
			idx = nodes[idx].parent
		}
		for i, j := 0, len(trail)-1; i < j; i, j = i+1, j-1 {
			trail[i], trail[j] = trail[j], trail[i]
		}

		if !visit(trail) {
			return nil
		}
	}

	return nil
}

// FilterContext labels which part of a FilterablePathEnumerator walk a
// PenaltyFunc call is scoring (spec §4.J).
type FilterContext int

const (
	// ContextPrefix scores one byte of an inner node's own inline prefix.
	ContextPrefix FilterContext = iota
	// ContextChild scores the key byte selecting a child edge, or a byte
	// of a leaf's partial key.
	ContextChild
	// ContextLeaf is the final confirmation call against a leaf's
	// complete accumulated key (terminator excluded).
	ContextLeaf
)

// FilterItem is passed to a PenaltyFunc at every scored byte (spec
// §4.J). Accumulated is the full escaped key built up to and including
// the byte under test (for Context == ContextLeaf, the complete key
// with its terminator already stripped); Accepted is the length
// already accepted by the parent stack frame, i.e. the accumulated
// length before the current node's own prefix/child bytes began.
type FilterItem struct {
	Accumulated []byte
	Length      int
	Accepted    int
	Context     FilterContext
}

// PenaltyFunc scores one step of a FilterablePathEnumerator walk,
// returning a non-negative cost to subtract from the remaining
// budget. The byte under test is Accumulated[Length-1], except for a
// ContextLeaf call, which scores the whole key at once.
type PenaltyFunc func(FilterItem) int

// FilterablePathEnumerator performs a budgeted beam-search DFS (spec
// §4.J): every stack entry carries a remaining budget; descending into
// a byte subtracts penalty(item) from it, and that branch is skipped
// outright once the budget would go negative. A byte equal to the
// tree's terminator is always admitted at cost 0, so leaf terminators
// are never pruned. Each leaf additionally gets one final penalty call
// against its complete accumulated key (terminator excluded) to
// confirm acceptance.
func (t *Tree) FilterablePathEnumerator(budget int, penalty PenaltyFunc, visit visitFn) error {
	root, err := t.readRoot()
	if err != nil || root == 0 {
		return err
	}

	stepCost := func(acc []byte, accepted int, ctx FilterContext) int {
		if acc[len(acc)-1] == t.terminator {
			return 0
		}
		c := penalty(FilterItem{Accumulated: acc, Length: len(acc), Accepted: accepted, Context: ctx})
		if c < 0 {
			c = 0
		}
		return c
	}

	type frame struct {
		offset    uint64
		prefix    []byte
		accepted  int
		remaining int
	}

	stack := []frame{{offset: root, remaining: budget}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		class, err := t.readTag(f.offset)
		if err != nil {
			return err
		}

		if class == classLeaf {
			leaf, _, err := t.readLeaf(f.offset)
			if err != nil {
				return err
			}

			acc := append([]byte{}, f.prefix...)
			remaining := f.remaining
			pruned := false
			for _, b := range leaf.partial {
				acc = append(acc, b)
				remaining -= stepCost(acc, f.accepted, ContextChild)
				if remaining < 0 {
					pruned = true
					break
				}
			}
			if pruned {
				continue
			}

			key := acc[:len(acc)-1] // drop terminator
			finalCost := penalty(FilterItem{Accumulated: key, Length: len(key), Accepted: f.accepted, Context: ContextLeaf})
			if finalCost < 0 {
				finalCost = 0
			}
			if remaining-finalCost < 0 {
				continue
			}

			if !visit(key, leaf) {
				return nil
			}
			continue
		}

		inner, err := t.readInner(f.offset)
		if err != nil {
			return err
		}

		prefix := append([]byte{}, f.prefix...)
		remaining := f.remaining
		pruned := false
		for _, b := range inner.prefix {
			prefix = append(prefix, b)
			remaining -= stepCost(prefix, f.accepted, ContextPrefix)
			if remaining < 0 {
				pruned = true
				break
			}
		}
		if pruned {
			continue
		}

		edges := collectOrderedChildren(inner)
		for i := len(edges) - 1; i >= 0; i-- {
			e := edges[i]
			childKey := append(append([]byte{}, prefix...), e.b)
			c := stepCost(childKey, len(prefix), ContextChild)
			childRemaining := remaining - c
			if childRemaining < 0 {
				continue
			}
			stack = append(stack, frame{offset: e.addr, prefix: childKey, accepted: len(prefix), remaining: childRemaining})
		}
	}

	return nil
}
