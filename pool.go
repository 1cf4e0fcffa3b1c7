package art

import "sort"

// pool is one of the seven fixed-size slot pools over inner-node
// classes (§4.C): O(1) alloc/free via an in-memory free-slot list,
// topped up from the range allocator in whole chunks rather than one
// node at a time. Grounded on sirgallo-mari/NodePool.go's fixed-size
// pool, generalised from the teacher's single pool to one instance per
// class and retargeted from an in-memory freelist onto stream offsets.
type pool struct {
	class    nodeClass
	nodeSize uint64
	chunk    int
	alloc    *allocator
	free     []uint64
}

// newPool creates a pool for class whose records are nodeSize bytes.
// chunk follows the spec's sizing rule: max(8, 4096/node_size).
func newPool(alloc *allocator, class nodeClass, nodeSize uint64) *pool {
	chunk := int(4096 / nodeSize)
	if chunk < 8 {
		chunk = 8
	}

	return &pool{class: class, nodeSize: nodeSize, chunk: chunk, alloc: alloc}
}

// get returns a free slot offset, topping up from the allocator in a
// fresh chunk if the pool is empty.
func (p *pool) get() (uint64, error) {
	if len(p.free) == 0 {
		if err := p.refill(); err != nil {
			return 0, err
		}
	}

	n := len(p.free)
	off := p.free[n-1]
	p.free = p.free[:n-1]

	return off, nil
}

func (p *pool) refill() error {
	base, err := p.alloc.alloc(uint64(p.chunk) * p.nodeSize)
	if err != nil {
		return err
	}

	for i := 0; i < p.chunk; i++ {
		p.free = append(p.free, base+uint64(i)*p.nodeSize)
	}

	return nil
}

// put returns a slot to the pool, then reclaims the upper half of the
// free list back to the allocator once the pool holds more than two
// chunks' worth of idle slots (the saturation policy of §4.C), so a
// burst of deletes doesn't pin arbitrarily large idle capacity.
func (p *pool) put(offset uint64) {
	p.free = append(p.free, offset)

	if len(p.free) <= 2*p.chunk {
		return
	}

	sort.Slice(p.free, func(i, j int) bool { return p.free[i] < p.free[j] })

	half := len(p.free) / 2
	for _, off := range p.free[half:] {
		p.alloc.free_(off, p.nodeSize)
	}
	p.free = p.free[:half]
}
