package arena

// Pool is a fixed-block slab allocator with free-list recycling. Slots are
// handed out from append-only blocks, so a slot's address stays valid for the
// pool's whole lifetime and callers may hold direct pointers into it. Released
// slots are recycled before any new block is grown. The pool never shrinks.
//
// Put does not zero the slot; a recycled slot still carries its previous
// contents and callers must fully reinitialize it.
//
// Not safe for concurrent use.
type Pool[T any] struct {
	blockSize int
	blocks    [][]T
	pos       int // next unused slot in the last block
	free      []*T
	live      int
}

const DefaultBlockSize = 1024

func New[T any](blockSize int) *Pool[T] {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	p := &Pool[T]{blockSize: blockSize}
	p.grow()
	return p
}

func (p *Pool[T]) grow() {
	p.blocks = append(p.blocks, make([]T, p.blockSize))
	p.pos = 0
}

// Get returns a writable slot, recycled if one is available.
func (p *Pool[T]) Get() *T {
	p.live++
	if n := len(p.free); n > 0 {
		slot := p.free[n-1]
		p.free = p.free[:n-1]
		return slot
	}
	if p.pos >= p.blockSize {
		p.grow()
	}
	slot := &p.blocks[len(p.blocks)-1][p.pos]
	p.pos++
	return slot
}

// Put returns a slot to the free list for reuse. Nil is ignored.
func (p *Pool[T]) Put(slot *T) {
	if slot == nil {
		return
	}
	p.live--
	p.free = append(p.free, slot)
}

// Live reports the number of slots currently handed out.
func (p *Pool[T]) Live() int { return p.live }

// Blocks reports how many slabs have been grown.
func (p *Pool[T]) Blocks() int { return len(p.blocks) }
