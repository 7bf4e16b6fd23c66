package buffer

import "sync"

// maxPooledLen caps the capacity of buffers the pool retains. Host blocks
// are a few thousand samples at most; a one-off oversized request must not
// pin its allocation for the rest of the session.
const maxPooledLen = 1 << 16

// Pool recycles scratch Buffers for block shuttling across a host boundary,
// where every process call needs an input and an output block of the same
// length and allocating them per call would churn the GC.
type Pool struct {
	pool sync.Pool
}

// NewPool returns an empty Pool.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Buffer{}
			},
		},
	}
}

// Get returns a zeroed Buffer of the requested length, reusing a pooled
// allocation when one with enough capacity is available. Callers hand the
// buffer back via Put when done with the block.
func (p *Pool) Get(length int) *Buffer {
	b := p.pool.Get().(*Buffer)
	b.Resize(length)
	b.Zero()
	return b
}

// Put returns a Buffer to the pool. Buffers grown past maxPooledLen are
// dropped instead of retained. The caller must not touch the buffer after
// Put.
func (p *Pool) Put(b *Buffer) {
	if b == nil || cap(b.samples) > maxPooledLen {
		return
	}
	p.pool.Put(b)
}
