// Package webnode backs the WebAssembly boundary of the limiter node.
//
// A host that cannot share Go memory management addresses limiter instances
// and raw byte buffers through opaque uint32 handles. Every operation on an
// absent or already-released handle is a silent no-op; the boundary surface
// has no error channel.
//
// The registry itself is plain Go and single-threaded like the limiter: the
// host is expected to serialize calls, which the JS/wasm glue does by
// construction.
package webnode

import "github.com/cwbudde/algo-limiter/dsp/limiter"

// InvalidHandle is never issued and denotes "absent" at the boundary.
const InvalidHandle uint32 = 0

// Registry owns limiter instances and boundary byte buffers for the
// lifetime of the wasm module.
type Registry struct {
	nextLimiter uint32
	nextBuffer  uint32

	limiters map[uint32]*limiter.Limiter
	buffers  map[uint32][]byte
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		limiters: make(map[uint32]*limiter.Limiter),
		buffers:  make(map[uint32][]byte),
	}
}

// Create constructs a limiter with default parameters and returns its
// handle. The caller becomes the sole owner and must release it with
// Destroy.
func (r *Registry) Create(sampleRateHz float64) uint32 {
	r.nextLimiter++
	if r.nextLimiter == InvalidHandle {
		r.nextLimiter++
	}

	h := r.nextLimiter
	r.limiters[h] = limiter.New(sampleRateHz)

	return h
}

// Destroy releases the instance behind h exactly once. Absent or stale
// handles are a no-op.
func (r *Registry) Destroy(h uint32) {
	delete(r.limiters, h)
}

// SetParams forwards a bulk parameter update. No-op for absent handles.
func (r *Registry) SetParams(h uint32, p limiter.Params) {
	if l, ok := r.limiters[h]; ok {
		l.SetParams(p)
	}
}

// Process limits an interleaved block. No-op for absent handles; buffer and
// frame validation is handled by the limiter itself.
func (r *Registry) Process(h uint32, out, in []float32, frames, channels int) {
	if l, ok := r.limiters[h]; ok {
		l.Process(out, in, frames, channels)
	}
}

// Limiter returns the instance behind h, or nil when absent. Used by the
// glue layer for state queries.
func (r *Registry) Limiter(h uint32) *limiter.Limiter {
	return r.limiters[h]
}
