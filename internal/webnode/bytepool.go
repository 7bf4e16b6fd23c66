package webnode

// AllocBytes reserves a raw byte buffer of the requested size for crossing
// the host boundary and returns its handle. Contents are unspecified; the
// caller owns the buffer until FreeBytes. Non-positive sizes return
// InvalidHandle.
//
// These buffers are generic boundary-crossing scratch memory. The limiter's
// own processing path never allocates and never uses this arena.
func (r *Registry) AllocBytes(size int) uint32 {
	if size <= 0 {
		return InvalidHandle
	}

	r.nextBuffer++
	if r.nextBuffer == InvalidHandle {
		r.nextBuffer++
	}

	h := r.nextBuffer
	r.buffers[h] = make([]byte, size)

	return h
}

// Bytes returns the buffer behind h, or nil when absent.
func (r *Registry) Bytes(h uint32) []byte {
	return r.buffers[h]
}

// FreeBytes releases the buffer behind h. size must match the size passed
// to AllocBytes; on mismatch, absent handle, or non-positive size the call
// is a no-op and the buffer stays registered. The handle must not be used
// after a successful release.
func (r *Registry) FreeBytes(h uint32, size int) {
	if size <= 0 {
		return
	}

	buf, ok := r.buffers[h]
	if !ok || len(buf) != size {
		return
	}

	delete(r.buffers, h)
}
