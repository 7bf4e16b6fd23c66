// Package limiter provides a real-time peak limiter for interleaved
// single-precision audio.
//
// The limiter applies instantaneous gain reduction when a sample exceeds the
// configured ceiling and recovers the gain with a one-pole exponential
// release otherwise. Stereo material can be limited with a single linked
// gain driven by the louder channel, or with fully independent per-channel
// gains.
//
// The processing path performs no heap allocation and never fails: invalid
// handles and undersized buffers make Process a no-op, and out-of-range
// parameters are silently clamped. An instance is not internally
// synchronized; callers must serialize all operations on it.
package limiter
