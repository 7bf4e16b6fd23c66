// Package buffer provides reuse-friendly float32 sample buffers for block
// processing around the limiter. The limiter itself works on raw []float32;
// use Samples() to bridge.
package buffer
