package limiter_test

import (
	"fmt"

	"github.com/cwbudde/algo-limiter/dsp/limiter"
)

// ExampleLimiter demonstrates basic stereo-linked limiting.
func ExampleLimiter() {
	l := limiter.New(48000)

	// A stereo frame at twice the ceiling is pulled down instantly.
	in := []float32{2.0, 2.0}
	out := make([]float32, 2)
	l.Process(out, in, 1, 2)

	fmt.Printf("gain: %.4f\n", l.GainLinked())
	fmt.Printf("output under ceiling: %v\n", out[0] <= l.CeilingLinear())
	// Output:
	// gain: 0.4830
	// output under ceiling: true
}

// ExampleLimiter_setParams demonstrates bulk parameter updates with silent
// clamping.
func ExampleLimiter_setParams() {
	l := limiter.New(44100)

	l.SetParams(limiter.Params{
		CeilingDB:  -1.0,
		ReleaseMs:  250,
		MakeupDB:   99, // out of range, clamped
		StereoLink: false,
	})

	p := l.Params()
	fmt.Printf("ceiling: %.1f dB\n", p.CeilingDB)
	fmt.Printf("release: %.0f ms\n", p.ReleaseMs)
	fmt.Printf("makeup: %.0f dB\n", p.MakeupDB)
	// Output:
	// ceiling: -1.0 dB
	// release: 250 ms
	// makeup: 24 dB
}
