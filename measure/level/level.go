// Package level computes block-level amplitude statistics: sample peak,
// RMS, and crest factor. It is the measurement companion of the limiter:
// the ceiling invariant is checked on Peak, the audible density change on
// CrestDB.
package level

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-limiter/dsp/core"
)

// Stats holds amplitude statistics of one signal.
type Stats struct {
	Peak    float64 // maximum absolute sample value
	RMS     float64 // root mean square
	PeakDB  float64 // Peak in dBFS
	RMSDB   float64 // RMS in dBFS
	CrestDB float64 // PeakDB - RMSDB
}

// Measure computes statistics over a single-channel signal.
// An empty signal yields silence stats (-Inf dB levels).
func Measure(sig []float64) Stats {
	if len(sig) == 0 {
		return Stats{PeakDB: math.Inf(-1), RMSDB: math.Inf(-1)}
	}

	squares := make([]float64, len(sig))
	vecmath.MulBlock(squares, sig, sig)

	peakSquare := 0.0
	sum := 0.0

	for _, v := range squares {
		sum += v
		if v > peakSquare {
			peakSquare = v
		}
	}

	peak := math.Sqrt(peakSquare)
	rms := math.Sqrt(sum / float64(len(sig)))

	s := Stats{
		Peak:   peak,
		RMS:    rms,
		PeakDB: core.LinearToDB(peak),
		RMSDB:  core.LinearToDB(rms),
	}
	s.CrestDB = s.PeakDB - s.RMSDB

	return s
}

// MeasureInterleaved computes per-channel statistics over an interleaved
// signal. channels below 1 is treated as 1; trailing partial frames are
// ignored.
func MeasureInterleaved(sig []float64, channels int) []Stats {
	if channels < 1 {
		channels = 1
	}

	frames := len(sig) / channels
	stats := make([]Stats, channels)
	scratch := make([]float64, frames)

	for ch := 0; ch < channels; ch++ {
		for i := 0; i < frames; i++ {
			scratch[i] = sig[i*channels+ch]
		}

		stats[ch] = Measure(scratch)
	}

	return stats
}
