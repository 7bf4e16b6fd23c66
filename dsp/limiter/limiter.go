package limiter

import (
	"math"

	"github.com/cwbudde/algo-limiter/dsp/core"
)

const (
	defaultCeilingDB = -0.3
	defaultReleaseMs = 120.0
	defaultMakeupDB  = 0.0

	minCeilingDB = -60.0
	maxCeilingDB = 0.0
	minMakeupDB  = -24.0
	maxMakeupDB  = 24.0

	maxChannels = 2
)

// Params holds a complete limiter configuration. SetParams always replaces
// the whole set; partial updates are not supported.
type Params struct {
	CeilingDB  float64
	ReleaseMs  float64
	MakeupDB   float64
	Bypass     bool
	StereoLink bool
}

// DefaultParams returns the configuration a new limiter starts with.
func DefaultParams() Params {
	return Params{
		CeilingDB:  defaultCeilingDB,
		ReleaseMs:  defaultReleaseMs,
		MakeupDB:   defaultMakeupDB,
		Bypass:     false,
		StereoLink: true,
	}
}

// Limiter is a mono/stereo peak limiter with instantaneous attack and
// one-pole exponential release, processing interleaved float32 blocks.
//
// The zero value is not usable; create instances with New. A Limiter must
// not be copied once in use, since a copy would duplicate running gain
// state.
type Limiter struct {
	params Params

	// Derived coefficients, single precision for the sample loop.
	ceilingLin   float32
	makeupLin    float32
	releaseCoeff float32

	// Running gain state in (0, 1], converging toward 1 on quiet signal.
	gainLinked float32
	gainCh0    float32
	gainCh1    float32

	// Fixed at construction.
	sampleRate float64
}

// New creates a limiter for the given sample rate with default parameters
// (ceiling -0.3 dB, makeup 0 dB, release 120 ms, bypass off, stereo link
// on). Construction never fails; degenerate sample rates are absorbed by
// the coefficient guard in core.ReleaseCoefficient.
func New(sampleRateHz float64) *Limiter {
	l := &Limiter{
		sampleRate: sampleRateHz,
		gainLinked: 1,
		gainCh0:    1,
		gainCh1:    1,
	}
	l.SetParams(DefaultParams())

	return l
}

// SetParams replaces the limiter configuration in bulk. Out-of-range and
// non-finite values are clamped into their valid ranges; the call never
// fails and never leaves a partially updated configuration.
//
// Gain state is untouched, so parameter changes between blocks do not click
// beyond what the new ceiling itself implies.
func (l *Limiter) SetParams(p Params) {
	if l == nil {
		return
	}

	p.CeilingDB = core.Clamp(p.CeilingDB, minCeilingDB, maxCeilingDB)
	p.MakeupDB = core.Clamp(p.MakeupDB, minMakeupDB, maxMakeupDB)
	p.ReleaseMs = core.Clamp(p.ReleaseMs, core.MinReleaseMs, core.MaxReleaseMs)

	l.params = p
	l.ceilingLin = float32(core.DBToLinear(p.CeilingDB))
	l.makeupLin = float32(core.DBToLinear(p.MakeupDB))
	l.releaseCoeff = float32(core.ReleaseCoefficient(p.ReleaseMs, l.sampleRate))
}

// Params returns the current (clamped) configuration.
func (l *Limiter) Params() Params { return l.params }

// SampleRate returns the sample rate fixed at construction.
func (l *Limiter) SampleRate() float64 { return l.sampleRate }

// CeilingLinear returns the linear amplitude ceiling.
func (l *Limiter) CeilingLinear() float32 { return l.ceilingLin }

// ReleaseCoeff returns the one-pole release smoothing coefficient.
func (l *Limiter) ReleaseCoeff() float32 { return l.releaseCoeff }

// GainLinked returns the running gain of the stereo-linked path.
func (l *Limiter) GainLinked() float32 { return l.gainLinked }

// GainCh0 returns the running gain of channel 0 (also the mono gain).
func (l *Limiter) GainCh0() float32 { return l.gainCh0 }

// GainCh1 returns the running gain of channel 1.
func (l *Limiter) GainCh1() float32 { return l.gainCh1 }

// Reset returns all running gains to unity without touching parameters.
func (l *Limiter) Reset() {
	if l == nil {
		return
	}

	l.gainLinked = 1
	l.gainCh0 = 1
	l.gainCh1 = 1
}

// Process limits frames*channels interleaved samples from in into out.
//
// channels is clamped to [1, 2]. The call is a safe no-op when the receiver
// is nil, frames is not positive, or either buffer is too short for the
// requested frame count; out is never partially written. With bypass
// enabled the output is a bit-exact copy of the input and no gain state
// mutates. in and out may be the same slice.
func (l *Limiter) Process(out, in []float32, frames, channels int) {
	if l == nil || frames <= 0 {
		return
	}

	if channels < 1 {
		channels = 1
	} else if channels > maxChannels {
		channels = maxChannels
	}

	n := saturatedLen(frames, channels)
	if len(in) < n || len(out) < n {
		return
	}

	in = in[:n]
	out = out[:n]

	if l.params.Bypass {
		copy(out, in)
		return
	}

	switch {
	case channels == 2 && l.params.StereoLink:
		l.processLinked(out, in)
	case channels == 2:
		l.processDual(out, in)
	default:
		l.processMono(out, in)
	}
}

// ProcessInPlace limits a block in place.
func (l *Limiter) ProcessInPlace(buf []float32, frames, channels int) {
	l.Process(buf, buf, frames, channels)
}

// processLinked limits both channels with one shared gain driven by the
// louder channel, preserving the stereo image.
func (l *Limiter) processLinked(out, in []float32) {
	ceiling := l.ceilingLin
	makeup := l.makeupLin
	rel := l.releaseCoeff
	g := l.gainLinked

	for i := 0; i+1 < len(in); i += 2 {
		left := in[i] * makeup
		right := in[i+1] * makeup

		peak := abs32(left)
		if r := abs32(right); r > peak {
			peak = r
		}

		g = nextGain(g, gainTarget(peak, ceiling), rel)

		out[i] = left * g
		out[i+1] = right * g
	}

	l.gainLinked = g
}

// processDual limits each channel independently with its own gain and its
// own peak detector.
func (l *Limiter) processDual(out, in []float32) {
	ceiling := l.ceilingLin
	makeup := l.makeupLin
	rel := l.releaseCoeff
	g0 := l.gainCh0
	g1 := l.gainCh1

	for i := 0; i+1 < len(in); i += 2 {
		left := in[i] * makeup
		right := in[i+1] * makeup

		g0 = nextGain(g0, gainTarget(abs32(left), ceiling), rel)
		g1 = nextGain(g1, gainTarget(abs32(right), ceiling), rel)

		out[i] = left * g0
		out[i+1] = right * g1
	}

	l.gainCh0 = g0
	l.gainCh1 = g1
}

func (l *Limiter) processMono(out, in []float32) {
	ceiling := l.ceilingLin
	makeup := l.makeupLin
	rel := l.releaseCoeff
	g := l.gainCh0

	for i := range in {
		v := in[i] * makeup
		g = nextGain(g, gainTarget(abs32(v), ceiling), rel)
		out[i] = v * g
	}

	l.gainCh0 = g
}

// gainTarget returns the gain that places peak exactly at the ceiling, or
// unity when the peak is already under it.
func gainTarget(peak, ceiling float32) float32 {
	if peak > ceiling {
		return ceiling / peak
	}

	return 1
}

// nextGain advances the gain state by one sample: instantaneous when more
// reduction is needed (zero-time attack, so the triggering sample itself
// lands on the ceiling), one-pole smoothing toward the target otherwise
// (exponential release). Gain state is not clamped on write; state that is
// poked above 1 externally is the caller's problem.
func nextGain(g, target, rel float32) float32 {
	if target < g {
		return target
	}

	return g*rel + (1-rel)*target
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}

	return v
}

// saturatedLen multiplies frames by channels, saturating at math.MaxInt so
// absurd frame counts fail the buffer-length check instead of wrapping.
func saturatedLen(frames, channels int) int {
	if frames > math.MaxInt/channels {
		return math.MaxInt
	}

	return frames * channels
}
