package distortion

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-limiter/dsp/limiter"
	"github.com/cwbudde/algo-limiter/internal/testutil"
)

const (
	testSampleRate = 48000.0
	testLength     = 4096
	// Bin-centered fundamental: bin 100 of a 4096-point FFT at 48 kHz.
	testFundamental = 100 * testSampleRate / testLength
)

func pureSine(amplitude float64) []float64 {
	sig := make([]float64, testLength)
	for i := range sig {
		sig[i] = amplitude * math.Sin(2*math.Pi*testFundamental*float64(i)/testSampleRate)
	}
	return sig
}

func TestAnalyzePureSineIsClean(t *testing.T) {
	res := Analyze(pureSine(0.5), testSampleRate, testFundamental)

	if math.Abs(res.FundamentalHz-testFundamental) > 1 {
		t.Errorf("FundamentalHz = %v, want %v", res.FundamentalHz, testFundamental)
	}

	if res.THD > 1e-3 {
		t.Errorf("pure sine measured THD = %v, want < 1e-3", res.THD)
	}
}

func TestAnalyzeFindsFundamentalWithoutHint(t *testing.T) {
	res := Analyze(pureSine(0.5), testSampleRate, 0)

	if math.Abs(res.FundamentalHz-testFundamental) > 1 {
		t.Errorf("peak search found %v Hz, want %v", res.FundamentalHz, testFundamental)
	}
}

func TestAnalyzeClippedSineHasOddHarmonics(t *testing.T) {
	sig := pureSine(1.0)
	for i, v := range sig {
		if v > 0.5 {
			sig[i] = 0.5
		} else if v < -0.5 {
			sig[i] = -0.5
		}
	}

	res := Analyze(sig, testSampleRate, testFundamental)

	if res.THD < 0.05 {
		t.Errorf("hard-clipped sine THD = %v, want > 0.05", res.THD)
	}

	if len(res.Harmonics) < 3 {
		t.Fatalf("expected several harmonics, got %d", len(res.Harmonics))
	}

	// Symmetric clipping generates odd harmonics: the 3rd must dominate
	// the 2nd.
	if res.Harmonics[1] <= res.Harmonics[0] {
		t.Errorf("3rd harmonic (%v) should dominate 2nd (%v)", res.Harmonics[1], res.Harmonics[0])
	}
}

func TestAnalyzeDegenerateInput(t *testing.T) {
	if res := Analyze(nil, testSampleRate, 1000); res.THD != 0 || res.FundamentalLevel != 0 {
		t.Errorf("empty signal should yield zero result: %+v", res)
	}

	if res := Analyze(pureSine(0.5), 0, 1000); res.FundamentalLevel != 0 {
		t.Errorf("non-positive sample rate should yield zero result: %+v", res)
	}
}

func TestLimiterTransparentUnderCeiling(t *testing.T) {
	l := limiter.New(testSampleRate)

	in := testutil.Sine(testFundamental, testSampleRate, 0.5, testLength)
	out := make([]float32, testLength)
	l.Process(out, in, testLength, 1)

	res := Analyze(testutil.ToFloat64(out), testSampleRate, testFundamental)
	if res.THD > 1e-3 {
		t.Errorf("limiter under ceiling added distortion: THD = %v", res.THD)
	}
}

func TestLimiterHardLimitingAddsOddHarmonics(t *testing.T) {
	l := limiter.New(testSampleRate)
	l.SetParams(limiter.Params{
		CeilingDB:  -0.3,
		ReleaseMs:  0.1, // fastest release: gain tracks the waveform
		MakeupDB:   0,
		StereoLink: true,
	})

	in := testutil.Sine(testFundamental, testSampleRate, 3.0, testLength)
	out := make([]float32, testLength)
	l.Process(out, in, testLength, 1)

	res := Analyze(testutil.ToFloat64(out), testSampleRate, testFundamental)

	if res.THD < 0.05 {
		t.Errorf("hard limiting measured THD = %v, want > 0.05", res.THD)
	}

	if len(res.Harmonics) >= 2 && res.Harmonics[1] <= res.Harmonics[0] {
		t.Errorf("3rd harmonic (%v) should dominate 2nd (%v)", res.Harmonics[1], res.Harmonics[0])
	}
}
