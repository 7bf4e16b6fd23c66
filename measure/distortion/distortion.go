// Package distortion measures the harmonic distortion a nonlinear processor
// adds to a pure sine. Limiting with an instantaneous attack flattens wave
// peaks and therefore generates odd harmonics; their level relative to the
// fundamental is the standard transparency metric for a limiter.
package distortion

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// captureBins is the half-width of the spectral window summed per harmonic.
// A Hann window spreads a tone over two bins to each side of its center.
const captureBins = 2

// Result holds a harmonic distortion measurement.
type Result struct {
	FundamentalHz    float64
	FundamentalLevel float64
	THD              float64   // summed harmonic level relative to the fundamental
	THDdB            float64   // THD in dB (-Inf when no harmonics registered)
	Harmonics        []float64 // per-harmonic ratios, starting at the 2nd
}

// Analyze measures harmonic distortion of a real-valued signal.
//
// fundamentalHz selects the fundamental bin; when it is not positive the
// strongest bin is used instead. The signal is Hann-windowed and transformed
// with an FFT sized to the next power of two; an empty signal or a failed
// plan yields a zero Result.
func Analyze(signal []float64, sampleRateHz, fundamentalHz float64) Result {
	if len(signal) == 0 || sampleRateHz <= 0 {
		return Result{}
	}

	fftSize := nextPowerOf2(len(signal))

	inData := make([]complex128, fftSize)
	for i, v := range signal {
		w := hann(i, len(signal))
		inData[i] = complex(v*w, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}
	}

	spectrum := make([]complex128, fftSize)
	if err := plan.Forward(spectrum, inData); err != nil {
		return Result{}
	}

	binCount := fftSize/2 + 1
	mags := make([]float64, binCount)
	for i := range mags {
		mags[i] = math.Hypot(real(spectrum[i]), imag(spectrum[i]))
	}

	binHz := sampleRateHz / float64(fftSize)
	maxBin := binCount - 1

	fundamentalBin := findFundamentalBin(mags, fundamentalHz, binHz)
	if fundamentalBin < 1 || fundamentalBin > maxBin {
		return Result{}
	}

	fundamentalLevel := binLevel(mags, fundamentalBin)
	if fundamentalLevel <= 0 {
		return Result{FundamentalHz: float64(fundamentalBin) * binHz}
	}

	harmonicSum := 0.0
	harmonics := make([]float64, 0, 8)

	for k := 2; ; k++ {
		bin := k * fundamentalBin
		if bin > maxBin {
			break
		}

		lvl := binLevel(mags, bin)
		harmonicSum += lvl
		harmonics = append(harmonics, lvl/fundamentalLevel)
	}

	thd := harmonicSum / fundamentalLevel

	thdDB := math.Inf(-1)
	if thd > 0 {
		thdDB = 20 * math.Log10(thd)
	}

	return Result{
		FundamentalHz:    float64(fundamentalBin) * binHz,
		FundamentalLevel: fundamentalLevel,
		THD:              thd,
		THDdB:            thdDB,
		Harmonics:        harmonics,
	}
}

func findFundamentalBin(mags []float64, fundamentalHz, binHz float64) int {
	if fundamentalHz > 0 {
		bin := int(math.Round(fundamentalHz / binHz))
		if bin < 1 {
			bin = 1
		}
		if bin > len(mags)-1 {
			bin = len(mags) - 1
		}
		return bin
	}

	bestBin := 1
	bestVal := -1.0

	for i := 1; i < len(mags); i++ {
		if mags[i] > bestVal {
			bestVal = mags[i]
			bestBin = i
		}
	}

	return bestBin
}

// binLevel sums magnitudes in a small window around bin to gather the
// energy the window function spread out.
func binLevel(mags []float64, bin int) float64 {
	lo := bin - captureBins
	if lo < 0 {
		lo = 0
	}

	hi := bin + captureBins
	if hi > len(mags)-1 {
		hi = len(mags) - 1
	}

	sum := 0.0
	for i := lo; i <= hi; i++ {
		sum += mags[i]
	}

	return sum
}

func hann(i, n int) float64 {
	if n <= 1 {
		return 1
	}

	return 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
