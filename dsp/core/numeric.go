package core

import "math"

const defaultEpsilon = 1e-12

// Release time bounds in milliseconds. Values outside are clamped, never
// rejected.
const (
	MinReleaseMs = 0.1
	MaxReleaseMs = 5000.0
)

// Clamp limits value to the inclusive range [min, max].
// Non-finite values (NaN, ±Inf) degrade to min so that corrupted parameters
// never propagate into coefficient state.
func Clamp(value, min, max float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return min
	}

	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// LinearToDB converts linear amplitude to dB (20*log10 convention).
// Returns -Inf for zero and NaN for negative values.
func LinearToDB(linear float64) float64 {
	if linear < 0 {
		return math.NaN()
	}

	if linear == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(linear)
}

// ReleaseCoefficient converts a release time constant in milliseconds to a
// one-pole smoothing coefficient for the given sample rate.
//
// The release time is clamped to [MinReleaseMs, MaxReleaseMs]. With
// n = max(1, seconds*sampleRate) the coefficient is exp(-1/n), so after n
// samples of a constant target the smoothed gain has covered ~63% of the
// distance, matching a continuous exponential with that time constant.
// The result is always in the open interval (0, 1).
func ReleaseCoefficient(releaseMs, sampleRateHz float64) float64 {
	ms := Clamp(releaseMs, MinReleaseMs, MaxReleaseMs)
	n := math.Max(1, ms/1000*sampleRateHz)

	return math.Exp(-1 / n)
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}
