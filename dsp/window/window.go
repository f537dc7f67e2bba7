// Package window generates analysis windows for spectral measurement of
// crushed signals.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function. The zero value is Hann.
type Type int

const (
	TypeHann Type = iota
	TypeBlackmanHarris4Term
	TypeRectangular
)

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "Rectangular"
	case TypeHann:
		return "Hann"
	case TypeBlackmanHarris4Term:
		return "Blackman-Harris 4-term"
	default:
		return "unknown"
	}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

var blackmanHarris4 = [...]float64{0.35875, 0.48829, 0.14128, 0.01168}

// Generate returns window coefficients of the given length. Unknown types and
// non-positive lengths return nil.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		x := samplePosition(i, length, cfg.periodic)

		switch t {
		case TypeRectangular:
			out[i] = 1
		case TypeHann:
			out[i] = 0.5 - 0.5*math.Cos(2*math.Pi*x)
		case TypeBlackmanHarris4Term:
			out[i] = blackmanHarris4[0] -
				blackmanHarris4[1]*math.Cos(2*math.Pi*x) +
				blackmanHarris4[2]*math.Cos(4*math.Pi*x) -
				blackmanHarris4[3]*math.Cos(6*math.Pi*x)
		default:
			return nil
		}
	}

	return out
}

// Apply multiplies buf by the selected window in place.
func Apply(t Type, buf []float64, opts ...Option) {
	coeffs := Generate(t, len(buf), opts...)
	if coeffs == nil {
		return
	}

	vecmath.MulBlockInPlace(buf, coeffs)
}

// ApplyCoefficients returns samples multiplied by coeffs.
func ApplyCoefficients(samples, coeffs []float64) ([]float64, error) {
	if len(samples) != len(coeffs) {
		return nil, ErrLengthMismatch
	}

	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out, nil
}

// CoherentGain returns the mean of the coefficients, the amplitude a
// bin-centred sinusoid keeps after windowing.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, ErrEmptyCoefficients
	}

	var sum float64
	for _, c := range coeffs {
		sum += c
	}

	return sum / float64(len(coeffs)), nil
}

// EquivalentNoiseBandwidth returns the window ENBW in bins.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, ErrEmptyCoefficients
	}

	var sum, sumSq float64
	for _, c := range coeffs {
		sum += c
		sumSq += c * c
	}

	if sum == 0 {
		return 0, ErrEmptyCoefficients
	}

	return float64(len(coeffs)) * sumSq / (sum * sum), nil
}

func samplePosition(n, size int, periodic bool) float64 {
	if size == 1 {
		return 0.5
	}

	if periodic {
		return float64(n) / float64(size)
	}

	return float64(n) / float64(size-1)
}
