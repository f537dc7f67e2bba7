// Package sinad measures signal-to-noise-and-distortion ratio and effective
// number of bits of a single-tone recording.
package sinad

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-lofi/dsp/window"
)

const (
	defaultRangeLowerHz = 20.0
	defaultRangeUpperHz = 20000.0

	// ENOB = (SINAD - 1.76) / 6.02 for a full-scale sine.
	enobOffsetDB  = 1.76
	enobDBPerBit  = 6.02
	maxHarmonics  = 9
	minSignalBins = 1
)

// Config holds SINAD analysis parameters.
type Config struct {
	SampleRate float64
	// FFTSize is rounded up to a power of two. Zero sizes the FFT from the
	// signal length.
	FFTSize int
	// FundamentalFreq pins the tone. Zero picks the strongest bin in range.
	FundamentalFreq float64
	RangeLowerFreq  float64
	RangeUpperFreq  float64
	// CaptureBins is the half width of the main lobe summed as signal. Zero
	// derives it from the window.
	CaptureBins int
	// WindowType defaults to Hann. Rectangular suits tones centred on a bin.
	WindowType window.Type
}

// Result holds one measurement.
type Result struct {
	FundamentalFreq float64
	SignalPower     float64
	// NoisePower covers everything in range outside the fundamental lobe,
	// harmonics included.
	NoisePower    float64
	HarmonicPower float64
	// SINAD in dB. +Inf when no noise was measured.
	SINAD float64
	// THD is the harmonic to fundamental amplitude ratio.
	THD  float64
	ENOB float64
}

// Calculator reuses its FFT plan and buffers across measurements of equal
// length. It is not safe for concurrent use.
type Calculator struct {
	cfg Config

	plan   *algofft.Plan[complex128]
	in     []complex128
	out    []complex128
	coeffs []float64
	magSq  []float64
}

// NewCalculator creates a SINAD calculator.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: normalizeConfig(cfg)}
}

// Analyze is a one-shot measurement of a time-domain signal.
func Analyze(signal []float64, cfg Config) Result {
	return NewCalculator(cfg).Analyze(signal)
}

// ENOB converts a SINAD in dB to effective bits.
func ENOB(sinadDB float64) float64 {
	return (sinadDB - enobOffsetDB) / enobDBPerBit
}

// Analyze windows signal, transforms it and evaluates the spectrum. Signals
// longer than the FFT size are truncated; shorter ones are zero padded.
func (c *Calculator) Analyze(signal []float64) Result {
	if len(signal) == 0 {
		return Result{}
	}

	fftSize := c.cfg.FFTSize
	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(signal))
	}

	if fftSize <= 1 || !c.prepare(fftSize, min(len(signal), fftSize)) {
		return Result{}
	}

	clear(c.in)

	for i, w := range c.coeffs {
		c.in[i] = complex(signal[i]*w, 0)
	}

	if err := c.plan.Forward(c.out, c.in); err != nil {
		return Result{}
	}

	for i := range c.magSq {
		x := c.out[i]
		c.magSq[i] = real(x)*real(x) + imag(x)*imag(x)
	}

	return c.fromPower(c.magSq, fftSize)
}

// CalculateFromPower evaluates a one-sided power spectrum (bins 0..Nyquist).
func (c *Calculator) CalculateFromPower(magSq []float64) Result {
	if len(magSq) <= 1 {
		return Result{}
	}

	return c.fromPower(magSq, 2*(len(magSq)-1))
}

func (c *Calculator) prepare(fftSize, winLen int) bool {
	if c.plan == nil || len(c.in) != fftSize {
		plan, err := algofft.NewPlan64(fftSize)
		if err != nil {
			return false
		}

		c.plan = plan
		c.in = make([]complex128, fftSize)
		c.out = make([]complex128, fftSize)
		c.magSq = make([]float64, fftSize/2+1)
	}

	if len(c.coeffs) != winLen {
		c.coeffs = window.Generate(c.cfg.WindowType, winLen, window.WithPeriodic())
	}

	return len(c.coeffs) == winLen
}

func (c *Calculator) fromPower(magSq []float64, fftSize int) Result {
	cfg := c.cfg
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = float64(fftSize)
	}

	binHz := cfg.SampleRate / float64(fftSize)
	maxBin := len(magSq) - 1

	lowerBin := clampInt(int(math.Round(cfg.RangeLowerFreq/binHz)), 1, maxBin)
	upperBin := clampInt(int(math.Round(cfg.RangeUpperFreq/binHz)), lowerBin, maxBin)

	fundamental := lowerBin
	if cfg.FundamentalFreq > 0 {
		fundamental = clampInt(int(math.Round(cfg.FundamentalFreq/binHz)), lowerBin, upperBin)
	} else {
		for i := lowerBin; i <= upperBin; i++ {
			if magSq[i] > magSq[fundamental] {
				fundamental = i
			}
		}
	}

	capture := cfg.CaptureBins
	if capture <= 0 {
		capture = mainLobeBins(cfg.WindowType)
	}

	signal := sumRange(magSq, fundamental-capture, fundamental+capture, lowerBin, upperBin)

	var total float64
	for i := lowerBin; i <= upperBin; i++ {
		total += magSq[i]
	}

	noise := max(total-signal, 0)

	var harmonics float64
	for k := 2; k <= maxHarmonics+1; k++ {
		bin := k * fundamental
		if bin-capture > upperBin {
			break
		}

		harmonics += sumRange(magSq, bin-capture, bin+capture, lowerBin, upperBin)
	}

	res := Result{
		FundamentalFreq: float64(fundamental) * binHz,
		SignalPower:     signal,
		NoisePower:      noise,
		HarmonicPower:   harmonics,
		SINAD:           math.Inf(1),
	}

	if signal <= 0 {
		res.SINAD = math.Inf(-1)
		res.ENOB = math.Inf(-1)

		return res
	}

	if noise > 0 {
		res.SINAD = 10 * math.Log10(signal/noise)
	}

	res.THD = math.Sqrt(harmonics / signal)
	res.ENOB = ENOB(res.SINAD)

	return res
}

func mainLobeBins(t window.Type) int {
	switch t {
	case window.TypeRectangular:
		return minSignalBins
	case window.TypeBlackmanHarris4Term:
		return 4
	default:
		return 2
	}
}

func normalizeConfig(cfg Config) Config {
	if cfg.RangeLowerFreq <= 0 {
		cfg.RangeLowerFreq = defaultRangeLowerHz
	}

	if cfg.RangeUpperFreq <= 0 {
		cfg.RangeUpperFreq = defaultRangeUpperHz
	}

	if cfg.RangeUpperFreq < cfg.RangeLowerFreq {
		cfg.RangeUpperFreq = cfg.RangeLowerFreq
	}

	if cfg.CaptureBins < 0 {
		cfg.CaptureBins = 0
	}

	if cfg.FFTSize > 0 {
		cfg.FFTSize = nextPowerOf2(cfg.FFTSize)
	}

	return cfg
}

func sumRange(magSq []float64, from, to, lo, hi int) float64 {
	from = max(from, lo)
	to = min(to, hi)

	var sum float64
	for i := from; i <= to; i++ {
		sum += magSq[i]
	}

	return sum
}

func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}

	if val > hi {
		return hi
	}

	return val
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
