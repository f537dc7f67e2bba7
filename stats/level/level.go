// Package level measures 16-bit PCM levels in dB relative to full scale.
package level

import "math"

const fullScale = 32768.0

// Stats holds level statistics of a 16-bit signal. Linear values are
// normalized to full scale (32768 = 1).
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64
	RMS            float64
	RMS_dB         float64
	Peak           float64
	Peak_dB        float64
	CrestFactor_dB float64
	// Clipped counts samples at either int16 rail.
	Clipped       int
	ZeroCrossings int
}

func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

func emptyStats() Stats {
	return Stats{
		RMS_dB:  math.Inf(-1),
		Peak_dB: math.Inf(-1),
	}
}

// Calculate computes the statistics of signal in one pass.
func Calculate(signal []int16) Stats {
	var m Meter
	m.Update(signal)

	return m.Result()
}

// Meter accumulates level statistics across blocks.
type Meter struct {
	n             int
	sum           float64
	sumSq         float64
	peak          int32
	clipped       int
	zeroCrossings int
	last          int16
}

// Update adds a block of samples.
func (m *Meter) Update(samples []int16) {
	for _, s := range samples {
		v := float64(s)
		m.sum += v
		m.sumSq += v * v

		a := int32(s)
		if a < 0 {
			a = -a
		}

		m.peak = max(m.peak, a)

		if s == math.MaxInt16 || s == math.MinInt16 {
			m.clipped++
		}

		if m.n > 0 && int32(m.last)*int32(s) < 0 {
			m.zeroCrossings++
		}

		m.last = s
		m.n++
	}
}

// Result computes the statistics of everything seen so far.
func (m *Meter) Result() Stats {
	if m.n == 0 {
		return emptyStats()
	}

	nf := float64(m.n)
	rms := math.Sqrt(m.sumSq/nf) / fullScale
	peak := float64(m.peak) / fullScale

	crest := 0.0
	if rms > 0 {
		crest = ampTodB(peak / rms)
	}

	return Stats{
		Length:         m.n,
		DC:             m.sum / nf / fullScale,
		RMS:            rms,
		RMS_dB:         ampTodB(rms),
		Peak:           peak,
		Peak_dB:        ampTodB(peak),
		CrestFactor_dB: crest,
		Clipped:        m.clipped,
		ZeroCrossings:  m.zeroCrossings,
	}
}

// Reset clears all accumulated data.
func (m *Meter) Reset() {
	*m = Meter{}
}
