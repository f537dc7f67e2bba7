package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// SinePCM16 generates a deterministic sine wave as 16-bit PCM. amplitude is
// relative to full scale (1 maps to 32767).
func SinePCM16(freqHz, sampleRate, amplitude float64, length int) []int16 {
	return ToPCM16(DeterministicSine(freqHz, sampleRate, amplitude, length))
}

// NoisePCM16 generates white noise in 16-bit PCM with a fixed seed.
func NoisePCM16(seed int64, amplitude float64, length int) []int16 {
	out := make([]int16, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = toPCM16((rng.Float64()*2 - 1) * amplitude)
	}
	return out
}

// RampPCM16 returns length samples stepping linearly from lo to hi inclusive.
func RampPCM16(lo, hi int16, length int) []int16 {
	out := make([]int16, length)
	if length == 1 {
		out[0] = lo
		return out
	}
	span := float64(hi) - float64(lo)
	for i := range out {
		out[i] = int16(math.Round(float64(lo) + span*float64(i)/float64(length-1)))
	}
	return out
}

// ToPCM16 converts normalized samples to int16 with a 32767 scale and
// saturation.
func ToPCM16(in []float64) []int16 {
	out := make([]int16, len(in))
	for i, v := range in {
		out[i] = toPCM16(v)
	}
	return out
}

// Blocks splits samples into consecutive blocks of size n. A trailing partial
// block is zero-padded.
func Blocks(samples []int16, n int) [][]int16 {
	if n <= 0 {
		return nil
	}
	var out [][]int16
	for start := 0; start < len(samples); start += n {
		block := make([]int16, n)
		copy(block, samples[start:])
		out = append(out, block)
	}
	return out
}

func toPCM16(v float64) int16 {
	v = math.Round(v * 32767)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
