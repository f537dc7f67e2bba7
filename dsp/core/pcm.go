package core

import "math"

const (
	// PCM16Min is the smallest signed 16-bit sample value.
	PCM16Min = math.MinInt16
	// PCM16Max is the largest signed 16-bit sample value.
	PCM16Max = math.MaxInt16

	pcm16InScale  = 32768.0
	pcm16OutScale = 32767.0
)

// PCM16ToFloat32 normalizes a signed 16-bit sample by 1/32768, so the result
// lies in [-1, 32767/32768].
func PCM16ToFloat32(s int16) float32 {
	return float32(s) / pcm16InScale
}

// Float32ToPCM16 scales a normalized sample by 32767, rounds half away from
// zero and saturates to the int16 range. NaN maps to 0.
//
// The asymmetric scale factors (32768 in, 32767 out) mean a round trip is not
// the identity for full-scale negative input.
func Float32ToPCM16(y float32) int16 {
	v := math.Round(float64(y) * pcm16OutScale)

	switch {
	case math.IsNaN(v):
		return 0
	case v > PCM16Max:
		return PCM16Max
	case v < PCM16Min:
		return PCM16Min
	}

	return int16(v)
}

// PCM16ToFloat64 converts a block of int16 samples into dst as normalized
// float64 values and returns the number of converted samples.
func PCM16ToFloat64(dst []float64, src []int16) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float64(src[i]) / pcm16InScale
	}

	return n
}
