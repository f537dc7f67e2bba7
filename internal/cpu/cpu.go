// Package cpu reports the SIMD extensions of the host processor. The vector
// kernels behind the window and FFT code pick their paths from the same
// hardware bits; the CLI prints them so benchmark numbers can be read in
// context.
package cpu

import (
	"strings"
	"sync"
)

// SIMDLevel is a SIMD instruction set extension level.
type SIMDLevel int

const (
	SIMDNone SIMDLevel = iota
	SIMDSSE2
	SIMDAVX
	SIMDAVX2
	SIMDAVX512
	SIMDNEON
)

// String returns a human-readable name for the SIMD level.
func (s SIMDLevel) String() string {
	switch s {
	case SIMDNone:
		return "None"
	case SIMDSSE2:
		return "SSE2"
	case SIMDAVX:
		return "AVX"
	case SIMDAVX2:
		return "AVX2"
	case SIMDAVX512:
		return "AVX-512"
	case SIMDNEON:
		return "NEON"
	default:
		return "Unknown"
	}
}

// Features describes CPU capabilities.
type Features struct {
	HasSSE2   bool
	HasAVX    bool
	HasAVX2   bool
	HasAVX512 bool
	HasNEON   bool

	// Architecture is runtime.GOARCH.
	Architecture string
}

var detect = sync.OnceValue(detectFeaturesImpl)

// DetectFeatures returns the features of the current system. Detection runs
// once.
func DetectFeatures() Features {
	return detect()
}

// Best returns the most capable level in f.
func (f Features) Best() SIMDLevel {
	switch {
	case f.HasAVX512:
		return SIMDAVX512
	case f.HasAVX2:
		return SIMDAVX2
	case f.HasAVX:
		return SIMDAVX
	case f.HasSSE2:
		return SIMDSSE2
	case f.HasNEON:
		return SIMDNEON
	default:
		return SIMDNone
	}
}

// String lists the available extensions, e.g. "amd64: SSE2 AVX AVX2".
func (f Features) String() string {
	var names []string

	for _, l := range []struct {
		ok    bool
		level SIMDLevel
	}{
		{f.HasSSE2, SIMDSSE2},
		{f.HasAVX, SIMDAVX},
		{f.HasAVX2, SIMDAVX2},
		{f.HasAVX512, SIMDAVX512},
		{f.HasNEON, SIMDNEON},
	} {
		if l.ok {
			names = append(names, l.level.String())
		}
	}

	if len(names) == 0 {
		names = append(names, SIMDNone.String())
	}

	return f.Architecture + ": " + strings.Join(names, " ")
}
