//go:build arm64

package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// x/sys leaves the ARM64 bits unset on some darwin releases; every Apple
// arm64 core has Advanced SIMD.
func detectFeaturesImpl() Features {
	return Features{
		HasNEON:      cpu.ARM64.HasASIMD || runtime.GOOS == "darwin",
		Architecture: runtime.GOARCH,
	}
}
