//go:build fastmath

package effects

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// ln2 is the natural logarithm of 2, used for log base conversions.
const ln2 = 0.693147180559945309417232121458

// mathPower2 computes 2^x with the integer part exact and only the
// fractional part approximated, so whole bit depths keep exact level counts.
func mathPower2(x float64) float64 {
	ip, frac := math.Modf(x)
	if frac == 0 {
		return math.Ldexp(1, int(ip))
	}

	return math.Ldexp(approx.FastExp(frac*ln2), int(ip))
}
