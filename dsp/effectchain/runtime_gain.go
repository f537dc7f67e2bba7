package effectchain

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

const (
	minTrimDB = -60.0
	maxTrimDB = 24.0
)

// gainRuntime applies a static trim ("gainDb") with int16 saturation.
type gainRuntime struct {
	gain float64
}

func (g *gainRuntime) Configure(_ Context, p Params) error {
	db := p.GetNum("gainDb", 0)
	if db < minTrimDB || db > maxTrimDB {
		return fmt.Errorf("effectchain: gain must be in [%g, %g] dB: %g", minTrimDB, maxTrimDB, db)
	}

	g.gain = core.DBToLinear(db)

	return nil
}

func (g *gainRuntime) ProcessBlock(block []int16) []int16 {
	if g.gain == 1 {
		return block
	}

	for i, s := range block {
		v := math.Round(float64(s) * g.gain)
		block[i] = int16(core.Clamp(v, core.PCM16Min, core.PCM16Max))
	}

	return block
}
