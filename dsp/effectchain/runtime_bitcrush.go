package effectchain

import "github.com/cwbudde/algo-lofi/dsp/effects"

// BitCrushRuntime handles the "bitcrush" node type.
//
// Parameters: "drive" in [0, 1] and "outputGain" in [0, 2]. Missing keys keep
// the current value, so a partial update never resets the other control.
type BitCrushRuntime struct {
	fx *effects.BitCrusher
}

// Configure applies drive and output gain. Out-of-range values are clamped by
// the effect.
func (r *BitCrushRuntime) Configure(_ Context, p Params) error {
	r.fx.SetDrive(float32(p.GetNum("drive", float64(r.fx.Drive()))))
	r.fx.SetOutputGain(float32(p.GetNum("outputGain", float64(r.fx.OutputGain()))))

	return nil
}

// ProcessBlock crushes block in place.
func (r *BitCrushRuntime) ProcessBlock(block []int16) []int16 {
	return r.fx.ProcessBlock(block)
}

// Crusher exposes the effect for direct parameter control.
func (r *BitCrushRuntime) Crusher() *effects.BitCrusher {
	return r.fx
}
