package effects

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

const (
	defaultBitCrusherDrive      = 0.5
	defaultBitCrusherOutputGain = 1.0
	maxBitCrusherOutputGain     = 2.0

	maxBitCrusherBitDepth   = 16.0
	minBitCrusherBitDepth   = 1.0
	bitCrusherDepthRange    = maxBitCrusherBitDepth - minBitCrusherBitDepth
	maxBitCrusherDownsample = 32
)

// BlockProcessor transforms one block of 16-bit PCM in place and hands it
// back. A nil block is a no-op.
type BlockProcessor interface {
	ProcessBlock(block []int16) []int16
}

// BitCrusherOption mutates bit crusher construction parameters.
type BitCrusherOption func(*bitCrusherConfig)

type bitCrusherConfig struct {
	drive      float32
	outputGain float32
}

func defaultBitCrusherConfig() bitCrusherConfig {
	return bitCrusherConfig{
		drive:      defaultBitCrusherDrive,
		outputGain: defaultBitCrusherOutputGain,
	}
}

// WithBitCrusherDrive sets the initial drive. Values are clamped to [0, 1].
func WithBitCrusherDrive(drive float32) BitCrusherOption {
	return func(cfg *bitCrusherConfig) {
		cfg.drive = clampDrive(drive)
	}
}

// WithBitCrusherOutputGain sets the initial linear output gain. Values are
// clamped to [0, 2].
func WithBitCrusherOutputGain(gain float32) BitCrusherOption {
	return func(cfg *bitCrusherConfig) {
		cfg.outputGain = clampOutputGain(gain)
	}
}

// Mapping is the set of crusher parameters derived from one drive value.
type Mapping struct {
	Drive        float32
	DriveSquared float32
	// BitDepth is the effective (fractional) resolution in [1, 16].
	BitDepth float32
	// Levels is floor(2^BitDepth).
	Levels int
	// Downsample is the zero-order-hold period in samples, [1, 32].
	Downsample int
}

// DriveMapping derives bit depth, level count and hold period from drive.
// Drive is squared first so the control feels even across its travel:
//
//	bitDepth   = max(1, 16 - 15*drive²)
//	levels     = floor(2^bitDepth)
//	downsample = 1 + floor(31*drive²)
func DriveMapping(drive float32) Mapping {
	drive = clampDrive(drive)
	driveSq := drive * drive

	bitDepth := maxBitCrusherBitDepth - float32(driveSq*bitCrusherDepthRange)
	if bitDepth < minBitCrusherBitDepth {
		bitDepth = minBitCrusherBitDepth
	}

	return Mapping{
		Drive:        drive,
		DriveSquared: driveSq,
		BitDepth:     bitDepth,
		Levels:       int(mathPower2(float64(bitDepth))),
		Downsample:   1 + int(float32(driveSq*(maxBitCrusherDownsample-1))),
	}
}

// Quantize rounds x to the nearest of levels evenly spaced steps spanning
// [-1, 1]. With a single level the result is a hard sign decision in which
// zero maps to -1.
func Quantize(x float32, levels int) float32 {
	if levels > 1 {
		steps := float32(levels - 1)
		// The explicit conversion keeps the product from fusing with the add,
		// so every platform lands on the same rounding boundary.
		return float32(math.Floor(float64(float32(x*steps)+0.5))) / steps
	}

	if x > 0 {
		return 1
	}

	return -1
}

// BitCrusher reduces amplitude resolution and effective sample rate of a mono
// 16-bit stream for lo-fi aesthetics. A single drive control governs both:
//
//   - Quantization: every input sample is rounded to [Mapping.Levels] steps.
//
//   - Undersampling: the quantized value is latched into a hold register once
//     every [Mapping.Downsample] samples; the register is what gets played
//     (zero-order hold, no filtering).
//
// The output gain is applied after crushing and is independent of drive.
//
// Drive and output gain may be changed from any goroutine; a block always
// sees one consistent snapshot. Processing calls themselves (ProcessBlock,
// ProcessSample, ProcessInPlace, Reset) must not run concurrently.
type BitCrusher struct {
	drive      atomic.Uint32
	outputGain atomic.Uint32

	// Zero-order-hold state, owned by the processing goroutine.
	holdCounter int
	holdValue   float32
}

// NewBitCrusher creates a bit crusher with drive 0.5 and unity gain unless
// overridden by opts.
func NewBitCrusher(opts ...BitCrusherOption) *BitCrusher {
	cfg := defaultBitCrusherConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	bc := &BitCrusher{}
	bc.drive.Store(math.Float32bits(cfg.drive))
	bc.outputGain.Store(math.Float32bits(cfg.outputGain))
	return bc
}

// SetDrive sets the crush intensity, clamped to [0, 1]. 0 keeps 16-bit
// resolution without undersampling, 1 gives 1-bit depth with 32x hold.
// Hold state is left untouched so automation does not click.
func (bc *BitCrusher) SetDrive(drive float32) {
	bc.drive.Store(math.Float32bits(clampDrive(drive)))
}

// SetOutputGain sets the linear post gain, clamped to [0, 2].
func (bc *BitCrusher) SetOutputGain(gain float32) {
	bc.outputGain.Store(math.Float32bits(clampOutputGain(gain)))
}

// Drive returns the current drive in [0, 1].
func (bc *BitCrusher) Drive() float32 { return math.Float32frombits(bc.drive.Load()) }

// OutputGain returns the current output gain in [0, 2].
func (bc *BitCrusher) OutputGain() float32 {
	return math.Float32frombits(bc.outputGain.Load())
}

// Mapping returns the parameters derived from the current drive.
func (bc *BitCrusher) Mapping() Mapping { return DriveMapping(bc.Drive()) }

// Reset returns the hold register and counter to their construction values.
// Parameter setters never call it.
func (bc *BitCrusher) Reset() {
	bc.holdCounter = 0
	bc.holdValue = 0
}

// ProcessBlock crushes block in place and returns it. Each sample is
// normalized by 1/32768, crushed, scaled by the output gain, then rounded
// back with a 32767 scale and saturated. Drive and gain are read once for
// the whole block.
func (bc *BitCrusher) ProcessBlock(block []int16) []int16 {
	if block == nil {
		return nil
	}

	m := bc.Mapping()
	gain := bc.OutputGain()

	for i, s := range block {
		y := bc.crush(core.PCM16ToFloat32(s), m)
		block[i] = core.Float32ToPCM16(y * gain)
	}

	return block
}

// ProcessSample crushes one normalized sample and applies the output gain.
// No int16 rounding takes place.
func (bc *BitCrusher) ProcessSample(x float32) float32 {
	return bc.crush(x, bc.Mapping()) * bc.OutputGain()
}

// ProcessInPlace applies the crusher to a normalized float buffer.
func (bc *BitCrusher) ProcessInPlace(buf []float32) {
	m := bc.Mapping()
	gain := bc.OutputGain()

	for i := range buf {
		buf[i] = bc.crush(buf[i], m) * gain
	}
}

// crush quantizes x on every call but only lets the result reach the output
// once per hold period.
func (bc *BitCrusher) crush(x float32, m Mapping) float32 {
	q := Quantize(x, m.Levels)

	bc.holdCounter++
	if bc.holdCounter >= m.Downsample {
		bc.holdValue = q
		bc.holdCounter = 0
	}

	return core.ClampFloat32(bc.holdValue, -1, 1)
}

func clampDrive(v float32) float32 { return core.ClampFloat32(v, 0, 1) }

func clampOutputGain(v float32) float32 {
	return core.ClampFloat32(v, 0, maxBitCrusherOutputGain)
}
