package effectchain

import (
	"time"

	"github.com/cwbudde/algo-lofi/dsp/core"
)

// Context provides environmental information that effect runtimes need.
type Context struct {
	SampleRate float64
	BlockSize  int
}

// ContextFromConfig builds a Context from processor settings.
func ContextFromConfig(cfg core.ProcessorConfig) Context {
	return Context{SampleRate: cfg.SampleRate, BlockSize: cfg.BlockSize}
}

// BlockPeriod is the wall-clock time one block covers, or zero when the
// context is incomplete.
func (c Context) BlockPeriod() time.Duration {
	cfg := core.ProcessorConfig{SampleRate: c.SampleRate, BlockSize: c.BlockSize}
	return time.Duration(cfg.BlockPeriodSeconds() * float64(time.Second))
}
