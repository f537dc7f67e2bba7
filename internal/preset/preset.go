// Package preset loads processing settings and chain layouts from YAML.
package preset

import (
	"errors"
	"fmt"
	"maps"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/cwbudde/algo-lofi/dsp/core"
	"github.com/cwbudde/algo-lofi/dsp/effectchain"
)

var (
	errSampleRate = errors.New("preset: sample_rate must be > 0")
	errBlockSize  = errors.New("preset: block_size must be > 0")
	errNodeType   = errors.New("preset: chain node without type")
)

// Node is one chain entry.
type Node struct {
	ID       string             `yaml:"id"`
	Type     string             `yaml:"type"`
	Bypassed bool               `yaml:"bypassed"`
	Params   map[string]float64 `yaml:"params"`
}

// Preset is the on-disk configuration. Drive and OutputGain seed every
// bitcrush node that does not set its own values; with no chain a single
// bitcrush node is used.
type Preset struct {
	SampleRate int     `yaml:"sample_rate"`
	BlockSize  int     `yaml:"block_size"`
	Drive      float64 `yaml:"drive"`
	OutputGain float64 `yaml:"output_gain"`
	Chain      []Node  `yaml:"chain"`
}

// Default returns the built-in preset.
func Default() Preset {
	return Preset{
		SampleRate: core.DefaultSampleRate,
		BlockSize:  core.DefaultBlockSize,
		Drive:      0.5,
		OutputGain: 1,
	}
}

// Load reads and parses the preset at path.
func Load(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, fmt.Errorf("preset: failed to read file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Preset, error) {
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("preset: failed to parse YAML: %w", err)
	}

	if err := p.Validate(); err != nil {
		return Preset{}, err
	}

	return p, nil
}

// Validate checks the stream settings and node types. Effect parameter
// ranges are left to the effects, which clamp.
func (p Preset) Validate() error {
	if p.SampleRate <= 0 {
		return errSampleRate
	}

	if p.BlockSize <= 0 {
		return errBlockSize
	}

	for i, n := range p.Chain {
		if n.Type == "" {
			return fmt.Errorf("%w (index %d)", errNodeType, i)
		}
	}

	return nil
}

// ProcessorConfig returns the stream settings.
func (p Preset) ProcessorConfig() core.ProcessorConfig {
	return core.ApplyProcessorOptions(
		core.WithSampleRate(float64(p.SampleRate)),
		core.WithBlockSize(p.BlockSize),
	)
}

// Nodes returns the chain as effectchain params, ready for Chain.Load.
func (p Preset) Nodes() []effectchain.Params {
	if len(p.Chain) == 0 {
		return []effectchain.Params{{
			ID:   effectchain.TypeBitCrush,
			Type: effectchain.TypeBitCrush,
			Num:  map[string]float64{"drive": p.Drive, "outputGain": p.OutputGain},
		}}
	}

	out := make([]effectchain.Params, len(p.Chain))
	for i, n := range p.Chain {
		params := effectchain.Params{ID: n.ID, Type: n.Type, Bypassed: n.Bypassed, Num: maps.Clone(n.Params)}
		if n.Type == effectchain.TypeBitCrush {
			params = params.WithDefault("drive", p.Drive).WithDefault("outputGain", p.OutputGain)
		}

		out[i] = params
	}

	return out
}
