package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-lofi/dsp/effectchain"
	"github.com/cwbudde/algo-lofi/dsp/effects"
	"github.com/cwbudde/algo-lofi/internal/pcmio"
	"github.com/cwbudde/algo-lofi/internal/preset"
)

var errNoCrusher = errors.New("chain has no active bitcrush node")

func buildChain(p preset.Preset, sampleRate int) (*effectchain.Chain, error) {
	cfg := p.ProcessorConfig()
	if sampleRate > 0 {
		cfg.SampleRate = float64(sampleRate)
	}

	chain := effectchain.New(effectchain.ContextFromConfig(cfg), effectchain.DefaultRegistry())
	if err := chain.Load(p.Nodes()); err != nil {
		return nil, err
	}

	return chain, nil
}

// firstCrusher returns the effect of the first bitcrush node that is not
// bypassed.
func firstCrusher(chain *effectchain.Chain) (*effects.BitCrusher, error) {
	for _, id := range chain.IDs() {
		if chain.Bypassed(id) {
			continue
		}

		if rt, ok := chain.NodeRuntime(id).(*effectchain.BitCrushRuntime); ok {
			return rt.Crusher(), nil
		}
	}

	return nil, errNoCrusher
}

func writeClip(path string, clip pcmio.Clip) (err error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".flac" && ext != ".raw" && ext != ".pcm" {
		return fmt.Errorf("%w: %q", pcmio.ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if ext == ".flac" {
		return pcmio.EncodeFLAC(f, clip)
	}

	return pcmio.EncodeRaw(f, clip)
}
