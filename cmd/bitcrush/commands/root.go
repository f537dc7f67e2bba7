package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-lofi/internal/preset"
)

// options holds the persistent flags shared by all subcommands.
type options struct {
	verbose    bool
	presetPath string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "bitcrush",
		Short: "Drive-controlled lo-fi bit crusher",
		Long: `bitcrush - quantize and undersample 16-bit mono audio with one drive control.

Drive 0 keeps full 16-bit resolution; drive 1 leaves one bit of depth and holds
each value for 32 samples. Multi-channel input is mixed down to mono.

Examples:
  bitcrush process voice.flac -o crushed.flac --drive 0.7
  bitcrush play loop.mp3 --tui
  bitcrush analyze --freq 440 --drive-steps 21
  bitcrush process in.raw --sample-rate 22050 -o out.raw -p lofi.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVarP(&opts.presetPath, "preset", "p", "", "YAML preset file")

	root.AddCommand(
		newProcessCmd(opts),
		newPlayCmd(opts),
		newAnalyzeCmd(),
		newInfoCmd(),
	)

	return root
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return NewRootCmd().ExecuteContext(ctx)
}

func (o *options) logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadPreset reads the preset file, if any, and applies effect flag
// overrides.
func (o *options) loadPreset(cmd *cobra.Command) (preset.Preset, error) {
	p := preset.Default()

	if o.presetPath != "" {
		var err error

		p, err = preset.Load(o.presetPath)
		if err != nil {
			return preset.Preset{}, err
		}
	}

	flags := cmd.Flags()

	if flags.Changed("block-size") {
		n, err := flags.GetInt("block-size")
		if err != nil {
			return preset.Preset{}, err
		}

		p.BlockSize = n
	}

	if flags.Changed("drive") {
		d, err := flags.GetFloat64("drive")
		if err != nil {
			return preset.Preset{}, err
		}

		p.Drive = d
		for i := range p.Chain {
			delete(p.Chain[i].Params, "drive")
		}
	}

	if flags.Changed("gain") {
		g, err := flags.GetFloat64("gain")
		if err != nil {
			return preset.Preset{}, err
		}

		p.OutputGain = g
		for i := range p.Chain {
			delete(p.Chain[i].Params, "outputGain")
		}
	}

	if err := p.Validate(); err != nil {
		return preset.Preset{}, err
	}

	return p, nil
}

func addEffectFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("drive", 0.5, "crush intensity in [0, 1]")
	cmd.Flags().Float64("gain", 1, "linear output gain in [0, 2]")
	cmd.Flags().Int("block-size", 128, "samples per processing block")
	cmd.Flags().Int("sample-rate", 44100, "sample rate of raw input")
}
