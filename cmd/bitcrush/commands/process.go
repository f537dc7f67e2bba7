package commands

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-lofi/dsp/effectchain"
	"github.com/cwbudde/algo-lofi/internal/pcmio"
	"github.com/cwbudde/algo-lofi/stats/level"
)

func newProcessCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <input>",
		Short: "Crush an audio file and write the result",
		Long: `Decode a FLAC, MP3 or raw s16le file, run it through the effect chain
block by block and write 16-bit mono FLAC or raw output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringP("output", "o", "", "output file (.flac, .raw or .pcm)")
	cmd.Flags().Bool("realtime", false, "pace blocks at the audio rate, as a live host would")
	_ = cmd.MarkFlagRequired("output")
	addEffectFlags(cmd)

	return cmd
}

func runProcess(cmd *cobra.Command, opts *options, input string) error {
	logger := opts.logger(cmd.ErrOrStderr())

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	rawRate, err := cmd.Flags().GetInt("sample-rate")
	if err != nil {
		return err
	}

	clip, err := pcmio.DecodeFile(input, rawRate)
	if err != nil {
		return err
	}

	p, err := opts.loadPreset(cmd)
	if err != nil {
		return err
	}

	chain, err := buildChain(p, clip.SampleRate)
	if err != nil {
		return err
	}

	realtime, err := cmd.Flags().GetBool("realtime")
	if err != nil {
		return err
	}

	streamOpts := []effectchain.StreamOption{effectchain.WithLogger(logger)}
	if realtime {
		period := chain.Context().BlockPeriod()
		streamOpts = append(streamOpts, effectchain.WithPacing(period))
	}

	sink := pcmio.NewClipSink(clip.SampleRate)
	stream := effectchain.NewStream(chain, pcmio.NewClipSource(clip, p.BlockSize), sink, streamOpts...)

	if err := stream.Run(cmd.Context()); err != nil {
		return err
	}

	crushed := sink.Clip(len(clip.Samples))
	if err := writeClip(output, crushed); err != nil {
		return err
	}

	in, out := level.Calculate(clip.Samples), level.Calculate(crushed.Samples)

	logger.Info("processed",
		"input", input,
		"output", output,
		"samples", len(clip.Samples),
		"duration", clip.Duration(),
		"blocks", stream.Processed(),
		"nodes", chain.IDs(),
		"in_peak_dbfs", in.Peak_dB,
		"in_rms_dbfs", in.RMS_dB,
		"out_peak_dbfs", out.Peak_dB,
		"out_rms_dbfs", out.RMS_dB,
		"out_clipped", out.Clipped)

	return nil
}
