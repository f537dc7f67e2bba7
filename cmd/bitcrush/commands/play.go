package commands

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-lofi/dsp/effectchain"
	"github.com/cwbudde/algo-lofi/internal/control"
	"github.com/cwbudde/algo-lofi/internal/pcmio"
)

func newPlayCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play <input>",
		Short: "Crush and play an audio file",
		Long: `Play a file through the effect chain on the default audio device.
With --tui a control panel adjusts drive and gain while audio runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts, args[0])
		},
	}

	cmd.Flags().Bool("tui", false, "show the interactive control panel")
	addEffectFlags(cmd)

	return cmd
}

func runPlay(cmd *cobra.Command, opts *options, input string) error {
	logger := opts.logger(cmd.ErrOrStderr())

	tui, err := cmd.Flags().GetBool("tui")
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

	if tui {
		// The panel owns the terminal.
		logger = slog.New(slog.DiscardHandler)
	}

	player, err := pcmio.NewPlayer(clip.SampleRate, logger)
	if err != nil {
		return err
	}

	stream := effectchain.NewStream(chain, pcmio.NewClipSource(clip, p.BlockSize), player,
		effectchain.WithLogger(logger))

	if !tui {
		runErr := stream.Run(cmd.Context())
		if runErr == nil {
			runErr = player.Drain(cmd.Context())
		}

		closeErr := player.Close()

		if runErr != nil {
			return runErr
		}

		return closeErr
	}

	crusher, err := firstCrusher(chain)
	if err != nil {
		_ = player.Close()
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	done := make(chan error, 1)

	go func() {
		done <- stream.Run(ctx)
	}()

	uiErr := control.Run(filepath.Base(input), crusher, stream)

	cancel()
	// Closing the pipe unblocks a Transmit waiting on the device.
	closeErr := player.Close()
	runErr := <-done

	if uiErr != nil {
		return uiErr
	}

	if runErr != nil && ctx.Err() == nil {
		return runErr
	}

	return closeErr
}
