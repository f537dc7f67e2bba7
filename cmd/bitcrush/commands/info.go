package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-lofi/dsp/effectchain"
	"github.com/cwbudde/algo-lofi/dsp/effects"
	"github.com/cwbudde/algo-lofi/internal/cpu"
)

const infoDriveSteps = 11

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the drive mapping, registered effects and CPU features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return writeInfo(cmd.OutOrStdout(), cpu.DetectFeatures())
		},
	}
}

func writeInfo(w io.Writer, features cpu.Features) error {
	fmt.Fprintf(w, "effects: %s\n", strings.Join(effectchain.DefaultRegistry().Types(), ", "))
	fmt.Fprintf(w, "cpu:     %s (best %s)\n\n", features, features.Best())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DRIVE\tDRIVE²\tBITS\tLEVELS\tHOLD\t")

	for i := range infoDriveSteps {
		m := effects.DriveMapping(float32(i) / (infoDriveSteps - 1))
		fmt.Fprintf(tw, "%.1f\t%.2f\t%.2f\t%d\t%d\t\n", m.Drive, m.DriveSquared, m.BitDepth, m.Levels, m.Downsample)
	}

	return tw.Flush()
}
