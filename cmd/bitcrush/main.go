// Command bitcrush runs the drive-controlled bit crusher over audio files,
// plays them live with interactive control, and measures how effective
// resolution falls as drive rises.
//
// Usage:
//
//	bitcrush [flags] <command> [args]
//
// Commands:
//
//	process  - crush a FLAC, MP3 or raw file and write FLAC or raw output
//	play     - crush and play a file, optionally with a terminal control panel
//	analyze  - print bit depth, hold period and measured SINAD/ENOB per drive
//	info     - print the drive mapping table, registered effects and CPU features
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-lofi/cmd/bitcrush/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
