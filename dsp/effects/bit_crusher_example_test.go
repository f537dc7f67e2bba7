package effects_test

import (
	"fmt"

	"github.com/cwbudde/algo-lofi/dsp/effects"
)

func ExampleBitCrusher_ProcessBlock() {
	bc := effects.NewBitCrusher()

	block := []int16{0, 4096, 8192, 12288, 16384, -16384, -8192, 16384}
	bc.ProcessBlock(block)

	fmt.Println(block)
	// Output:
	// [0 0 0 0 0 0 0 16387]
}

func ExampleDriveMapping() {
	for _, drive := range []float32{0, 0.5, 1} {
		m := effects.DriveMapping(drive)
		fmt.Printf("drive=%.1f bits=%.2f levels=%d downsample=%d\n",
			drive, m.BitDepth, m.Levels, m.Downsample)
	}
	// Output:
	// drive=0.0 bits=16.00 levels=65536 downsample=1
	// drive=0.5 bits=12.25 levels=4870 downsample=8
	// drive=1.0 bits=1.00 levels=2 downsample=32
}
