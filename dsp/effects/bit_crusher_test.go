package effects

import (
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-lofi/internal/testutil"
)

func TestBitCrusherDefaults(t *testing.T) {
	bc := NewBitCrusher()

	if bc.Drive() != defaultBitCrusherDrive {
		t.Errorf("Drive() = %g, want %g", bc.Drive(), defaultBitCrusherDrive)
	}

	if bc.OutputGain() != defaultBitCrusherOutputGain {
		t.Errorf("OutputGain() = %g, want %g", bc.OutputGain(), defaultBitCrusherOutputGain)
	}

	if bc.holdCounter != 0 || bc.holdValue != 0 {
		t.Errorf("hold state = (%d, %g), want (0, 0)", bc.holdCounter, bc.holdValue)
	}
}

func TestBitCrusherNilOption(t *testing.T) {
	bc := NewBitCrusher(nil, WithBitCrusherDrive(0.25))

	if bc.Drive() != 0.25 {
		t.Errorf("Drive() = %g, want 0.25", bc.Drive())
	}
}

func TestBitCrusherParameterClamping(t *testing.T) {
	nan := float32(math.NaN())

	tests := []struct {
		name string
		set  func(bc *BitCrusher)
		get  func(bc *BitCrusher) float32
		want float32
	}{
		{"drive below range", func(bc *BitCrusher) { bc.SetDrive(-1) }, (*BitCrusher).Drive, 0},
		{"drive above range", func(bc *BitCrusher) { bc.SetDrive(5) }, (*BitCrusher).Drive, 1},
		{"drive in range", func(bc *BitCrusher) { bc.SetDrive(0.75) }, (*BitCrusher).Drive, 0.75},
		{"drive NaN", func(bc *BitCrusher) { bc.SetDrive(nan) }, (*BitCrusher).Drive, 0},
		{"gain below range", func(bc *BitCrusher) { bc.SetOutputGain(-1) }, (*BitCrusher).OutputGain, 0},
		{"gain above range", func(bc *BitCrusher) { bc.SetOutputGain(10) }, (*BitCrusher).OutputGain, 2},
		{"gain in range", func(bc *BitCrusher) { bc.SetOutputGain(1.5) }, (*BitCrusher).OutputGain, 1.5},
		{"gain NaN", func(bc *BitCrusher) { bc.SetOutputGain(nan) }, (*BitCrusher).OutputGain, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bc := NewBitCrusher()
			tt.set(bc)

			if got := tt.get(bc); got != tt.want {
				t.Fatalf("got %g, want %g", got, tt.want)
			}
		})
	}
}

func TestBitCrusherOptionsClamp(t *testing.T) {
	bc := NewBitCrusher(WithBitCrusherDrive(3), WithBitCrusherOutputGain(-4))

	if bc.Drive() != 1 {
		t.Errorf("Drive() = %g, want 1", bc.Drive())
	}

	if bc.OutputGain() != 0 {
		t.Errorf("OutputGain() = %g, want 0", bc.OutputGain())
	}
}

func TestBitCrusherSetDriveLeavesGain(t *testing.T) {
	bc := NewBitCrusher(WithBitCrusherOutputGain(1.25))

	for _, d := range []float32{0, 0.3, 1, 7} {
		bc.SetDrive(d)

		if bc.OutputGain() != 1.25 {
			t.Fatalf("SetDrive(%g) changed gain to %g", d, bc.OutputGain())
		}
	}
}

func TestDriveMapping(t *testing.T) {
	tests := []struct {
		drive      float32
		bitDepth   float32
		levels     int
		downsample int
	}{
		{drive: 0, bitDepth: 16, levels: 65536, downsample: 1},
		{drive: 0.5, bitDepth: 12.25, levels: 4870, downsample: 8},
		{drive: 1, bitDepth: 1, levels: 2, downsample: 32},
		{drive: 2, bitDepth: 1, levels: 2, downsample: 32},
		{drive: -1, bitDepth: 16, levels: 65536, downsample: 1},
	}

	for _, tt := range tests {
		m := DriveMapping(tt.drive)

		if m.BitDepth != tt.bitDepth {
			t.Errorf("drive=%g: BitDepth = %g, want %g", tt.drive, m.BitDepth, tt.bitDepth)
		}

		if m.Levels != tt.levels {
			t.Errorf("drive=%g: Levels = %d, want %d", tt.drive, m.Levels, tt.levels)
		}

		if m.Downsample != tt.downsample {
			t.Errorf("drive=%g: Downsample = %d, want %d", tt.drive, m.Downsample, tt.downsample)
		}
	}
}

func TestDriveMappingRanges(t *testing.T) {
	prevLevels := math.MaxInt
	prevDownsample := 0

	for i := 0; i <= 1000; i++ {
		m := DriveMapping(float32(i) / 1000)

		if m.BitDepth < 1 || m.BitDepth > 16 {
			t.Fatalf("drive=%g: BitDepth %g out of [1, 16]", m.Drive, m.BitDepth)
		}

		if m.Downsample < 1 || m.Downsample > 32 {
			t.Fatalf("drive=%g: Downsample %d out of [1, 32]", m.Drive, m.Downsample)
		}

		if m.Levels > prevLevels {
			t.Fatalf("drive=%g: Levels increased from %d to %d", m.Drive, prevLevels, m.Levels)
		}

		if m.Downsample < prevDownsample {
			t.Fatalf("drive=%g: Downsample decreased from %d to %d", m.Drive, prevDownsample, m.Downsample)
		}

		prevLevels = m.Levels
		prevDownsample = m.Downsample
	}
}

func TestQuantizeSingleLevel(t *testing.T) {
	tests := []struct {
		in   float32
		want float32
	}{
		{0, -1}, // zero takes the negative branch
		{1e-6, 1},
		{-1e-6, -1},
		{0.9, 1},
		{-0.9, -1},
	}

	for _, tt := range tests {
		if got := Quantize(tt.in, 1); got != tt.want {
			t.Errorf("Quantize(%g, 1) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestQuantizeTwoLevels(t *testing.T) {
	// levels=2 gives one step across [-1, 1]: round to nearest integer.
	tests := []struct {
		in   float32
		want float32
	}{
		{0, 0},
		{0.49, 0},
		{0.5, 1},
		{-0.5, 0},
		{-0.51, -1},
		{1, 1},
		{-1, -1},
	}

	for _, tt := range tests {
		if got := Quantize(tt.in, 2); got != tt.want {
			t.Errorf("Quantize(%g, 2) = %g, want %g", tt.in, got, tt.want)
		}
	}
}

func TestQuantizeMonotonic(t *testing.T) {
	for _, drive := range []float32{0, 0.2, 0.5, 0.7, 0.9, 1} {
		levels := DriveMapping(drive).Levels
		prev := float32(math.Inf(-1))

		for s := -32768; s <= 32767; s++ {
			q := Quantize(float32(s)/32768, levels)
			if q < prev {
				t.Fatalf("drive=%g: Quantize not monotonic at s=%d (%g < %g)", drive, s, q, prev)
			}
			prev = q
		}
	}
}

func TestBitCrusherConcreteScenario(t *testing.T) {
	bc := NewBitCrusher()

	block := []int16{0, 4096, 8192, 12288, 16384, -16384, -8192, 0}

	out := bc.ProcessBlock(block)
	if &out[0] != &block[0] {
		t.Fatal("ProcessBlock must return the block it was given")
	}

	for i, v := range out {
		if v != 0 {
			t.Errorf("sample %d = %d, want 0", i, v)
		}
	}

	// Index 7 latched quantize(0) and wrapped the counter.
	if bc.holdCounter != 0 {
		t.Errorf("holdCounter = %d, want 0 after 8 samples at factor 8", bc.holdCounter)
	}
}

func TestBitCrusherConcreteScenarioLatch(t *testing.T) {
	bc := NewBitCrusher()

	block := []int16{0, 4096, 8192, 12288, 16384, -16384, -8192, 16384}
	bc.ProcessBlock(block)

	for i := range 7 {
		if block[i] != 0 {
			t.Errorf("sample %d = %d, want 0 before the first latch", i, block[i])
		}
	}

	// quantize(0.5) at 4870 levels = 2435/4869, times 32767 = 16386.86.
	if block[7] != 16387 {
		t.Errorf("sample 7 = %d, want 16387", block[7])
	}
}

func TestBitCrusherBypassAdjacent(t *testing.T) {
	bc := NewBitCrusher(WithBitCrusherDrive(0))

	const maxErr = 1.0 / 65535

	for s := -32768; s <= 32767; s += 7 {
		x := float32(s) / 32768

		y := bc.ProcessSample(x)
		if diff := math.Abs(float64(y - x)); diff > maxErr {
			t.Fatalf("s=%d: quantization error %g exceeds %g", s, diff, maxErr)
		}

		if bc.holdCounter != 0 {
			t.Fatalf("s=%d: hold register not updated on every sample", s)
		}
	}
}

func TestBitCrusherBypassAdjacentPCM(t *testing.T) {
	bc := NewBitCrusher(WithBitCrusherDrive(0))

	in := testutil.RampPCM16(-32768, 32767, 4096)
	out := append([]int16(nil), in...)
	bc.ProcessBlock(out)

	d, err := testutil.MaxAbsDiffPCM16(out, in)
	if err != nil {
		t.Fatal(err)
	}

	if d > 1 {
		t.Fatalf("drive=0 deviates by %d LSB, want <= 1", d)
	}
}

func TestBitCrusherMaximalCrush(t *testing.T) {
	bc := NewBitCrusher(WithBitCrusherDrive(1))

	in := testutil.NoisePCM16(7, 1.0, 32*40)
	var out []int16

	for _, block := range testutil.Blocks(in, 128) {
		out = append(out, bc.ProcessBlock(block)...)
	}

	// Two levels with a step of 1: inputs in [-0.5, 0.5) round to 0, so 0 is
	// a legal held value at any point, not only before the first latch.
	for i, v := range out {
		if v != -32767 && v != 0 && v != 32767 {
			t.Fatalf("sample %d = %d, want one of {-32767, 0, 32767}", i, v)
		}

		if i > 0 && v != out[i-1] && i%32 != 31 {
			t.Fatalf("sample %d changed value off the 32-sample grid", i)
		}
	}
}

func TestBitCrusherMaximalCrushZeroOnlyBeforeLatch(t *testing.T) {
	bc := NewBitCrusher(WithBitCrusherDrive(1), WithBitCrusherOutputGain(0.5))

	// Square wave with |x| > 0.5 never quantizes to 0.
	in := make([]int16, 256)
	for i := range in {
		if (i/20)%2 == 0 {
			in[i] = 20000
		} else {
			in[i] = -20000
		}
	}

	bc.ProcessBlock(in)

	for i, v := range in {
		switch {
		case i < 31 && v != 0:
			t.Fatalf("sample %d = %d, want 0 before first latch", i, v)
		case i >= 31 && v != 16384 && v != -16384:
			t.Fatalf("sample %d = %d, want ±16384 after first latch", i, v)
		}
	}
}

func TestBitCrusherMaximalCrushLatchesZero(t *testing.T) {
	bc := NewBitCrusher(WithBitCrusherDrive(1))

	loud := make([]int16, 32)
	for i := range loud {
		loud[i] = 30000
	}

	if got := bc.ProcessBlock(loud)[31]; got != 32767 {
		t.Fatalf("first latch = %d, want 32767", got)
	}

	quiet := make([]int16, 32)
	out := bc.ProcessBlock(quiet)

	if out[0] != 32767 {
		t.Fatalf("held value dropped before the next latch: %d", out[0])
	}

	if out[31] != 0 {
		t.Fatalf("silence after latch = %d, want 0", out[31])
	}
}

func TestBitCrusherGainIndependence(t *testing.T) {
	full := NewBitCrusher(WithBitCrusherDrive(0.6), WithBitCrusherOutputGain(1))
	half := NewBitCrusher(WithBitCrusherDrive(0.6), WithBitCrusherOutputGain(0.5))
	mute := NewBitCrusher(WithBitCrusherDrive(0.6), WithBitCrusherOutputGain(0))

	in := testutil.NoisePCM16(99, 0.9, 128*6)

	for _, block := range testutil.Blocks(in, 128) {
		a := append([]int16(nil), block...)
		b := append([]int16(nil), block...)
		c := append([]int16(nil), block...)

		full.ProcessBlock(a)
		half.ProcessBlock(b)
		mute.ProcessBlock(c)

		for i := range a {
			if d := 2*int(b[i]) - int(a[i]); d < -1 || d > 1 {
				t.Fatalf("sample %d: half gain %d is not half of %d", i, b[i], a[i])
			}

			if c[i] != 0 {
				t.Fatalf("sample %d: zero gain produced %d", i, c[i])
			}
		}
	}

	if full.holdCounter != half.holdCounter || full.holdValue != half.holdValue {
		t.Fatal("output gain altered hold state")
	}
}

func TestBitCrusherGainIndependenceFloat(t *testing.T) {
	a := NewBitCrusher(WithBitCrusherDrive(0.8), WithBitCrusherOutputGain(1))
	b := NewBitCrusher(WithBitCrusherDrive(0.8), WithBitCrusherOutputGain(0.5))

	for i := range 1024 {
		x := float32(0.8 * math.Sin(2*math.Pi*float64(i)/97))

		ya := a.ProcessSample(x)
		yb := b.ProcessSample(x)

		if yb != ya*0.5 {
			t.Fatalf("sample %d: got %g, want %g", i, yb, ya*0.5)
		}
	}
}

func TestBitCrusherOutputSaturates(t *testing.T) {
	bc := NewBitCrusher(WithBitCrusherDrive(0), WithBitCrusherOutputGain(2))

	block := []int16{30000, -30000, 100}
	bc.ProcessBlock(block)

	if block[0] != 32767 || block[1] != -32768 {
		t.Fatalf("saturation = %v, want [32767 -32768 ...]", block[:2])
	}

	if block[2] != 200 {
		t.Fatalf("small sample = %d, want 200", block[2])
	}
}

func TestBitCrusherDeterministic(t *testing.T) {
	run := func() []int16 {
		bc := NewBitCrusher(WithBitCrusherDrive(0.73), WithBitCrusherOutputGain(1.3))
		var out []int16
		for _, block := range testutil.Blocks(testutil.NoisePCM16(1, 1, 128*16), 128) {
			out = append(out, bc.ProcessBlock(block)...)
		}
		return out
	}

	testutil.RequireBlocksEqual(t, run(), run())
}

func TestBitCrusherStateSpansBlocks(t *testing.T) {
	in := testutil.SinePCM16(440, 44100, 0.7, 128*8)

	whole := NewBitCrusher(WithBitCrusherDrive(0.9))
	want := whole.ProcessBlock(append([]int16(nil), in...))

	for _, size := range []int{1, 7, 32, 128, 333} {
		split := NewBitCrusher(WithBitCrusherDrive(0.9))

		var got []int16
		for start := 0; start < len(in); start += size {
			end := min(start+size, len(in))
			got = append(got, split.ProcessBlock(append([]int16(nil), in[start:end]...))...)
		}

		testutil.RequireBlocksEqual(t, got, want)
	}
}

func TestBitCrusherDriveChangeKeepsHoldState(t *testing.T) {
	bc := NewBitCrusher(WithBitCrusherDrive(1))

	bc.ProcessBlock(make([]int16, 10))

	if bc.holdCounter != 10 {
		t.Fatalf("holdCounter = %d, want 10", bc.holdCounter)
	}

	bc.SetDrive(0.5)

	if bc.holdCounter != 10 || bc.holdValue != 0 {
		t.Fatal("SetDrive reset the hold state")
	}

	// Counter 11 already exceeds the new period of 8, so the next sample latches.
	block := bc.ProcessBlock([]int16{16384})
	if block[0] != 16387 {
		t.Fatalf("sample after drive change = %d, want 16387", block[0])
	}

	if bc.holdCounter != 0 {
		t.Fatalf("holdCounter = %d, want 0 after latch", bc.holdCounter)
	}
}

func TestBitCrusherNilBlock(t *testing.T) {
	bc := NewBitCrusher()

	if out := bc.ProcessBlock(nil); out != nil {
		t.Fatalf("ProcessBlock(nil) = %v, want nil", out)
	}

	if bc.holdCounter != 0 {
		t.Fatal("nil block advanced the hold counter")
	}

	empty := []int16{}
	if out := bc.ProcessBlock(empty); out == nil || len(out) != 0 {
		t.Fatalf("ProcessBlock(empty) = %v, want empty slice", out)
	}
}

func TestBitCrusherProcessInPlaceMatchesSample(t *testing.T) {
	bc1 := NewBitCrusher(WithBitCrusherDrive(0.65))
	bc2 := NewBitCrusher(WithBitCrusherDrive(0.65))

	input := make([]float32, 128)
	for i := range input {
		input[i] = float32(math.Sin(2 * math.Pi * float64(i) / 31))
	}

	want := make([]float32, len(input))
	for i := range want {
		want[i] = bc1.ProcessSample(input[i])
	}

	got := append([]float32(nil), input...)
	bc2.ProcessInPlace(got)

	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("sample %d mismatch: got=%g want=%g", i, got[i], want[i])
		}
	}
}

func TestBitCrusherResetRestoresState(t *testing.T) {
	bc := NewBitCrusher(WithBitCrusherDrive(0.8))

	in := testutil.SinePCM16(300, 44100, 0.9, 300)

	out1 := bc.ProcessBlock(append([]int16(nil), in...))

	bc.Reset()

	out2 := bc.ProcessBlock(append([]int16(nil), in...))

	testutil.RequireBlocksEqual(t, out2, out1)
}

func TestBitCrusherSilenceAtLowDrive(t *testing.T) {
	bc := NewBitCrusher(WithBitCrusherDrive(0.4))

	block := make([]int16, 512)
	bc.ProcessBlock(block)

	for i, v := range block {
		if v != 0 {
			t.Fatalf("sample %d: silent input should stay silent, got %d", i, v)
		}
	}
}

func TestBitCrusherProcessBlockDoesNotAllocate(t *testing.T) {
	bc := NewBitCrusher(WithBitCrusherDrive(0.7))
	block := testutil.NoisePCM16(3, 0.5, 128)

	allocs := testing.AllocsPerRun(100, func() {
		bc.ProcessBlock(block)
	})

	if allocs != 0 {
		t.Fatalf("ProcessBlock allocated %.1f times per run", allocs)
	}
}

func TestBitCrusherConcurrentControl(t *testing.T) {
	bc := NewBitCrusher()
	block := make([]int16, 128)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		for i := range 2000 {
			bc.SetDrive(float32(i%101) / 100)
			bc.SetOutputGain(float32(i%201) / 100)
			_ = bc.Mapping()
		}
	}()

	for range 200 {
		copy(block, testutil.SinePCM16(1000, 44100, 0.8, len(block)))
		bc.ProcessBlock(block)
	}

	wg.Wait()

	if d := bc.Drive(); d < 0 || d > 1 {
		t.Fatalf("Drive() = %g out of range", d)
	}
}

func BenchmarkBitCrusherProcessBlock(b *testing.B) {
	bc := NewBitCrusher(WithBitCrusherDrive(0.6))
	block := testutil.NoisePCM16(1, 0.8, 128)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		bc.ProcessBlock(block)
	}
}

func BenchmarkBitCrusherProcessSample(b *testing.B) {
	bc := NewBitCrusher(WithBitCrusherDrive(0.6))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		bc.ProcessSample(0.5)
	}
}
