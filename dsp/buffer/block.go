package buffer

// Block wraps an int16 slice holding one cycle of mono PCM audio.
// Effects accept raw []int16; use Samples() to bridge.
type Block struct {
	samples []int16
}

// New returns a zero-filled Block of the given length.
func New(length int) *Block {
	if length < 0 {
		length = 0
	}
	return &Block{samples: make([]int16, length)}
}

// FromSlice wraps an existing slice without copying.
// Mutations to the slice are visible through the Block and vice versa.
func FromSlice(s []int16) *Block {
	return &Block{samples: s}
}

// Samples returns the underlying slice.
func (b *Block) Samples() []int16 {
	return b.samples
}

// Len returns the current number of samples.
func (b *Block) Len() int {
	return len(b.samples)
}

// Resize sets the length to n, reusing existing capacity when possible.
// New elements beyond the previous length are zeroed.
func (b *Block) Resize(n int) {
	if n < 0 {
		n = 0
	}
	oldLen := len(b.samples)
	if n <= cap(b.samples) {
		b.samples = b.samples[:n]
	} else {
		s := make([]int16, n)
		copy(s, b.samples)
		b.samples = s
	}
	// Zero any newly exposed elements that may have stale data from
	// previous use of the backing array.
	for i := oldLen; i < n; i++ {
		b.samples[i] = 0
	}
}

// Zero sets all samples to 0.
func (b *Block) Zero() {
	clear(b.samples)
}

// CopyFrom copies src into the block, zero-filling any remainder, and
// returns the number of samples copied.
func (b *Block) CopyFrom(src []int16) int {
	n := copy(b.samples, src)
	clear(b.samples[n:])
	return n
}
