package pcmio

import (
	"io"

	"github.com/cwbudde/algo-lofi/dsp/buffer"
)

// ClipSource hands out a clip block by block. The final block is zero padded
// to the full block size.
type ClipSource struct {
	clip      Clip
	blockSize int
	pos       int
}

// NewClipSource returns a source over clip with the given block size.
func NewClipSource(clip Clip, blockSize int) *ClipSource {
	return &ClipSource{clip: clip, blockSize: max(blockSize, 1)}
}

// Receive returns the next block, or io.EOF once the clip is consumed.
func (s *ClipSource) Receive(pool *buffer.Pool) (*buffer.Block, error) {
	if s.pos >= len(s.clip.Samples) {
		return nil, io.EOF
	}

	blk := pool.Get(s.blockSize)
	s.pos += blk.CopyFrom(s.clip.Samples[s.pos:])

	return blk, nil
}

// Remaining returns the number of samples not yet handed out.
func (s *ClipSource) Remaining() int {
	return max(len(s.clip.Samples)-s.pos, 0)
}

// ClipSink collects transmitted blocks into a clip.
type ClipSink struct {
	clip Clip
}

// NewClipSink returns an empty sink tagged with sampleRate.
func NewClipSink(sampleRate int) *ClipSink {
	return &ClipSink{clip: Clip{SampleRate: sampleRate}}
}

// Transmit appends a copy of the block.
func (s *ClipSink) Transmit(block *buffer.Block) error {
	s.clip.Samples = append(s.clip.Samples, block.Samples()...)
	return nil
}

// Clip returns the collected samples truncated to n when n is smaller, which
// strips the zero padding of the last block.
func (s *ClipSink) Clip(n int) Clip {
	out := s.clip
	if n >= 0 && n < len(out.Samples) {
		out.Samples = out.Samples[:n]
	}

	return out
}
