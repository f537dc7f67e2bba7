package effectchain

import (
	"errors"
	"io"

	"github.com/cwbudde/algo-lofi/dsp/buffer"
)

// stubRuntime adds offset to every sample and records configuration.
type stubRuntime struct {
	offset     int16
	configured int
	last       Params
	err        error
}

func (s *stubRuntime) Configure(_ Context, p Params) error {
	s.configured++
	s.last = p
	s.offset = int16(p.GetNum("offset", float64(s.offset)))

	return s.err
}

func (s *stubRuntime) ProcessBlock(block []int16) []int16 {
	for i := range block {
		block[i] += s.offset
	}

	return block
}

func stubRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister("stub", func(_ Context) (Runtime, error) {
		return &stubRuntime{}, nil
	})
	r.MustRegister("failing", func(_ Context) (Runtime, error) {
		return &stubRuntime{err: errors.New("rejected")}, nil
	})

	return r
}

// sliceSource serves fixed blocks; a nil entry is a cycle without a block.
type sliceSource struct {
	blocks [][]int16
	pos    int
}

func (s *sliceSource) Receive(pool *buffer.Pool) (*buffer.Block, error) {
	if s.pos >= len(s.blocks) {
		return nil, io.EOF
	}

	src := s.blocks[s.pos]
	s.pos++

	if src == nil {
		return nil, nil
	}

	blk := pool.Get(len(src))
	blk.CopyFrom(src)

	return blk, nil
}

type collectSink struct {
	out []int16
	n   int
	err error
}

func (c *collectSink) Transmit(block *buffer.Block) error {
	if c.err != nil {
		return c.err
	}

	c.out = append(c.out, block.Samples()...)
	c.n++

	return nil
}
