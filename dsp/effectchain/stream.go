package effectchain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-lofi/dsp/buffer"
	"github.com/cwbudde/algo-lofi/dsp/effects"
)

// Source hands out one writable block per cycle. Receive returns a nil block
// and a nil error when nothing is available this cycle, and io.EOF once the
// source is exhausted. Blocks should come from pool.
type Source interface {
	Receive(pool *buffer.Pool) (*buffer.Block, error)
}

// Sink accepts processed blocks. The block is returned to the pool after
// Transmit, so a Sink that keeps samples must copy them.
type Sink interface {
	Transmit(block *buffer.Block) error
}

// StreamOption configures a Stream.
type StreamOption func(*Stream)

// WithLogger sets the logger used for per-cycle diagnostics.
func WithLogger(logger *slog.Logger) StreamOption {
	return func(s *Stream) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPool shares a block pool between the stream and its source.
func WithPool(pool *buffer.Pool) StreamOption {
	return func(s *Stream) {
		if pool != nil {
			s.pool = pool
		}
	}
}

// WithPacing makes Run wait period between cycles. Zero runs unpaced.
func WithPacing(period time.Duration) StreamOption {
	return func(s *Stream) {
		if period > 0 {
			s.period = period
		}
	}
}

// Stream is a block scheduler: each cycle pulls a block from the source,
// processes it in place and transmits it to the sink.
type Stream struct {
	proc   effects.BlockProcessor
	source Source
	sink   Sink

	pool   *buffer.Pool
	logger *slog.Logger
	period time.Duration

	processed atomic.Uint64
	skipped   atomic.Uint64
}

// NewStream wires proc between source and sink.
func NewStream(proc effects.BlockProcessor, source Source, sink Sink, opts ...StreamOption) *Stream {
	s := &Stream{
		proc:   proc,
		source: source,
		sink:   sink,
		pool:   buffer.NewPool(),
		logger: slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Pool returns the block pool in use.
func (s *Stream) Pool() *buffer.Pool { return s.pool }

// Processed returns the number of blocks transmitted so far.
func (s *Stream) Processed() uint64 { return s.processed.Load() }

// Skipped returns the number of cycles in which the source had no block.
func (s *Stream) Skipped() uint64 { return s.skipped.Load() }

// Tick runs one cycle. A cycle without a block is not an error; it is
// counted and nothing is transmitted.
func (s *Stream) Tick() error {
	blk, err := s.source.Receive(s.pool)
	if err != nil {
		s.pool.Put(blk)
		return err
	}

	if blk == nil {
		n := s.skipped.Add(1)
		s.logger.Debug("no block available", "skipped", n)

		return nil
	}

	s.proc.ProcessBlock(blk.Samples())

	err = s.sink.Transmit(blk)
	s.pool.Put(blk)

	if err != nil {
		return err
	}

	s.processed.Add(1)

	return nil
}

// Run cycles until the source returns io.EOF (reported as nil), another
// error occurs, or ctx is done.
func (s *Stream) Run(ctx context.Context) error {
	var tick <-chan time.Time

	if s.period > 0 {
		ticker := time.NewTicker(s.period)
		defer ticker.Stop()

		tick = ticker.C
	}

	s.logger.Info("stream started", "period", s.period)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stream cancelled", "processed", s.Processed(), "skipped", s.Skipped())
			return ctx.Err()
		default:
		}

		err := s.Tick()
		if errors.Is(err, io.EOF) {
			s.logger.Info("stream finished", "processed", s.Processed(), "skipped", s.Skipped())
			return nil
		}

		if err != nil {
			s.logger.Error("stream stopped", "err", err)
			return err
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
	}
}
