package pcmio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-lofi/dsp/buffer"
)

// Player streams mono blocks to the default audio device. Transmit blocks
// until the device has taken the previous data, which paces the caller at
// the playback rate. oto allows one context per process, so create at most
// one Player.
type Player struct {
	otoCtx *oto.Context
	player *oto.Player
	pr     *io.PipeReader
	pw     *io.PipeWriter
	buf    []byte
	logger *slog.Logger
}

// NewPlayer opens the audio device for mono s16le at sampleRate.
func NewPlayer(sampleRate int, logger *slog.Logger) (*Player, error) {
	if sampleRate <= 0 {
		return nil, ErrSampleRate
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("pcmio: creating oto context: %w", err)
	}

	<-ready

	pr, pw := io.Pipe()

	p := &Player{
		otoCtx: otoCtx,
		player: otoCtx.NewPlayer(pr),
		pr:     pr,
		pw:     pw,
		logger: logger,
	}
	p.player.Play()

	logger.Info("audio output initialized", "sample_rate", sampleRate, "channels", 1)

	return p, nil
}

// Transmit writes one block to the device.
func (p *Player) Transmit(block *buffer.Block) error {
	samples := block.Samples()

	if cap(p.buf) < 2*len(samples) {
		p.buf = make([]byte, 2*len(samples))
	}

	p.buf = p.buf[:2*len(samples)]
	for i, s := range samples {
		binary.LittleEndian.PutUint16(p.buf[2*i:], uint16(s))
	}

	if _, err := p.pw.Write(p.buf); err != nil {
		return fmt.Errorf("pcmio: pipe write failed: %w", err)
	}

	return nil
}

const drainPollInterval = 10 * time.Millisecond

// Drain ends the input and waits until the device has played everything
// already written, or ctx is done. Call it before Close to keep the tail of
// a clip.
func (p *Player) Drain(ctx context.Context) error {
	_ = p.pw.Close()

	err := waitIdle(ctx, p.player.IsPlaying, drainPollInterval)
	if err != nil {
		return fmt.Errorf("pcmio: draining player: %w", err)
	}

	p.logger.Debug("audio output drained")

	return nil
}

func waitIdle(ctx context.Context, playing func() bool, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for playing() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return nil
}

// Close stops playback and releases the device.
func (p *Player) Close() error {
	_ = p.pw.Close()

	err := p.player.Close()
	_ = p.pr.Close()

	if suspendErr := p.otoCtx.Suspend(); suspendErr != nil && err == nil {
		err = suspendErr
	}

	if err != nil {
		return fmt.Errorf("pcmio: closing player: %w", err)
	}

	return nil
}
