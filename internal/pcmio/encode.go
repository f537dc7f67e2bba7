package pcmio

import (
	"encoding/binary"
	"fmt"
	"io"

	goflac "github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

const flacBlockSize = 4096

// EncodeFLAC writes clip as a 16-bit mono FLAC stream using verbatim
// subframes.
func EncodeFLAC(w io.Writer, clip Clip) error {
	if clip.SampleRate <= 0 {
		return ErrSampleRate
	}

	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(clip.SampleRate),
		NChannels:     1,
		BitsPerSample: pcm16Bits,
		NSamples:      uint64(len(clip.Samples)),
	}

	enc, err := goflac.NewEncoder(w, info)
	if err != nil {
		return fmt.Errorf("pcmio: creating flac encoder: %w", err)
	}

	samples := make([]int32, flacBlockSize)

	for off := 0; off < len(clip.Samples); off += flacBlockSize {
		block := clip.Samples[off:min(off+flacBlockSize, len(clip.Samples))]

		samples = samples[:len(block)]
		for i, s := range block {
			samples[i] = int32(s)
		}

		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(len(block)),
				SampleRate:        uint32(clip.SampleRate),
				Channels:          frame.ChannelsMono,
				BitsPerSample:     pcm16Bits,
			},
			Subframes: []*frame.Subframe{{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   samples,
				NSamples:  len(block),
			}},
		}

		if err := enc.WriteFrame(f); err != nil {
			return fmt.Errorf("pcmio: writing flac frame: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("pcmio: closing flac encoder: %w", err)
	}

	return nil
}

// EncodeRaw writes clip as headerless mono s16le.
func EncodeRaw(w io.Writer, clip Clip) error {
	if err := binary.Write(w, binary.LittleEndian, clip.Samples); err != nil {
		return fmt.Errorf("pcmio: write raw: %w", err)
	}

	return nil
}
