package pcmio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/go-mp3"
	goflac "github.com/mewkiz/flac"
)

var (
	// ErrUnsupportedFormat is returned for file extensions Decode does not know.
	ErrUnsupportedFormat = errors.New("pcmio: unsupported format")
	// ErrBitDepth is returned for FLAC streams deeper than 32 or shallower than 4 bits.
	ErrBitDepth = errors.New("pcmio: unsupported bit depth")
	// ErrSampleRate is returned when raw input is decoded without a sample rate.
	ErrSampleRate = errors.New("pcmio: sample rate must be > 0")
)

const pcm16Bits = 16

// DecodeFile reads a FLAC, MP3 or raw s16le (.raw, .pcm) file and returns it
// as mono 16-bit PCM. rawSampleRate is only used for raw input.
func DecodeFile(path string, rawSampleRate int) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("pcmio: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".flac":
		return DecodeFLAC(f)
	case ".mp3":
		return DecodeMP3(f)
	case ".raw", ".pcm":
		return DecodeRaw(f, rawSampleRate)
	default:
		return Clip{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// DecodeFLAC decodes a FLAC stream. Channels are averaged to mono and
// samples are rescaled to 16 bits.
func DecodeFLAC(r io.Reader) (Clip, error) {
	stream, err := goflac.New(r)
	if err != nil {
		return Clip{}, fmt.Errorf("pcmio: open flac: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	if info.BitsPerSample < 4 || info.BitsPerSample > 32 {
		return Clip{}, fmt.Errorf("%w: %d", ErrBitDepth, info.BitsPerSample)
	}

	clip := Clip{SampleRate: int(info.SampleRate)}
	if info.NSamples > 0 {
		clip.Samples = make([]int16, 0, info.NSamples)
	}

	for {
		f, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return Clip{}, fmt.Errorf("pcmio: flac frame: %w", err)
		}

		n := int(f.BlockSize)
		for i := range n {
			var sum int64
			for _, sub := range f.Subframes {
				sum += int64(sub.Samples[i])
			}

			clip.Samples = append(clip.Samples, rescale(mean(sum, len(f.Subframes)), int(info.BitsPerSample)))
		}
	}

	return clip, nil
}

// DecodeMP3 decodes an MP3 stream. go-mp3 always yields interleaved stereo,
// which is averaged to mono.
func DecodeMP3(r io.Reader) (Clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return Clip{}, fmt.Errorf("pcmio: open mp3: %w", err)
	}

	data, err := io.ReadAll(dec)
	if err != nil {
		return Clip{}, fmt.Errorf("pcmio: mp3 decode: %w", err)
	}

	const frameBytes = 4

	clip := Clip{
		SampleRate: dec.SampleRate(),
		Samples:    make([]int16, len(data)/frameBytes),
	}

	for i := range clip.Samples {
		left := int16(binary.LittleEndian.Uint16(data[i*frameBytes:]))
		right := int16(binary.LittleEndian.Uint16(data[i*frameBytes+2:]))
		clip.Samples[i] = int16(mean(int64(left)+int64(right), 2))
	}

	return clip, nil
}

// DecodeRaw reads headerless mono s16le. A trailing odd byte is dropped.
func DecodeRaw(r io.Reader, sampleRate int) (Clip, error) {
	if sampleRate <= 0 {
		return Clip{}, ErrSampleRate
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Clip{}, fmt.Errorf("pcmio: read raw: %w", err)
	}

	clip := Clip{SampleRate: sampleRate, Samples: make([]int16, len(data)/2)}
	for i := range clip.Samples {
		clip.Samples[i] = int16(binary.LittleEndian.Uint16(data[2*i:]))
	}

	return clip, nil
}

// mean divides rounding half away from zero.
func mean(sum int64, n int) int64 {
	if n <= 1 {
		return sum
	}

	d := int64(n)
	if sum >= 0 {
		return (sum + d/2) / d
	}

	return (sum - d/2) / d
}

func rescale(v int64, bits int) int16 {
	switch {
	case bits > pcm16Bits:
		v >>= bits - pcm16Bits
	case bits < pcm16Bits:
		v <<= pcm16Bits - bits
	}

	return int16(max(min(v, 32767), -32768))
}
