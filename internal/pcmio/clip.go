package pcmio

import "time"

// Clip is a mono 16-bit recording held in memory.
type Clip struct {
	SampleRate int
	Samples    []int16
}

// Duration returns the playing time of the clip.
func (c Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}

	return time.Duration(len(c.Samples)) * time.Second / time.Duration(c.SampleRate)
}
