// Package pcmio moves mono 16-bit PCM between files, memory and the audio
// device: FLAC, MP3 and raw s16le decoding, FLAC encoding, block sources and
// sinks for the effect stream, and oto playback.
package pcmio
