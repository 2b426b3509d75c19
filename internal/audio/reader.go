// Package audio provides WAV file decoding for clip analysis
package audio

import (
	"fmt"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Metadata contains audio file metadata
type Metadata struct {
	Duration   float64 // seconds
	SampleRate int
	Channels   int
	BitDepth   int
}

// Clip holds a fully decoded waveform folded to mono.
// Samples are normalised floats in [-1.0, 1.0].
type Clip struct {
	Samples []float64
	Meta    Metadata
}

// Decode reads a WAV file and returns its samples folded to mono.
// Multi-channel audio is averaged across channels rather than truncated,
// which preserves the energy characteristics the quality metrics depend on.
// No resampling is performed; samples stay at the native rate.
func Decode(filename string) (*Clip, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("no audio data in file: %s", filename)
	}

	meta := metadataFrom(dec, buf)
	channels := meta.Channels

	// Scale factor for the source bit depth (full-scale integer = 1.0)
	scale := float64(int64(1) << (meta.BitDepth - 1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c]) / scale
		}
		samples[i] = sum / float64(channels)
	}

	meta.Duration = float64(frames) / float64(meta.SampleRate)

	return &Clip{Samples: samples, Meta: meta}, nil
}

// Probe reads stream properties from the container header without decoding
// samples. Used where only the duration is needed and a full decode would be
// wasted work.
func Probe(filename string) (*Metadata, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if dec.SampleRate == 0 {
		return nil, fmt.Errorf("not a valid WAV file: %s", filename)
	}

	d, err := dec.Duration()
	if err != nil {
		return nil, fmt.Errorf("failed to read duration of %s: %w", filename, err)
	}

	return &Metadata{
		Duration:   d.Seconds(),
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}, nil
}

// metadataFrom assembles Metadata from the decoder header and PCM buffer,
// falling back to sane defaults for underspecified files.
func metadataFrom(dec *wav.Decoder, buf *goaudio.IntBuffer) Metadata {
	meta := Metadata{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
	}
	if buf.Format != nil {
		if buf.Format.SampleRate > 0 {
			meta.SampleRate = buf.Format.SampleRate
		}
		if buf.Format.NumChannels > 0 {
			meta.Channels = buf.Format.NumChannels
		}
	}
	if buf.SourceBitDepth > 0 {
		meta.BitDepth = buf.SourceBitDepth
	}
	if meta.BitDepth == 0 {
		meta.BitDepth = 16
	}
	if meta.Channels == 0 {
		meta.Channels = 1
	}
	if meta.SampleRate == 0 {
		meta.SampleRate = 44100
	}
	return meta
}
