// Package stt defines the speech-to-text interface used for pronunciation
// verification, with a whisper.cpp subprocess implementation.
package stt

import (
	"context"
	"strings"
)

// Segment is one decoded span of speech.
type Segment struct {
	Text string
	// AvgLogProb is the average token log-probability of the segment. It is
	// an uncalibrated decoder statistic, not a true probability; see
	// validate.ConfidenceFromLogProb for how it is normalised downstream.
	AvgLogProb float64
}

// Transcription is the full output for one clip.
type Transcription struct {
	Segments []Segment
}

// Text joins all segment texts with single spaces, trimmed.
func (t *Transcription) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		if text := strings.TrimSpace(s.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// AvgLogProb averages the per-segment log-probabilities, 0 when there are no
// segments.
func (t *Transcription) AvgLogProb() float64 {
	if len(t.Segments) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range t.Segments {
		sum += s.AvgLogProb
	}
	return sum / float64(len(t.Segments))
}

// Transcriber converts a single audio file to text. Implementations must be
// safe for sequential reuse across a batch; each clip is independent.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Transcription, error)
}
