// Package mock provides a canned Transcriber for tests.
package mock

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alphaset/lettercheck/internal/stt"
)

// Transcriber returns scripted transcriptions keyed by file basename.
type Transcriber struct {
	responses map[string]stt.Transcription
	failures  map[string]error

	// CallCount tracks how many times Transcribe was invoked, so tests can
	// assert that transcription was skipped where it should be.
	CallCount int
}

// New creates an empty mock transcriber.
func New() *Transcriber {
	return &Transcriber{
		responses: map[string]stt.Transcription{},
		failures:  map[string]error{},
	}
}

// Add scripts a single-segment transcription for a file basename.
func (m *Transcriber) Add(name, text string, avgLogProb float64) {
	m.responses[name] = stt.Transcription{
		Segments: []stt.Segment{{Text: text, AvgLogProb: avgLogProb}},
	}
}

// AddEmpty scripts an empty transcription (no segments) for a file basename.
func (m *Transcriber) AddEmpty(name string) {
	m.responses[name] = stt.Transcription{}
}

// Fail scripts a transcription error for a file basename.
func (m *Transcriber) Fail(name string, err error) {
	m.failures[name] = err
}

// Transcribe returns the scripted response for the file.
func (m *Transcriber) Transcribe(_ context.Context, audioPath string) (*stt.Transcription, error) {
	m.CallCount++
	name := filepath.Base(audioPath)
	if err, ok := m.failures[name]; ok {
		return nil, err
	}
	if tr, ok := m.responses[name]; ok {
		return &tr, nil
	}
	return nil, fmt.Errorf("no scripted transcription for %s", name)
}
