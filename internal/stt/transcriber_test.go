package stt

import (
	"math"
	"testing"
)

func TestTranscriptionText(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		want     string
	}{
		{"empty", nil, ""},
		{"single", []Segment{{Text: " Bee."}}, "Bee."},
		{"multiple", []Segment{{Text: " The"}, {Text: " letter"}, {Text: " bee "}}, "The letter bee"},
		{"skips_blank_segments", []Segment{{Text: "  "}, {Text: "bee"}}, "bee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &Transcription{Segments: tt.segments}
			if got := tr.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranscriptionAvgLogProb(t *testing.T) {
	t.Run("no_segments", func(t *testing.T) {
		tr := &Transcription{}
		if got := tr.AvgLogProb(); got != 0 {
			t.Errorf("AvgLogProb() = %v, want 0", got)
		}
	})

	t.Run("averages_segments", func(t *testing.T) {
		tr := &Transcription{Segments: []Segment{
			{AvgLogProb: -0.2},
			{AvgLogProb: -0.6},
		}}
		if got := tr.AvgLogProb(); math.Abs(got-(-0.4)) > 1e-9 {
			t.Errorf("AvgLogProb() = %v, want -0.4", got)
		}
	})
}
