// Package validate verifies that generated letter clips contain the right
// pronunciation: each clip is transcribed and the transcript fuzzy-matched
// against the accepted spellings of the letter its filename promises.
package validate

import (
	"context"
	"math"

	"github.com/charmbracelet/log"

	"github.com/alphaset/lettercheck/internal/audio"
	"github.com/alphaset/lettercheck/internal/dataset"
	"github.com/alphaset/lettercheck/internal/stt"
)

// Terminal failure reasons carried in Result.ErrorType.
const (
	ErrorInvalidFilename     = "invalid_filename"
	ErrorTranscriptionFailed = "transcription_failed"
	ErrorMismatch            = "pronunciation_mismatch"
)

// UnknownLetter is reported when no expected letter can be derived from the
// filename.
const UnknownLetter = "UNKNOWN"

// Result is the validation record for a single clip. Created once and never
// mutated.
type Result struct {
	FilePath        string  `json:"file_path"`
	RelativePath    string  `json:"relative_path"`
	ExpectedLetter  string  `json:"expected_letter"`
	TranscribedText string  `json:"transcribed_text"`
	IsMatch         bool    `json:"is_match"`
	Confidence      float64 `json:"confidence"`
	AudioDuration   float64 `json:"audio_duration_seconds"`
	ErrorType       string  `json:"error_type,omitempty"`
	ValidationScore float64 `json:"validation_score"`

	// Mismatch diagnostics: the nearest accepted variant and its character
	// edit distance from the transcript. Not part of the match decision.
	ClosestVariant  string `json:"closest_variant,omitempty"`
	VariantDistance int    `json:"variant_distance,omitempty"`
}

// Validator checks clips against their expected letters using a Transcriber.
type Validator struct {
	transcriber stt.Transcriber
	baseDir     string // base for relative paths in results
}

// NewValidator creates a validator. baseDir anchors the relative paths
// reported per clip; pass the parent of the dataset root.
func NewValidator(transcriber stt.Transcriber, baseDir string) *Validator {
	return &Validator{transcriber: transcriber, baseDir: baseDir}
}

// ValidateFile runs the full per-clip state machine: letter extraction, then
// transcription, then the match check. Every failure becomes a terminal
// result with an ErrorType; nothing propagates to the batch.
func (v *Validator) ValidateFile(ctx context.Context, path string) Result {
	res := Result{
		FilePath:       path,
		RelativePath:   dataset.RelPath(v.baseDir, path),
		ExpectedLetter: UnknownLetter,
	}

	letter, ok := dataset.ExpectedLetter(path)
	if !ok {
		// No point spending model inference on a clip whose target letter is
		// unknowable
		res.ErrorType = ErrorInvalidFilename
		return res
	}
	res.ExpectedLetter = letter

	// Duration comes from the container header, independent of transcription:
	// it must survive a transcription failure. A read error degrades to 0.0.
	if meta, err := audio.Probe(path); err != nil {
		log.Warn("Could not read duration", "file", path, "err", err)
	} else {
		res.AudioDuration = roundTo(meta.Duration, 3)
	}

	tr, err := v.transcriber.Transcribe(ctx, path)
	if err != nil {
		log.Warn("Transcription failed", "file", path, "err", err)
		res.ErrorType = ErrorTranscriptionFailed
		return res
	}

	text := tr.Text()
	if text == "" {
		res.ErrorType = ErrorTranscriptionFailed
		return res
	}
	res.TranscribedText = text
	res.Confidence = ConfidenceFromLogProb(tr.AvgLogProb())

	res.IsMatch = MatchesLetter(text, letter)
	if res.IsMatch {
		res.ValidationScore = 100.0
	} else {
		res.ErrorType = ErrorMismatch
		res.ValidationScore = roundTo(res.Confidence*100.0, 2)
		res.ClosestVariant, res.VariantDistance = NearestVariant(text, letter)
	}
	return res
}

// ConfidenceFromLogProb maps an average token log-probability into [0,1].
// The normalisation is a rough empirical rescaling, not a calibrated
// probability: log-probs near 0 indicate a confident decode, values around -5
// or lower map to 0. Downstream consumers should treat the result as a
// ranking signal only.
func ConfidenceFromLogProb(avgLogProb float64) float64 {
	return math.Min(1.0, math.Max(0.0, (avgLogProb+5)/5))
}

func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
