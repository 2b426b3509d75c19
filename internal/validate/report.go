package validate

import (
	"encoding/json"
	"fmt"
	"os"
)

// Report is the persisted artifact of a validation run.
type Report struct {
	Summary           Summary                `json:"summary"`
	LetterBreakdown   map[string]LetterStats `json:"letter_breakdown"`
	ModelInfo         ModelInfo              `json:"model_info"`
	AllValidations    []Result               `json:"all_validations"`
	FailedValidations []Result               `json:"failed_validations"`
}

// Summary holds the aggregate statistics of a validation run.
type Summary struct {
	TotalFiles             int     `json:"total_files"`
	ValidatedFiles         int     `json:"validated_files"`
	MatchedFiles           int     `json:"matched_files"`
	FailedFiles            int     `json:"failed_files"`
	MatchRate              float64 `json:"match_rate"`
	AverageValidationScore float64 `json:"average_validation_score"`
	AverageAudioDuration   float64 `json:"average_audio_duration"`
	TotalAudioDuration     float64 `json:"total_audio_duration"`
}

// ModelInfo records which transcription model produced the run.
type ModelInfo struct {
	ModelSize string `json:"model_size"`
	Device    string `json:"device"`
}

// BuildReport derives the full report from a finished batch.
func BuildReport(batch *Batch, model ModelInfo) *Report {
	scoreSum := 0.0
	durationSum := 0.0
	failed := make([]Result, 0)
	for _, r := range batch.Results {
		scoreSum += r.ValidationScore
		durationSum += r.AudioDuration
		if !r.IsMatch {
			failed = append(failed, r)
		}
	}

	avgScore := 0.0
	avgDuration := 0.0
	if len(batch.Results) > 0 {
		avgScore = scoreSum / float64(len(batch.Results))
		avgDuration = durationSum / float64(len(batch.Results))
	}

	results := batch.Results
	if results == nil {
		results = []Result{}
	}

	return &Report{
		Summary: Summary{
			TotalFiles:             batch.TotalFiles,
			ValidatedFiles:         batch.ValidatedFiles,
			MatchedFiles:           batch.MatchedFiles,
			FailedFiles:            batch.FailedFiles,
			MatchRate:              roundTo(batch.MatchRate(), 2),
			AverageValidationScore: roundTo(avgScore, 2),
			AverageAudioDuration:   roundTo(avgDuration, 3),
			TotalAudioDuration:     roundTo(durationSum, 3),
		},
		LetterBreakdown:   batch.LetterStats,
		ModelInfo:         model,
		AllValidations:    results,
		FailedValidations: failed,
	}
}

// Write persists the report as indented JSON.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
