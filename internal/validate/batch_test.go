package validate

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alphaset/lettercheck/internal/stt/mock"
)

// newTestRoot lays out a dataset root with per-letter dirs and empty WAV
// files. The transcriber is mocked so file content never matters.
func newTestRoot(t *testing.T, filesByLetter map[string][]string) string {
	t.Helper()
	root := t.TempDir()
	for letter, files := range filesByLetter {
		dir := filepath.Join(root, letter)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		for _, name := range files {
			if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	return root
}

func TestValidateDirectory(t *testing.T) {
	root := newTestRoot(t, map[string][]string{
		"A": {"kokoro_af_01_a.wav", "kokoro_af_02_a.wav"},
		"B": {"kokoro_af_01_b.wav"},
	})

	tr := mock.New()
	tr.Add("kokoro_af_01_a.wav", "ay", -0.5)
	tr.Add("kokoro_af_02_a.wav", "dog", -2.5)
	tr.Add("kokoro_af_01_b.wav", "bee", -0.1)

	v := NewValidator(tr, root)
	var calls int
	batch, err := v.ValidateDirectory(context.Background(), root, Options{
		OnResult: func(done, total int, res *Result) {
			calls++
			if total != 3 {
				t.Errorf("OnResult total = %d, want 3", total)
			}
			if done != calls {
				t.Errorf("OnResult done = %d, want %d", done, calls)
			}
		},
	})
	if err != nil {
		t.Fatalf("ValidateDirectory() error: %v", err)
	}

	if batch.TotalFiles != 3 || batch.ValidatedFiles != 3 {
		t.Errorf("total/validated = %d/%d, want 3/3", batch.TotalFiles, batch.ValidatedFiles)
	}
	if batch.MatchedFiles != 2 || batch.FailedFiles != 1 {
		t.Errorf("matched/failed = %d/%d, want 2/1", batch.MatchedFiles, batch.FailedFiles)
	}
	if calls != 3 {
		t.Errorf("OnResult called %d times, want 3", calls)
	}

	statsA := batch.LetterStats["A"]
	if statsA.Total != 2 || statsA.Matched != 1 || statsA.Failed != 1 {
		t.Errorf("letter A stats = %+v, want 2 total, 1 matched, 1 failed", statsA)
	}
	statsB := batch.LetterStats["B"]
	if statsB.Total != 1 || statsB.Matched != 1 {
		t.Errorf("letter B stats = %+v, want 1 total, 1 matched", statsB)
	}

	// Letters traverse in alphabetical order, files sorted within each
	if len(batch.Results) != 3 {
		t.Fatalf("len(Results) = %d, want 3", len(batch.Results))
	}
	if batch.Results[0].ExpectedLetter != "A" || batch.Results[2].ExpectedLetter != "B" {
		t.Errorf("results out of order: %v, %v",
			batch.Results[0].ExpectedLetter, batch.Results[2].ExpectedLetter)
	}

	if rate := batch.MatchRate(); rate < 66.6 || rate > 66.7 {
		t.Errorf("MatchRate() = %v, want ~66.67", rate)
	}
}

func TestValidateDirectoryMaxFilesPerLetter(t *testing.T) {
	root := newTestRoot(t, map[string][]string{
		"A": {"kokoro_af_01_a.wav", "kokoro_af_02_a.wav", "kokoro_af_03_a.wav"},
	})

	tr := mock.New()
	tr.Add("kokoro_af_01_a.wav", "ay", -0.5)
	tr.Add("kokoro_af_02_a.wav", "ay", -0.5)

	v := NewValidator(tr, root)
	batch, err := v.ValidateDirectory(context.Background(), root, Options{MaxFilesPerLetter: 2})
	if err != nil {
		t.Fatalf("ValidateDirectory() error: %v", err)
	}

	if batch.TotalFiles != 3 {
		t.Errorf("TotalFiles = %d, want 3 (count before sampling)", batch.TotalFiles)
	}
	if batch.ValidatedFiles != 2 {
		t.Errorf("ValidatedFiles = %d, want 2", batch.ValidatedFiles)
	}
}

func TestValidateDirectoryFatalConditions(t *testing.T) {
	tr := mock.New()
	v := NewValidator(tr, ".")

	t.Run("missing_root", func(t *testing.T) {
		_, err := v.ValidateDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
		if err == nil {
			t.Error("ValidateDirectory() should fail for a missing root")
		}
	})

	t.Run("no_files", func(t *testing.T) {
		_, err := v.ValidateDirectory(context.Background(), t.TempDir(), Options{})
		if err == nil {
			t.Error("ValidateDirectory() should fail when no letter dirs exist")
		}
	})
}

func TestValidateDirectoryCancellation(t *testing.T) {
	root := newTestRoot(t, map[string][]string{
		"A": {"kokoro_af_01_a.wav"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := NewValidator(mock.New(), root)
	if _, err := v.ValidateDirectory(ctx, root, Options{}); err == nil {
		t.Error("ValidateDirectory() should return the context error when cancelled")
	}
}

func TestBuildReport(t *testing.T) {
	batch := &Batch{
		TotalFiles:     4,
		ValidatedFiles: 3,
		MatchedFiles:   2,
		FailedFiles:    1,
		LetterStats: map[string]LetterStats{
			"A": {Total: 2, Validated: 2, Matched: 2},
			"B": {Total: 1, Validated: 1, Failed: 1},
		},
		Results: []Result{
			{ExpectedLetter: "A", IsMatch: true, ValidationScore: 100.0, AudioDuration: 1.0},
			{ExpectedLetter: "A", IsMatch: true, ValidationScore: 100.0, AudioDuration: 1.5},
			{ExpectedLetter: "B", IsMatch: false, ValidationScore: 50.0, AudioDuration: 0.5, ErrorType: ErrorMismatch},
		},
	}

	report := BuildReport(batch, ModelInfo{ModelSize: "base", Device: "cpu"})

	s := report.Summary
	if s.TotalFiles != 4 || s.ValidatedFiles != 3 || s.MatchedFiles != 2 || s.FailedFiles != 1 {
		t.Errorf("summary counts = %+v, want 4/3/2/1", s)
	}
	if s.MatchRate != 66.67 {
		t.Errorf("MatchRate = %v, want 66.67", s.MatchRate)
	}
	if s.AverageValidationScore != 83.33 {
		t.Errorf("AverageValidationScore = %v, want 83.33", s.AverageValidationScore)
	}
	if s.AverageAudioDuration != 1.0 {
		t.Errorf("AverageAudioDuration = %v, want 1.0", s.AverageAudioDuration)
	}
	if s.TotalAudioDuration != 3.0 {
		t.Errorf("TotalAudioDuration = %v, want 3.0", s.TotalAudioDuration)
	}

	if len(report.FailedValidations) != 1 || report.FailedValidations[0].ExpectedLetter != "B" {
		t.Errorf("FailedValidations = %v, want the single B mismatch", report.FailedValidations)
	}
	if report.ModelInfo.ModelSize != "base" || report.ModelInfo.Device != "cpu" {
		t.Errorf("ModelInfo = %+v, want base/cpu", report.ModelInfo)
	}
}

func TestBuildReportEmptyBatch(t *testing.T) {
	report := BuildReport(&Batch{LetterStats: map[string]LetterStats{}}, ModelInfo{})

	if report.Summary.AverageValidationScore != 0 || report.Summary.MatchRate != 0 {
		t.Errorf("empty batch summary = %+v, want zeros", report.Summary)
	}
	if report.AllValidations == nil {
		t.Error("AllValidations should be an empty slice, not nil")
	}
	if report.FailedValidations == nil {
		t.Error("FailedValidations should be an empty slice, not nil")
	}
}

func TestValidationReportWrite(t *testing.T) {
	batch := &Batch{
		TotalFiles:     1,
		ValidatedFiles: 1,
		MatchedFiles:   1,
		LetterStats:    map[string]LetterStats{"A": {Total: 1, Validated: 1, Matched: 1}},
		Results: []Result{
			{ExpectedLetter: "A", IsMatch: true, ValidationScore: 100.0, AudioDuration: 1.0},
		},
	}
	report := BuildReport(batch, ModelInfo{ModelSize: "base", Device: "cpu"})

	path := filepath.Join(t.TempDir(), "validation_report.json")
	if err := report.Write(path); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	for _, key := range []string{"summary", "letter_breakdown", "model_info", "all_validations", "failed_validations"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report missing %q key", key)
		}
	}

	var summary map[string]json.RawMessage
	if err := json.Unmarshal(decoded["summary"], &summary); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"total_files", "match_rate", "average_validation_score", "total_audio_duration"} {
		if _, ok := summary[key]; !ok {
			t.Errorf("summary missing %q key", key)
		}
	}
}
