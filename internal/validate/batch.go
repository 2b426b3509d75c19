package validate

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alphaset/lettercheck/internal/dataset"
)

// progressInterval controls how often per-letter progress is logged.
const progressInterval = 10

// Options tunes a validation batch. The zero value validates everything.
type Options struct {
	SampleRate        float64 // fraction of each letter dir to validate
	MaxFilesPerLetter int     // cap per letter after sampling; 0 means all
	Rand              *rand.Rand
	// OnResult is invoked after each file with the running count of validated
	// files and the selected total.
	OnResult func(done, total int, result *Result)
}

// LetterStats counts validation outcomes for one letter directory.
type LetterStats struct {
	Total     int `json:"total"`
	Validated int `json:"validated"`
	Matched   int `json:"matched"`
	Failed    int `json:"failed"`
}

// Batch is the outcome of validating a dataset root.
type Batch struct {
	TotalFiles     int // all WAV files found, before sampling
	ValidatedFiles int
	MatchedFiles   int
	FailedFiles    int
	LetterStats    map[string]LetterStats
	Results        []Result
}

// MatchRate is the percentage of validated files that matched.
func (b *Batch) MatchRate() float64 {
	if b.ValidatedFiles == 0 {
		return 0
	}
	return 100 * float64(b.MatchedFiles) / float64(b.ValidatedFiles)
}

// ValidateDirectory walks the A-Z letter directories under root and validates
// every selected clip, in lexicographic order within each letter. Letters
// without a directory are skipped. Returns an error only for fatal
// conditions: missing root or zero clips found.
func (v *Validator) ValidateDirectory(ctx context.Context, root string, opts Options) (*Batch, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("output directory not found: %s", root)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// First pass selects the work so progress can be reported against a
	// known total
	type letterWork struct {
		letter string
		files  []string
	}
	var work []letterWork
	batch := &Batch{LetterStats: map[string]LetterStats{}}
	selected := 0

	for _, r := range dataset.Letters {
		letter := string(r)
		files, ok, err := dataset.ListLetterDir(root, letter)
		if err != nil {
			return nil, err
		}
		if !ok || len(files) == 0 {
			continue
		}
		batch.TotalFiles += len(files)

		files = dataset.Sample(files, opts.SampleRate, opts.MaxFilesPerLetter, rng)
		selected += len(files)
		work = append(work, letterWork{letter: letter, files: files})
	}

	if batch.TotalFiles == 0 {
		return nil, fmt.Errorf("no WAV files found in %s", root)
	}

	for _, w := range work {
		stats := LetterStats{Total: len(w.files)}
		log.Info("Validating letter", "letter", w.letter, "files", len(w.files))
		start := time.Now()

		for i, path := range w.files {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			res := v.ValidateFile(ctx, path)
			batch.Results = append(batch.Results, res)
			batch.ValidatedFiles++
			stats.Validated++

			if res.IsMatch {
				batch.MatchedFiles++
				stats.Matched++
			} else {
				batch.FailedFiles++
				stats.Failed++
				log.Warn("Pronunciation mismatch",
					"file", filepath.Base(path),
					"expected", res.ExpectedLetter,
					"got", res.TranscribedText,
					"confidence", fmt.Sprintf("%.2f", res.Confidence))
			}

			if (i+1)%progressInterval == 0 {
				elapsed := time.Since(start).Seconds()
				rate := 0.0
				if elapsed > 0 {
					rate = float64(i+1) / elapsed
				}
				log.Info("Progress",
					"letter", w.letter,
					"done", i+1,
					"total", len(w.files),
					"rate", fmt.Sprintf("%.1f files/sec", rate))
			}

			if opts.OnResult != nil {
				opts.OnResult(batch.ValidatedFiles, selected, &res)
			}
		}

		matchRate := 0.0
		if stats.Validated > 0 {
			matchRate = 100 * float64(stats.Matched) / float64(stats.Validated)
		}
		log.Info("Letter complete",
			"letter", w.letter,
			"elapsed", time.Since(start).Round(100*time.Millisecond),
			"match_rate", fmt.Sprintf("%.1f%%", matchRate))

		batch.LetterStats[w.letter] = stats
	}

	return batch, nil
}
