package quality

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/alphaset/lettercheck/internal/dataset"
)

// progressInterval controls how often batch progress is logged.
const progressInterval = 50

// Options tunes a batch scan. The zero value scans everything.
type Options struct {
	SampleRate float64 // fraction of files to scan, (0,1); 0 or 1 scans all
	MaxFiles   int     // cap on scanned files; 0 means no cap
	Rand       *rand.Rand
	// OnResult is invoked after each file with the running index and total.
	// result is nil when the file failed to decode and was skipped.
	OnResult func(index, total int, result *Result)
}

// Report is the persisted artifact of a quality run; it is the system of
// record for downstream review.
type Report struct {
	Summary      Summary        `json:"summary"`
	AllResults   []Result       `json:"all_results"`
	IssuesByType map[string]int `json:"issues_by_type"`
}

// Summary holds the aggregate statistics of a quality run. It is a pure
// function of the result set, recomputed each run.
type Summary struct {
	TotalFiles          int           `json:"total_files"`
	CleanFiles          int           `json:"clean_files"`
	FilesWithIssues     int           `json:"files_with_issues"`
	QualityRate         float64       `json:"quality_rate"` // percent clean
	AverageQualityScore float64       `json:"average_quality_score"`
	Duration            DurationStats `json:"duration"`
	RMSLevel            RMSStats      `json:"rms_level"`
	SampleRates         []int         `json:"sample_rates"`
	IssuesFound         bool          `json:"issues_found"`
}

// DurationStats summarises clip durations in seconds.
type DurationStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Median float64 `json:"median"`
}

// RMSStats summarises RMS levels across the batch.
type RMSStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}

// IssueCount pairs an issue tag with its occurrence count.
type IssueCount struct {
	Issue string
	Count int
}

// CheckAll scans every WAV file under root and builds the quality report.
// Decode failures are logged and skipped without aborting the batch. Returns
// an error only for fatal conditions: missing root or zero input files.
func (a *Analyzer) CheckAll(root string, opts Options) (*Report, error) {
	files, err := dataset.Scan(root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no WAV files found in %s", root)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	files = dataset.Sample(files, opts.SampleRate, opts.MaxFiles, rng)

	log.Info("Analyzing audio quality", "files", len(files), "root", root)

	results := make([]Result, 0, len(files))
	issueCounts := map[string]int{}

	for i, path := range files {
		if (i+1)%progressInterval == 0 {
			log.Info("Progress", "analyzed", i+1, "total", len(files))
		}

		res, err := a.Check(path)
		if err != nil {
			// Undecodable clips are excluded from the aggregates entirely
			log.Warn("Skipping file", "file", filepath.Base(path), "err", err)
			if opts.OnResult != nil {
				opts.OnResult(i, len(files), nil)
			}
			continue
		}

		results = append(results, *res)
		for _, issue := range res.Issues {
			issueCounts[issue]++
		}
		if opts.OnResult != nil {
			opts.OnResult(i, len(files), res)
		}
	}

	return &Report{
		Summary:      BuildSummary(results, issueCounts),
		AllResults:   results,
		IssuesByType: issueCounts,
	}, nil
}

// BuildSummary derives the aggregate statistics from a result set. The input
// order does not matter: order-sensitive aggregates sort their values first.
func BuildSummary(results []Result, issueCounts map[string]int) Summary {
	if len(results) == 0 {
		return Summary{}
	}

	durations := make([]float64, 0, len(results))
	rmsLevels := make([]float64, 0, len(results))
	scoreSum := 0.0
	withIssues := 0
	rateSet := map[int]bool{}

	for _, r := range results {
		durations = append(durations, r.DurationSec)
		rmsLevels = append(rmsLevels, r.RMSLevel)
		scoreSum += r.QualityScore
		if !r.Clean() {
			withIssues++
		}
		rateSet[r.SampleRate] = true
	}

	clean := len(results) - withIssues
	sampleRates := make([]int, 0, len(rateSet))
	for rate := range rateSet {
		sampleRates = append(sampleRates, rate)
	}
	sort.Ints(sampleRates)

	return Summary{
		TotalFiles:          len(results),
		CleanFiles:          clean,
		FilesWithIssues:     withIssues,
		QualityRate:         roundTo(100*float64(clean)/float64(len(results)), 2),
		AverageQualityScore: roundTo(scoreSum/float64(len(results)), 2),
		Duration: DurationStats{
			Min:    roundTo(minOf(durations), 3),
			Max:    roundTo(maxOf(durations), 3),
			Avg:    roundTo(avgOf(durations), 3),
			Median: roundTo(medianOf(durations), 3),
		},
		RMSLevel: RMSStats{
			Min: roundTo(minOf(rmsLevels), 4),
			Max: roundTo(maxOf(rmsLevels), 4),
			Avg: roundTo(avgOf(rmsLevels), 4),
		},
		SampleRates: sampleRates,
		IssuesFound: len(issueCounts) > 0,
	}
}

// IssuesByCount returns the issue histogram ordered by descending count for
// display, ties broken alphabetically for stable output.
func (r *Report) IssuesByCount() []IssueCount {
	out := make([]IssueCount, 0, len(r.IssuesByType))
	for issue, count := range r.IssuesByType {
		out = append(out, IssueCount{Issue: issue, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Issue < out[j].Issue
	})
	return out
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

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func avgOf(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// medianOf sorts a copy before indexing the middle element, so the result is
// stable under input reordering.
func medianOf(vals []float64) float64 {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}
