package logging

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/alphaset/lettercheck/internal/quality"
	"github.com/alphaset/lettercheck/internal/validate"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5F87FF")).
			MarginTop(1)

	goodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00"))

	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D70000"))
)

func header(title string) {
	fmt.Fprintln(os.Stderr, headerStyle.Render(title))
}

// PrintQualitySummary writes the human-readable wrap-up of a quality run to
// the console. The JSON report remains the machine-readable record.
func PrintQualitySummary(report *quality.Report) {
	s := report.Summary

	header("Quality summary")
	log.Info("Files analyzed", "total", s.TotalFiles)
	log.Info("Clean files", "count", s.CleanFiles, "rate", fmt.Sprintf("%.2f%%", s.QualityRate))
	log.Info("Files with issues", "count", s.FilesWithIssues)
	log.Info("Average quality score", "score", fmt.Sprintf("%.2f/100", s.AverageQualityScore))

	table := NewStatTable()
	table.AddRow("Duration", []float64{s.Duration.Min, s.Duration.Max, s.Duration.Avg, s.Duration.Median}, 3, "s")
	table.AddRow("RMS level", []float64{s.RMSLevel.Min, s.RMSLevel.Max, s.RMSLevel.Avg, math.NaN()}, 4, "")
	fmt.Fprint(os.Stderr, table.String())

	if counts := report.IssuesByCount(); len(counts) > 0 {
		header("Issues found")
		for _, ic := range counts {
			log.Info(ic.Issue, "files", ic.Count)
		}
	} else {
		fmt.Fprintln(os.Stderr, goodStyle.Render("No quality issues found"))
	}
}

// PrintValidationSummary writes the human-readable wrap-up of a validation
// run, including the per-letter match-rate bars.
func PrintValidationSummary(report *validate.Report) {
	s := report.Summary

	header("Validation summary")
	log.Info("Files in dataset", "total", s.TotalFiles)
	log.Info("Files validated", "count", s.ValidatedFiles)
	log.Info("Matched", "count", s.MatchedFiles, "rate", fmt.Sprintf("%.1f%%", s.MatchRate))
	log.Info("Failed", "count", s.FailedFiles)
	log.Info("Average validation score", "score", fmt.Sprintf("%.2f/100", s.AverageValidationScore))
	log.Info("Audio duration", "avg", fmt.Sprintf("%.3fs", s.AverageAudioDuration),
		"total", fmt.Sprintf("%.3fs", s.TotalAudioDuration))

	letters := make([]string, 0, len(report.LetterBreakdown))
	for letter := range report.LetterBreakdown {
		letters = append(letters, letter)
	}
	sort.Strings(letters)

	if len(letters) > 0 {
		header("Per-letter match rates")
		for _, letter := range letters {
			stats := report.LetterBreakdown[letter]
			if stats.Validated == 0 {
				continue
			}
			rate := 100 * float64(stats.Matched) / float64(stats.Validated)
			bar := matchBar(rate)
			if rate < 100 {
				bar = badStyle.Render(bar)
			} else {
				bar = goodStyle.Render(bar)
			}
			fmt.Fprintf(os.Stderr, "  %s: %5.1f%% %s\n", letter, rate, bar)
		}
	}
}
