package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5F87FF"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#00AA00"))

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D70000"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	barFilledStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5F87FF"))
)

// barWidth is the character width of the progress bar.
const barWidth = 40

// renderProgressView shows the live batch state: progress bar, counts and a
// tail of recent failures.
func renderProgressView(m Model) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Lettercheck"))
	if m.Label != "" {
		sb.WriteString(mutedStyle.Render(" · " + m.Label + " scan"))
	}
	sb.WriteString("\n\n")

	if m.Total == 0 {
		sb.WriteString("Scanning dataset...\n")
		return sb.String()
	}

	sb.WriteString(renderBar(m.Done, m.Total))
	sb.WriteString(fmt.Sprintf("  %d/%d", m.Done, m.Total))

	elapsed := time.Since(m.StartTime).Seconds()
	if elapsed > 0 && m.Done > 0 {
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("  %.1f files/sec", float64(m.Done)/elapsed)))
	}
	sb.WriteString("\n\n")

	sb.WriteString(okStyle.Render(fmt.Sprintf("✓ %d passed", m.OK)))
	sb.WriteString("   ")
	sb.WriteString(failStyle.Render(fmt.Sprintf("✗ %d flagged", m.Failed)))
	sb.WriteString("\n")

	if len(m.RecentFailures) > 0 {
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render("Recent flags:"))
		sb.WriteString("\n")
		for _, f := range m.RecentFailures {
			sb.WriteString(fmt.Sprintf("  %s %s\n",
				failStyle.Render(filepath.Base(f.Path)),
				mutedStyle.Render(f.Detail)))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("press q to abort"))
	sb.WriteString("\n")

	return sb.String()
}

// renderCompletionSummary shows the final per-letter tallies once the batch
// is done.
func renderCompletionSummary(m Model) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Lettercheck"))
	sb.WriteString(mutedStyle.Render(fmt.Sprintf(" · done in %s", time.Since(m.StartTime).Round(time.Second))))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("%s  %s\n\n",
		okStyle.Render(fmt.Sprintf("✓ %d passed", m.OK)),
		failStyle.Render(fmt.Sprintf("✗ %d flagged", m.Failed))))

	for _, letter := range m.LetterOrder {
		done := m.LetterDone[letter]
		ok := m.LetterOK[letter]
		line := fmt.Sprintf("  %s: %d/%d", letter, ok, done)
		if ok == done {
			sb.WriteString(okStyle.Render(line))
		} else {
			sb.WriteString(failStyle.Render(line))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderBar draws a fixed-width progress bar.
func renderBar(done, total int) string {
	filled := 0
	if total > 0 {
		filled = done * barWidth / total
	}
	if filled > barWidth {
		filled = barWidth
	}
	return barFilledStyle.Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", barWidth-filled))
}
