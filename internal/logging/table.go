// Package logging renders human-readable run summaries: aligned stat tables,
// issue histograms and per-letter match bars. Machine-readable detail lives
// only in the JSON report.
package logging

import (
	"fmt"
	"math"
	"strings"
)

// MissingValue is the placeholder for unavailable measurements
const MissingValue = "-"

// StatRow is one metric line in a stats table.
type StatRow struct {
	Label  string   // e.g. "Duration"
	Values []string // one per column, pre-formatted
	Unit   string   // e.g. "s", "" for unitless
}

// StatTable formats aligned columns for batch statistics (Min/Max/Avg/Median).
// Labels are left-aligned, values right-aligned within their column, units
// appended after the last value.
type StatTable struct {
	Headers []string
	Rows    []StatRow
}

// NewStatTable creates a table with the standard Min/Max/Avg/Median headers.
func NewStatTable() *StatTable {
	return &StatTable{Headers: []string{"Min", "Max", "Avg", "Median"}}
}

// AddRow appends a metric row, formatting each value to the given precision.
// Pass math.NaN() for columns that do not apply - they display as "-".
func (t *StatTable) AddRow(label string, values []float64, decimals int, unit string) {
	formatted := make([]string, len(values))
	for i, v := range values {
		formatted[i] = formatMetric(v, decimals)
	}
	t.Rows = append(t.Rows, StatRow{Label: label, Values: formatted, Unit: unit})
}

// String renders the table with aligned columns.
func (t *StatTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	labelWidth := 0
	for _, row := range t.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}

	valueWidths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		valueWidths[i] = len(header)
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(valueWidths) && len(val) > valueWidths[i] {
				valueWidths[i] = len(val)
			}
		}
	}

	var sb strings.Builder

	// Header row
	sb.WriteString(strings.Repeat(" ", labelWidth+2))
	for i, header := range t.Headers {
		sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], header))
	}
	sb.WriteString("\n")

	// Data rows
	for _, row := range t.Rows {
		sb.WriteString(fmt.Sprintf("%-*s  ", labelWidth, row.Label))
		for i := 0; i < len(t.Headers); i++ {
			val := MissingValue
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], val))
		}
		if row.Unit != "" {
			sb.WriteString(row.Unit)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatMetric formats a numeric value with the given precision. NaN and Inf
// display as "-"; very small non-zero values switch to scientific notation so
// they do not collapse to 0.0000.
func formatMetric(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}
	if value != 0 && math.Abs(value) < 0.0001 {
		return fmt.Sprintf("%.2e", value)
	}
	return fmt.Sprintf("%.*f", decimals, value)
}

// matchBar renders a percentage as a block bar, one block per 5%.
func matchBar(percent float64) string {
	blocks := int(percent / 5)
	if blocks < 0 {
		blocks = 0
	}
	return strings.Repeat("█", blocks)
}
