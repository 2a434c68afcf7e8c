package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/repometa/pkg/observability"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleArchived = lipgloss.NewStyle().Foreground(colorYellow)
	styleBorder   = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Stats Display
// =============================================================================

// printScanStats prints the end-of-run counters on a single line.
func printScanStats(s observability.Stats) {
	parts := []string{
		fmt.Sprintf("%d scanned", s.Scans),
		styleCached.Render(fmt.Sprintf("%d cached", s.CacheHits)),
		fmt.Sprintf("%d fetched", s.CacheMisses),
		fmt.Sprintf("%d documents", s.Fetched),
	}
	if s.FetchFailures > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", s.FetchFailures))
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// =============================================================================
// Tables
// =============================================================================

// maxTableRows caps the field table printed after a scan.
const maxTableRows = 15

// headerRow is the row index lipgloss tables pass to StyleFunc for headers.
const headerRow = -1

// fieldCount is one row of the field table.
type fieldCount struct {
	source string
	field  string
	count  int
}

// topFields merges front-matter and sidebar counts and returns the most
// common fields, highest count first, ties broken by name.
func topFields(frontMatter, sidebar map[string]int, limit int) []fieldCount {
	rows := make([]fieldCount, 0, len(frontMatter)+len(sidebar))
	for f, n := range frontMatter {
		rows = append(rows, fieldCount{source: "front matter", field: f, count: n})
	}
	for f, n := range sidebar {
		rows = append(rows, fieldCount{source: "sidebar", field: f, count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		if rows[i].field != rows[j].field {
			return rows[i].field < rows[j].field
		}
		return rows[i].source < rows[j].source
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// renderFieldTable renders the most common fields as a bordered table.
func renderFieldTable(frontMatter, sidebar map[string]int) string {
	top := topFields(frontMatter, sidebar, maxTableRows)
	rows := make([][]string, len(top))
	for i, fc := range top {
		rows[i] = []string{fc.field, fc.source, strconv.Itoa(fc.count)}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleBorder).
		Headers("Field", "Source", "Repos").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == headerRow:
				return s.Bold(true).Foreground(colorCyan)
			case col == 2:
				return s.Foreground(colorCyan).Align(lipgloss.Right)
			case col == 1:
				return s.Foreground(colorGray)
			}
			return s.Foreground(colorWhite)
		}).
		String()
}
