// Package ui renders terminal output for the command line tool.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Out receives regular output, Err receives error messages
	Out io.Writer = os.Stdout
	Err io.Writer = os.Stderr
)

var (
	primaryColor   = lipgloss.Color("#7D56F4")
	secondaryColor = lipgloss.Color("#00D9FF")
	successColor   = lipgloss.Color("#04B575")
	errorColor     = lipgloss.Color("#FF5F87")
	warningColor   = lipgloss.Color("#FFAF00")
	mutedColor     = lipgloss.Color("#626262")
	accentColor    = lipgloss.Color("#FFD700")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginTop(1).
			PaddingLeft(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor).
			MarginTop(1).
			PaddingLeft(1)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	infoStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	keyStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true)

	checkmark = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true).
			SetString("✓")

	cross = lipgloss.NewStyle().
		Foreground(errorColor).
		Bold(true).
		SetString("✗")

	arrow = lipgloss.NewStyle().
		Foreground(secondaryColor).
		SetString("→")

	dot = lipgloss.NewStyle().
		Foreground(mutedColor).
		SetString("•")

	star = lipgloss.NewStyle().
		Foreground(accentColor).
		SetString("★")

	stepStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	highlightStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)
)

// PrintTitle prints the tool name or a major section
func PrintTitle(title string) {
	fmt.Fprintln(Out, titleStyle.Render("╭─ "+title+" ─╮"))
}

// PrintHeader prints a section header
func PrintHeader(title string) {
	fmt.Fprintln(Out, headerStyle.Render("▸ "+title))
}

// PrintStep prints a step with indentation
func PrintStep(step string) {
	fmt.Fprintln(Out, stepStyle.Render(arrow.String()+" "+step))
}

// PrintItem prints an item in a list
func PrintItem(item string) {
	fmt.Fprintln(Out, itemStyle.Render(dot.String()+" "+item))
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintln(Out, stepStyle.Render(checkmark.String()+" "+successStyle.Render(message)))
}

// PrintError prints an error message to Err
func PrintError(message string) {
	fmt.Fprintln(Err, stepStyle.Render(cross.String()+" "+errorStyle.Render(message)))
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintln(Out, stepStyle.Render("⚠ "+warningStyle.Render(message)))
}

// PrintInfo prints a muted info message
func PrintInfo(message string) {
	fmt.Fprintln(Out, stepStyle.Render(infoStyle.Render(message)))
}

// PrintHighlight prints highlighted text
func PrintHighlight(message string) {
	fmt.Fprintln(Out, stepStyle.Render(star.String()+" "+highlightStyle.Render(message)))
}

// PrintKeyValue prints a key-value pair
func PrintKeyValue(key, value string) {
	fmt.Fprintln(Out, stepStyle.Render(keyStyle.Render(key+":")+" "+value))
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Fprintln(Out, infoStyle.Render(strings.Repeat("─", 45)))
}

// Table prints aligned columns with fixed widths
type Table struct {
	Widths []int
}

// NewTable creates a table with the given column widths
func NewTable(widths ...int) *Table {
	return &Table{Widths: widths}
}

func (t *Table) format(columns []string, truncate func(string, int) string) string {
	cells := make([]string, 0, len(columns))
	for i, col := range columns {
		if i >= len(t.Widths) {
			break
		}
		cells = append(cells, truncate(col, t.Widths[i]))
	}
	return strings.Join(cells, " │ ")
}

// Header prints the header row and a separator line
func (t *Table) Header(headers ...string) {
	fmt.Fprintln(Out, stepStyle.Render(keyStyle.Render(t.format(headers, fit))))

	parts := make([]string, 0, len(headers))
	for i := range headers {
		if i >= len(t.Widths) {
			break
		}
		parts = append(parts, strings.Repeat("─", t.Widths[i]))
	}
	fmt.Fprintln(Out, stepStyle.Render(infoStyle.Render(strings.Join(parts, "─┼─"))))
}

// Row prints one row
func (t *Table) Row(columns ...string) {
	fmt.Fprintln(Out, stepStyle.Render(t.format(columns, fit)))
}

// fit pads or truncates s to exactly width runes
func fit(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		if width <= 3 {
			return string(r[:width])
		}
		return string(r[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-len(r))
}

// PrintProgress prints a progress bar that overwrites itself
func PrintProgress(current, total int, message string) {
	if total <= 0 || IsVerbose() {
		return
	}

	barWidth := 30
	filled := (current * barWidth) / total
	if filled > barWidth {
		filled = barWidth
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	pct := (current * 100) / total
	fmt.Fprintf(Out, "\r  [%s] %d%% %s", bar, pct, message)

	if current >= total {
		fmt.Fprintln(Out)
	}
}

// IsVerbose reports whether progress bars should be suppressed, as in CI
func IsVerbose() bool {
	return os.Getenv("CI") != ""
}
