package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tsawler/polyorder/classes"
	"github.com/tsawler/polyorder/layout"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - primary actions
	colorGreen = lipgloss.Color("35")  // Green - success
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	iconSuccess = "✓"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func (c *CLI) printSuccess(format string, args ...any) {
	fmt.Fprintln(c.out, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func (c *CLI) printInfo(format string, args ...any) {
	fmt.Fprintln(c.out, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func (c *CLI) printDetail(format string, args ...any) {
	fmt.Fprintln(c.out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printRows lists every row with its polygons' class names in order.
func (c *CLI) printRows(title string, rows []layout.Row, names *classes.List) {
	fmt.Fprintln(c.out, StyleTitle.Render(title))
	for _, row := range rows {
		labels := make([]string, len(row.Polygons))
		for i, p := range row.Polygons {
			labels[i] = names.Name(p.Class)
		}
		fmt.Fprintf(c.out, "  %s %s %s\n",
			StyleNumber.Render(fmt.Sprintf("row %d", row.Index)),
			StyleDim.Render(iconArrow),
			strings.Join(labels, " "))
	}
}
