package browse

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// FormatValue renders an indicator value. Warm-up values (NaN) render as "-".
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}

	return fmt.Sprintf("%.4f", v)
}

// FormatCloseWithChange marks a close with ▲ or ▼ relative to the previous close.
func FormatCloseWithChange(current, previous float64) string {
	closeStr := FormatValue(current)

	if previous == 0 || math.IsNaN(previous) {
		return closeStr
	}

	if current > previous {
		return closeStr + " ▲"
	} else if current < previous {
		return closeStr + " ▼"
	}

	return closeStr
}
