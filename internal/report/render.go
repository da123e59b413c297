package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "2006-01-02 15:04"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Faint(true).Width(16)
	highStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	sectionStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	artifactStyle = lipgloss.NewStyle().Faint(true)
	boxStyle      = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// Render formats s for a terminal. Colors degrade to plain text when the output
// does not support them.
func Render(s Summary) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s · %s", s.Symbol, s.Interval)))
	b.WriteString("\n")

	row(&b, "Window", fmt.Sprintf("%s → %s", s.From.Format(dateLayout), s.To.Format(dateLayout)))
	row(&b, "Quotes", quoteCount(s))
	row(&b, "Last close", s.LastClose.String())
	row(&b, "Highest close", highStyle.Render(s.Max.Close.String())+" on "+s.Max.Time.Format(dateLayout))
	row(&b, "Lowest close", lowStyle.Render(s.Min.Close.String())+" on "+s.Min.Time.Format(dateLayout))
	row(&b, "Volatile", fmt.Sprintf("%d (%s%%)", s.VolatileCount, s.VolatileRatio.Shift(2).StringFixed(1)))

	if len(s.Series) > 0 {
		b.WriteString(sectionStyle.Render("Indicators"))
		b.WriteString("\n")

		for _, series := range s.Series {
			parts := make([]string, len(series.Values))
			for i, v := range series.Values {
				value := v.Value.String()
				if v.Undefined {
					value = "-"
				}

				parts[i] = fmt.Sprintf("%s=%s", v.Column, value)
			}

			row(&b, series.Label, strings.Join(parts, "  "))
		}
	}

	if len(s.Artifacts) > 0 {
		b.WriteString(sectionStyle.Render("Files"))
		b.WriteString("\n")

		for _, a := range s.Artifacts {
			b.WriteString(artifactStyle.Render(a))
			b.WriteString("\n")
		}
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(value)
	b.WriteString("\n")
}

func quoteCount(s Summary) string {
	if s.Skipped == 0 {
		return fmt.Sprintf("%d", s.Quotes)
	}

	return fmt.Sprintf("%d (%d skipped)", s.Quotes, s.Skipped)
}
