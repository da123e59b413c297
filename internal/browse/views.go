package browse

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// PriceLabel is the list entry showing the quotes themselves.
const PriceLabel = "Price"

const (
	timeLayout  = "2006-01-02 15:04"
	timeWidth   = 18
	valueWidth  = 14
	volatileCol = "Volatile"
)

// listItem implements list.Item for the series list.
type listItem struct {
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

// NewSeriesList lists the price view followed by every computed series.
func NewSeriesList(result *types.AnalysisResult) list.Model {
	items := []list.Item{
		listItem{name: PriceLabel, description: "open, high, low, close, volume"},
	}

	for _, s := range result.Series {
		items = append(items, listItem{name: s.Label, description: strings.Join(s.Columns, ", ")})
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = fmt.Sprintf("%s %s: %d quotes", result.Symbol, result.Interval, len(result.Quotes))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewJumpInput creates the date input used to move the table cursor.
func NewJumpInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "2024-01-31"
	ti.CharLimit = 25
	ti.Width = 30
	ti.Prompt = "> "

	return ti
}

// NewValuesTable creates an empty table with the shared styles.
func NewValuesTable() table.Model {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// PriceTable returns the columns and rows of the quote view.
func PriceTable(result *types.AnalysisResult) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Time", Width: timeWidth},
		{Title: "Open", Width: valueWidth},
		{Title: "High", Width: valueWidth},
		{Title: "Low", Width: valueWidth},
		{Title: "Close", Width: valueWidth + 2},
		{Title: "Volume", Width: valueWidth + 2},
		{Title: volatileCol, Width: len(volatileCol)},
	}

	volatile := make(map[int64]bool, len(result.Volatility))
	for _, v := range result.Volatility {
		volatile[v.Timestamp] = v.Volatile
	}

	rows := make([]table.Row, 0, len(result.Quotes))
	previous := 0.0

	for _, q := range result.Quotes {
		flag := ""
		if volatile[q.Timestamp] {
			flag = "●"
		}

		rows = append(rows, table.Row{
			formatTime(q.Timestamp),
			FormatValue(q.Open),
			FormatValue(q.High),
			FormatValue(q.Low),
			FormatCloseWithChange(q.Close, previous),
			fmt.Sprintf("%.2f", q.Volume),
			flag,
		})

		previous = q.Close
	}

	return columns, rows
}

// SeriesTable returns the columns and rows of one indicator series, with the close alongside.
func SeriesTable(result *types.AnalysisResult, series types.IndicatorSeries) ([]table.Column, []table.Row) {
	columns := []table.Column{
		{Title: "Time", Width: timeWidth},
		{Title: "Close", Width: valueWidth},
	}

	for _, c := range series.Columns {
		columns = append(columns, table.Column{Title: c, Width: valueWidth})
	}

	rows := make([]table.Row, 0, len(series.Points))

	for i, p := range series.Points {
		row := table.Row{formatTime(p.Timestamp), "-"}
		if i < len(result.Quotes) {
			row[1] = FormatValue(result.Quotes[i].Close)
		}

		for _, v := range p.Values {
			row = append(row, FormatValue(v))
		}

		rows = append(rows, row)
	}

	return columns, rows
}

// FindRow returns the first row at or after t, or the last row when t is past the end.
func FindRow(timestamps []int64, t time.Time) int {
	for i, ts := range timestamps {
		if ts >= t.Unix() {
			return i
		}
	}

	return max(0, len(timestamps)-1)
}

// ParseJumpTime accepts a date or an RFC3339 timestamp.
func ParseJumpTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	for _, layout := range []string{"2006-01-02", time.RFC3339, timeLayout} {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Newf(errors.ErrCodeInvalidParameter, "invalid date %q, use YYYY-MM-DD", value)
}

func formatTime(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(timeLayout)
}
