// Package browse is an interactive terminal viewer for an analysis result.
package browse

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-indicators/internal/types"
	"github.com/rxtech-lab/argo-indicators/pkg/errors"
)

// Application states.
const (
	StateSeriesSelect = iota
	StateValues
	StateJump
)

// Model is the Bubble Tea model of the viewer. The result is read-only.
type Model struct {
	state      int
	result     *types.AnalysisResult
	seriesList list.Model
	jumpInput  textinput.Model
	valueTable table.Model
	// selected is the label shown in the table.
	selected   string
	timestamps []int64
	err        error
	width      int
	height     int
}

// NewModel creates a model starting at the series list.
func NewModel(result *types.AnalysisResult) Model {
	return Model{
		state:      StateSeriesSelect,
		result:     result,
		seriesList: NewSeriesList(result),
		jumpInput:  NewJumpInput(),
		valueTable: NewValuesTable(),
		selected:   "",
		timestamps: nil,
		err:        nil,
		width:      0,
		height:     0,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.state != StateJump {
				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seriesList.SetSize(msg.Width, msg.Height-4)
		m.valueTable.SetWidth(msg.Width)
		m.valueTable.SetHeight(msg.Height - 6)

		return m, nil
	}

	switch m.state {
	case StateSeriesSelect:
		return m.updateSeriesSelect(msg)
	case StateValues:
		return m.updateValues(msg)
	case StateJump:
		return m.updateJump(msg)
	}

	return m, nil
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateValues:
		m.state = StateSeriesSelect
		m.selected = ""
		m.err = nil
	case StateJump:
		m.jumpInput.Blur()
		m.jumpInput.Reset()
		m.state = StateValues
	}

	return m, nil
}

func (m Model) updateSeriesSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.seriesList.SelectedItem().(listItem); ok {
			m.showSeries(item.name)

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.seriesList, cmd = m.seriesList.Update(msg)

	return m, cmd
}

func (m Model) updateValues(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "/" {
		m.state = StateJump
		m.err = nil
		m.jumpInput.Focus()

		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.valueTable, cmd = m.valueTable.Update(msg)

	return m, cmd
}

func (m Model) updateJump(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		t, err := ParseJumpTime(m.jumpInput.Value())
		if err != nil {
			m.err = err
		} else {
			m.valueTable.SetCursor(FindRow(m.timestamps, t))
		}

		m.jumpInput.Blur()
		m.jumpInput.Reset()
		m.state = StateValues

		return m, nil
	}

	var cmd tea.Cmd
	m.jumpInput, cmd = m.jumpInput.Update(msg)

	return m, cmd
}

// showSeries loads the table for label. Rows are replaced before columns so the
// table never renders rows wider than its columns.
func (m *Model) showSeries(label string) {
	var (
		columns []table.Column
		rows    []table.Row
	)

	if label == PriceLabel {
		columns, rows = PriceTable(m.result)
		m.timestamps = quoteTimestamps(m.result.Quotes)
	} else {
		series, ok := m.result.SeriesByLabel(label)
		if !ok {
			m.err = errors.Newf(errors.ErrCodeInvalidParameter, "unknown series %s", label)

			return
		}

		columns, rows = SeriesTable(m.result, series)
		m.timestamps = pointTimestamps(series.Points)
	}

	m.valueTable.SetRows(nil)
	m.valueTable.SetColumns(columns)
	m.valueTable.SetRows(rows)
	m.valueTable.SetCursor(0)
	m.selected = label
	m.err = nil
	m.state = StateValues
}

// Selected returns the label of the series in the table, or "" on the list.
func (m Model) Selected() string {
	return m.selected
}

// Cursor returns the selected table row.
func (m Model) Cursor() int {
	return m.valueTable.Cursor()
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateSeriesSelect:
		s.WriteString(TitleStyle.Render("Argo Indicators - Results"))
		s.WriteString("\n\n")
		s.WriteString(m.seriesList.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Press Enter to open, q to quit"))

	case StateValues, StateJump:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("%s %s (%s)", m.result.Symbol, m.selected, m.result.Interval)))
		s.WriteString("\n\n")

		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		}

		s.WriteString(m.valueTable.View())
		s.WriteString("\n")

		if m.state == StateJump {
			s.WriteString("Jump to date:\n")
			s.WriteString(m.jumpInput.View())
			s.WriteString("\n")
			s.WriteString(HelpStyle.Render("Press Enter to jump, Esc to cancel"))
		} else {
			s.WriteString(HelpStyle.Render("q: quit | Esc: back | /: jump to date"))
		}
	}

	return s.String()
}

func quoteTimestamps(quotes []types.Quote) []int64 {
	out := make([]int64, len(quotes))
	for i, q := range quotes {
		out[i] = q.Timestamp
	}

	return out
}

func pointTimestamps(points []types.SeriesPoint) []int64 {
	out := make([]int64, len(points))
	for i, p := range points {
		out[i] = p.Timestamp
	}

	return out
}
