package tui

import (
	"strings"

	table "github.com/charmbracelet/bubbles/table"
	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"trenchmap/internal/annot"
)

var lineColumns = []table.Column{
	{Title: "Line", Width: 6},
	{Title: "Length", Width: 11},
	{Title: "Depth", Width: 7},
	{Title: "Width", Width: 7},
	{Title: "Excavation", Width: 16},
	{Title: "Road", Width: 13},
}

// refreshLinesTable rebuilds the rows from the store, keeping the cursor
// in range.
func (m *Model) refreshLinesTable() {
	lines := m.r.Store().Lines()
	rows := make([]table.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, table.Row{
			l.ID,
			formatMeters(l.Distance),
			l.Depth,
			l.Width,
			string(l.ExcavationType),
			string(l.RoadType),
		})
	}
	m.tbl.SetRows(rows)
	if c := m.tbl.Cursor(); c >= len(rows) {
		m.tbl.SetCursor(max(0, len(rows)-1))
	}
}

// tableLine returns the id of the line under the table cursor.
func (m Model) tableLine() (string, bool) {
	row := m.tbl.SelectedRow()
	if len(row) == 0 {
		return "", false
	}
	return row[0], true
}

const (
	fieldDepth = iota
	fieldWidth
	fieldExcavation
	fieldRoad
	fieldCount
)

var fieldNames = [fieldCount]string{"Depth", "Width", "Excavation", "Road"}

// editor edits the attributes of one line.
type editor struct {
	id    string
	depth textinput.Model
	width textinput.Model
	exc   annot.ExcavationType
	road  annot.RoadType
	focus int
}

func newEditor() editor {
	mk := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 16
		ti.Prompt = ""
		return ti
	}
	return editor{depth: mk("metres"), width: mk("metres")}
}

func (e *editor) open(l annot.Line) tea.Cmd {
	e.id = l.ID
	e.depth.SetValue(l.Depth)
	e.width.SetValue(l.Width)
	e.exc = l.ExcavationType
	e.road = l.RoadType
	e.focus = fieldDepth
	e.width.Blur()
	return e.depth.Focus()
}

func (e editor) attributes() annot.Attributes {
	return annot.Attributes{
		Depth:          strings.TrimSpace(e.depth.Value()),
		Width:          strings.TrimSpace(e.width.Value()),
		ExcavationType: e.exc,
		RoadType:       e.road,
	}
}

func (e *editor) setFocus(f int) tea.Cmd {
	e.focus = (f + fieldCount) % fieldCount
	e.depth.Blur()
	e.width.Blur()
	switch e.focus {
	case fieldDepth:
		return e.depth.Focus()
	case fieldWidth:
		return e.width.Focus()
	}
	return nil
}

// update handles keys other than enter and esc.
func (e *editor) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "down":
		return e.setFocus(e.focus + 1)
	case "shift+tab", "up":
		return e.setFocus(e.focus - 1)
	}
	var cmd tea.Cmd
	switch e.focus {
	case fieldDepth:
		e.depth, cmd = e.depth.Update(msg)
	case fieldWidth:
		e.width, cmd = e.width.Update(msg)
	case fieldExcavation:
		switch msg.String() {
		case " ", "right":
			e.exc = e.exc.Next()
		case "left":
			e.exc = e.exc.Prev()
		}
	case fieldRoad:
		switch msg.String() {
		case " ", "right":
			e.road = e.road.Next()
		case "left":
			e.road = e.road.Prev()
		}
	}
	return cmd
}

func (e editor) view() string {
	values := [fieldCount]string{e.depth.View(), e.width.View(), "‹ " + string(e.exc) + " ›", "‹ " + string(e.road) + " ›"}
	rows := []string{titleStyle.Render("Line " + e.id)}
	for i, name := range fieldNames {
		label := dimStyle.Render(padLabel(name))
		if i == e.focus {
			label = focusStyle.Render(padLabel(name))
		}
		rows = append(rows, label+values[i])
	}
	rows = append(rows, "", dimStyle.Render("tab next  space cycle  enter save  esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func padLabel(s string) string { return s + strings.Repeat(" ", max(1, 12-len(s))) }
