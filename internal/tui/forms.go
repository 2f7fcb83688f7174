package tui

import (
	"path/filepath"
	"strings"
	"time"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"trenchmap/internal/export"
)

// savePrompt asks for a file name; tab cycles the format and rewrites the
// extension.
type savePrompt struct {
	format int
	input  textinput.Model
}

func newSavePrompt() savePrompt {
	ti := textinput.New()
	ti.Prompt = "file: "
	ti.CharLimit = 0
	ti.Width = 48
	return savePrompt{input: ti}
}

func (s *savePrompt) open(dir string, now time.Time) tea.Cmd {
	s.input.SetValue(filepath.Join(dir, export.DefaultName(export.Formats[s.format], now)))
	s.input.CursorEnd()
	return s.input.Focus()
}

func (s *savePrompt) cycle() {
	s.format = (s.format + 1) % len(export.Formats)
	path := s.input.Value()
	path = strings.TrimSuffix(path, filepath.Ext(path)) + "." + string(export.Formats[s.format])
	s.input.SetValue(path)
	s.input.CursorEnd()
}

func (s savePrompt) path() string { return strings.TrimSpace(s.input.Value()) }

func (s savePrompt) view() string {
	var formats []string
	for i, f := range export.Formats {
		if i == s.format {
			formats = append(formats, focusStyle.Render(string(f)))
		} else {
			formats = append(formats, dimStyle.Render(string(f)))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Save drawing"),
		strings.Join(formats, " "),
		s.input.View(),
		"",
		dimStyle.Render("tab format  enter save  esc cancel"),
	)
}

// workOrderForm edits the fields attached to every export.
type workOrderForm struct {
	no    textinput.Model
	typ   textinput.Model
	focus int
}

func newWorkOrderForm() workOrderForm {
	no := textinput.New()
	no.Prompt = "Work Order No: "
	typ := textinput.New()
	typ.Prompt = "Work Type:     "
	return workOrderForm{no: no, typ: typ}
}

func (f *workOrderForm) open(no, typ string) tea.Cmd {
	f.no.SetValue(no)
	f.typ.SetValue(typ)
	f.focus = 0
	f.typ.Blur()
	return f.no.Focus()
}

func (f *workOrderForm) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		f.focus = 1 - f.focus
		if f.focus == 0 {
			f.typ.Blur()
			return f.no.Focus()
		}
		f.no.Blur()
		return f.typ.Focus()
	}
	var cmd tea.Cmd
	if f.focus == 0 {
		f.no, cmd = f.no.Update(msg)
	} else {
		f.typ, cmd = f.typ.Update(msg)
	}
	return cmd
}

func (f workOrderForm) values() (string, string) {
	return strings.TrimSpace(f.no.Value()), strings.TrimSpace(f.typ.Value())
}

func (f workOrderForm) view() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Work order"),
		f.no.View(),
		f.typ.View(),
		"",
		dimStyle.Render("tab switch  enter apply  esc cancel"),
	)
}
