package tui

import (
	"fmt"
	"strings"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"trenchmap/internal/geom"
	"trenchmap/internal/gps"
	"trenchmap/internal/router"
)

const (
	panStep    = 8 // micro-pixels per arrow press
	zoomFactor = 1.25
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.syncSize()
		return m, nil
	case gpsMsg:
		return m.handleGPS(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg), nil
	}
	// Pass other messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// syncSize matches the projection to the map area in micro-pixels.
func (m *Model) syncSize() {
	lay := m.layout()
	m.r.Projection().Resize(float64(lay.mapW*2), float64(lay.mapH*4))
	m.cache.invalidate()
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, lay.contentH-2)
	}
}

func (m Model) handleGPS(msg gpsMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		m.events = nil
		if st, _ := m.r.GPSStatus(); st == router.GPSActive || st == router.GPSWaiting {
			m.r.ApplySourceError(fmt.Errorf("position stream closed: %w", gps.ErrSourceUnavailable))
		}
		return m, nil
	}
	if msg.ev.Err != nil {
		m.r.ApplySourceError(msg.ev.Err)
	} else {
		m.r.ApplyFix(msg.ev.Fix)
	}
	return m, waitForGPS(m.events)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.panel {
	case panelPaste:
		return m.pasteKey(msg)
	case panelSave:
		return m.saveKey(msg)
	case panelWorkOrder:
		return m.workOrderKey(msg)
	case panelEdit:
		return m.editKey(msg)
	case panelTable:
		return m.tableKey(msg)
	}

	// If list is visible, it owns navigation and filtering
	if m.showSidebar {
		if m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "enter":
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
			return m, nil
		case "up", "down", "pgup", "pgdown", "/":
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
	}

	step := m.rotateStep
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "d":
		m.setMode(router.ModeDraw)
	case "s":
		m.setMode(router.ModeSelect)
	case "r":
		m.setMode(router.ModeRotate)
	case "m":
		m.setMode(m.r.Mode().Next())
	case "esc":
		m.r.SetMode(m.r.Mode())
		m.setStatus("cleared")
	case "g":
		if err := m.r.CaptureStart(); err != nil {
			m.setError("gps start", err)
		} else {
			fix, _ := m.r.Fix()
			m.setStatus(fmt.Sprintf("gps start at %s (±%.1f m); press e at the end point", fix.Point(), fix.AccuracyMeters))
		}
	case "e":
		l, err := m.r.CaptureEnd()
		if err != nil {
			m.setError("gps end", err)
		} else {
			m.lineAdded(l.ID, l.Distance)
		}
	case "x", "delete", "backspace":
		id, ok := m.r.Selection().Selected()
		if !ok {
			m.setStatus("nothing selected")
			break
		}
		if err := m.r.DeleteSelected(); err != nil {
			m.setError("delete", err)
		} else {
			m.refreshLinesTable()
			m.setStatus("deleted " + id)
		}
	case "a":
		m.refreshLinesTable()
		m.panel = panelTable
		m.tbl.Focus()
	case "p":
		m.panel = panelPaste
		m.ta.SetValue("")
		m.setStatus("paste mode")
		return m, m.ta.Focus()
	case "w":
		m.panel = panelSave
		return m, m.save.open(m.exportDir, time.Now())
	case "o":
		m.panel = panelWorkOrder
		return m, m.form.open(m.r.WorkOrder())
	case "b":
		if m.basemap == nil {
			m.setStatus("no basemap loaded")
			break
		}
		m.showBasemap = !m.showBasemap
		m.setStatus(fmt.Sprintf("basemap: %v", m.showBasemap))
	case "f":
		if m.r.FitToLines() {
			m.cache.invalidate()
			m.setStatus("fit to lines")
		} else {
			m.setStatus("no lines to fit")
		}
	case "+", "=":
		m.zoom(zoomFactor)
	case "-", "_":
		m.zoom(1 / zoomFactor)
	case "[":
		m.r.RotateBy(-step)
		m.setStatus(fmt.Sprintf("rotation: %.0f°", m.r.Transform().Rotation()))
	case "]":
		m.r.RotateBy(step)
		m.setStatus(fmt.Sprintf("rotation: %.0f°", m.r.Transform().Rotation()))
	case "0":
		m.r.Transform().SetRotation(0)
		m.setStatus("rotation reset")
	case "up":
		m.pan(geom.Vec{Y: -panStep})
	case "down":
		m.pan(geom.Vec{Y: panStep})
	case "left":
		m.pan(geom.Vec{X: -panStep})
	case "right":
		m.pan(geom.Vec{X: panStep})
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
		}
		m.syncSize()
	case "h":
		m.helpVisible = !m.helpVisible
	}
	return m, nil
}

func (m *Model) setMode(mode router.Mode) {
	m.r.SetMode(mode)
	m.hover.onHandle = false
	m.setStatus("mode: " + mode.String())
}

func (m *Model) zoom(f float64) {
	m.r.Zoom(f)
	m.cache.invalidate()
	m.setStatus(fmt.Sprintf("scale: %.2f m/px", m.r.Projection().MetersPerPixel()))
}

// pan shifts the view by a visual displacement; up always means up on
// screen, whatever the rotation.
func (m *Model) pan(d geom.Vec) {
	if !m.r.Pan(d) {
		m.setStatus("pan locked while dragging")
		return
	}
	m.cache.invalidate()
}

func (m *Model) lineAdded(id string, d float64) {
	m.refreshLinesTable()
	m.setStatus(fmt.Sprintf("added %s  %s", id, formatMeters(d)))
}

func (m Model) pasteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.panel = panelMap
		m.ta.Blur()
		m.setStatus("paste cancelled")
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.setStatus("paste: empty")
			return m, nil
		}
		lines, err := m.r.PasteWKT(w)
		if err != nil {
			m.setError("wkt error", err)
			return m, nil
		}
		m.panel = panelMap
		m.ta.Blur()
		m.r.FitToLines()
		m.cache.invalidate()
		m.refreshLinesTable()
		m.setStatus(fmt.Sprintf("pasted %d lines", len(lines)))
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m Model) saveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.panel = panelMap
		m.setStatus("save cancelled")
		return m, nil
	case "tab":
		m.save.cycle()
		return m, nil
	case "enter":
		p := m.save.path()
		if p == "" {
			m.setStatus("save: empty file name")
			return m, nil
		}
		m.panel = panelMap
		m.saveTo(p)
		return m, nil
	}
	var cmd tea.Cmd
	m.save.input, cmd = m.save.input.Update(msg)
	return m, cmd
}

func (m Model) workOrderKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.panel = panelMap
		return m, nil
	case "enter":
		no, typ := m.form.values()
		m.r.SetWorkOrder(no, typ)
		m.panel = panelMap
		m.setStatus(fmt.Sprintf("work order: %s  %s", no, typ))
		return m, nil
	}
	return m, m.form.update(msg)
}

func (m Model) tableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "a", "q":
		m.panel = panelMap
		m.tbl.Blur()
		return m, nil
	case "enter", "e":
		id, ok := m.tableLine()
		if !ok {
			return m, nil
		}
		l, _ := m.r.Store().Get(id)
		m.panel = panelEdit
		return m, m.editor.open(l)
	case "x", "delete", "backspace":
		id, ok := m.tableLine()
		if !ok {
			return m, nil
		}
		if err := m.r.Delete(id); err != nil {
			m.setError("delete", err)
			return m, nil
		}
		m.refreshLinesTable()
		m.setStatus("deleted " + id)
		return m, nil
	}
	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	if id, ok := m.tableLine(); ok {
		_ = m.r.Selection().Select(id)
	}
	return m, cmd
}

func (m Model) editKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.panel = panelTable
		return m, nil
	case "enter":
		if err := m.r.SetAttributes(m.editor.id, m.editor.attributes()); err != nil {
			m.setError("attributes", err)
			return m, nil
		}
		m.refreshLinesTable()
		m.panel = panelTable
		m.setStatus("updated " + m.editor.id)
		return m, nil
	}
	return m, m.editor.update(msg)
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.panel != panelMap {
		return m
	}
	lay := m.layout()
	cx, cy := msg.X-lay.mapX, msg.Y-lay.mapY
	inside := cx >= 0 && cy >= 0 && cx < lay.mapW && cy < lay.mapH
	p := microOf(cx, cy)

	switch msg.Action {
	case tea.MouseActionPress:
		if !inside {
			return m
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.zoom(zoomFactor)
		case tea.MouseButtonWheelDown:
			m.zoom(1 / zoomFactor)
		case tea.MouseButtonLeft:
			m.r.Press(p, router.Modifiers{Alt: msg.Alt, Ctrl: msg.Ctrl, Shift: msg.Shift})
			m.press = pressState{active: true, cellX: cx, cellY: cy, gesture: m.r.Gesture() != router.GestureNone}
		}
	case tea.MouseActionMotion:
		if m.r.Gesture() != router.GestureNone {
			if inside {
				m.press.moved = true
				m.r.Move(p)
				m.gestureStatus()
			} else {
				m.r.Leave()
				m.press.active = false
				m.setStatus("gesture cancelled")
			}
		}
		m.updateHover(inside, cx, cy)
	case tea.MouseActionRelease:
		if !m.press.active {
			return m
		}
		press := m.press
		m.press = pressState{}
		if press.gesture {
			m.r.Release(p)
			if press.moved {
				m.refreshLinesTable()
				return m
			}
		}
		// a press that never moved is a click, even on a drag handle
		if inside && cx == press.cellX && cy == press.cellY {
			m.click(p)
		}
	}
	return m
}

func (m *Model) gestureStatus() {
	switch m.r.Gesture() {
	case router.GestureRotating:
		m.setStatus(fmt.Sprintf("rotation: %.0f°", m.r.Transform().Rotation()))
	case router.GestureDragging:
		if id, ok := m.r.Selection().Selected(); ok {
			l, _ := m.r.Store().Get(id)
			m.setStatus(fmt.Sprintf("dragging %s  %s", id, formatMeters(l.Distance)))
		}
	}
}

func (m *Model) click(p geom.Vec) {
	l, err := m.r.Click(p)
	if err != nil {
		m.setError(m.r.Mode().String()+" error", err)
		return
	}
	switch m.r.Mode() {
	case router.ModeDraw:
		if l.ID != "" {
			m.lineAdded(l.ID, l.Distance)
		} else if _, _, ok := m.r.Pending(); ok {
			m.setStatus("start point set; click the end point")
		}
	case router.ModeSelect:
		if l.ID != "" {
			m.setStatus(fmt.Sprintf("selected %s  %s  (drag an endpoint to move it, x to delete)", l.ID, formatMeters(l.Distance)))
		} else {
			m.setStatus("selection cleared")
		}
	case router.ModeRotate:
		if mod := m.r.Options().RotateModifier; mod != router.ModifierNone {
			m.setStatus("hold " + string(mod) + " and drag to rotate")
		}
	}
}

// updateHover tracks the pointer for the footer coordinates and marks a
// draggable endpoint of the selected line.
func (m *Model) updateHover(inside bool, cx, cy int) {
	m.hover = hoverState{inside: inside, cellX: cx, cellY: cy}
	if !inside {
		return
	}
	p := microOf(cx, cy)
	m.hover.geo = m.r.PointerGeo(p)
	id, ok := m.r.Selection().Selected()
	if !ok || m.r.Mode() != router.ModeSelect {
		return
	}
	which, hit := m.r.Store().HitEndpoint(id, m.hover.geo, m.r.Options().HandleRadiusPx, m.r.Projection())
	if !hit {
		return
	}
	l, _ := m.r.Store().Get(id)
	proj := m.r.Projection()
	v := m.r.Transform().ToVisualPoint(proj.GeoToScreen(l.Point(which)), proj.Center())
	m.hover.onHandle = true
	m.hover.cellX, m.hover.cellY = cellOf(v)
}
