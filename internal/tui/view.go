package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trenchmap/internal/router"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// layoutBox holds the screen geometry shared by View and the mouse handler.
type layoutBox struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() layoutBox {
	lay := layoutBox{
		contentW: max(10, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
		mapY:     headerHeight,
	}
	side := 0
	if m.showSidebar {
		// sidebar plus the one-column gap
		side = sidebarWidth + 1
	}
	lay.mapX = side
	lay.mapW = max(8, lay.contentW-side-1)
	lay.mapH = lay.contentH
	return lay
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()

	header := lipgloss.NewStyle().MaxWidth(lay.contentW).Render(m.renderHeader())

	var mapView string
	switch m.panel {
	case panelTable:
		mapView = m.placeBox(lay, m.tableView(lay))
	case panelEdit:
		mapView = m.placeBox(lay, m.editor.view())
	case panelSave:
		mapView = m.placeBox(lay, m.save.view())
	case panelWorkOrder:
		mapView = m.placeBox(lay, m.form.view())
	case panelPaste:
		m.ta.SetWidth(lay.mapW)
		m.ta.SetHeight(min(lay.mapH, 12))
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(m.renderMap(lay.mapW, lay.mapH))
	}

	body := mapView
	if m.showSidebar {
		sidebar := lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter(lay))
	return appStyle.Width(lay.contentW).Height(m.height).Render(ui)
}

func (m Model) placeBox(lay layoutBox, content string) string {
	box := boxStyle.Render(content)
	return lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) tableView(lay layoutBox) string {
	colW := 0
	for _, c := range m.tbl.Columns() {
		colW += c.Width + 2
	}
	m.tbl.SetWidth(min(lay.mapW-4, colW))
	m.tbl.SetHeight(max(3, min(lay.mapH-5, 20)))
	hint := dimStyle.Render("enter edit  x delete  esc back")
	if m.r.Store().Len() == 0 {
		hint = dimStyle.Render("no lines yet  esc back")
	}
	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Lines"), m.tbl.View(), hint)
}

func (m Model) renderHeader() string {
	parts := []string{
		titleStyle.Render(" trenchmap "),
		"mode: " + focusStyle.Render(m.r.Mode().String()),
		fmt.Sprintf("rot %.0f°", m.r.Transform().Rotation()),
		fmt.Sprintf("%.2f m/px", m.r.Projection().MetersPerPixel()),
		fmt.Sprintf("lines %d", m.r.Store().Len()),
	}
	if no, typ := m.r.WorkOrder(); no != "" || typ != "" {
		parts = append(parts, strings.TrimSpace(no+" "+typ))
	}
	parts = append(parts, m.gpsSummary())
	if _, origin, ok := m.r.Pending(); ok {
		parts = append(parts, "pending: "+origin.String())
	}
	return strings.Join(parts, dimStyle.Render(" │ "))
}

func (m Model) gpsSummary() string {
	st, _ := m.r.GPSStatus()
	switch st {
	case router.GPSActive:
		fix, _ := m.r.Fix()
		return gpsStyle.Render(fmt.Sprintf("gps ±%.1f m", fix.AccuracyMeters))
	case router.GPSError, router.GPSUnavailable:
		return errStyle.Render("gps " + st.String())
	}
	return dimStyle.Render("gps " + st.String())
}

func (m Model) renderFooter(lay layoutBox) string {
	status := dimStyle.Render(" " + m.status + " ")
	if m.statusErr {
		status = errStyle.Render(" " + m.status + " ")
	}
	coords := ""
	if m.hover.inside && m.panel == panelMap {
		coords = dimStyle.Render(fmt.Sprintf("  lat=%.6f lng=%.6f  ", m.hover.geo.Lat, m.hover.geo.Lng))
	}
	spacerW := max(0, lay.contentW-lipgloss.Width(status)-lipgloss.Width(coords))
	top := status + strings.Repeat(" ", spacerW) + coords
	// one row each; long lines are cut rather than wrapped
	clip := lipgloss.NewStyle().MaxWidth(lay.contentW)
	return lipgloss.JoinVertical(lipgloss.Left, clip.Render(top), clip.Render(m.renderHelp()))
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	rotate := "drag rotate"
	if mod := m.r.Options().RotateModifier; mod != router.ModifierNone {
		rotate = string(mod) + "+drag rotate"
	}
	keys := []string{
		"d/s/r mode",
		"click draw/select",
		rotate,
		"g/e gps",
		"x delete",
		"a lines",
		"p paste",
		"w save",
		"o work order",
		"↑↓←→ pan",
		"+/- zoom",
		"[ ] rotate",
		"f fit",
		"b basemap",
		"Tab files",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
