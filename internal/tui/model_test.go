package tui

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"trenchmap/internal/annot"
	"trenchmap/internal/geom"
	"trenchmap/internal/gps"
	"trenchmap/internal/router"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(Options{
		Center:         geom.GeoPoint{Lat: 24.4539, Lng: 39.5773},
		MetersPerPixel: 2,
		ExportDir:      t.TempDir(),
	})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(x, y int, action tea.MouseAction, alt bool) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Alt: alt, Action: action, Button: tea.MouseButtonLeft}
}

func click(t *testing.T, m Model, x, y int) Model {
	t.Helper()
	m = update(t, m, mouse(x, y, tea.MouseActionPress, false))
	return update(t, m, mouse(x, y, tea.MouseActionRelease, false))
}

func TestLayout_ProjectionMatchesMapArea(t *testing.T) {
	m := newTestModel(t)
	lay := m.layout()
	if lay.mapW != 99 || lay.mapH != 37 || lay.mapY != 1 {
		t.Fatalf("layout = %+v", lay)
	}
	w, h := m.Router().Projection().Size()
	if w != 198 || h != 148 {
		t.Errorf("projection size = %vx%v, want 198x148", w, h)
	}
}

func TestMouse_TwoClicksDrawLine(t *testing.T) {
	m := newTestModel(t)
	m = click(t, m, 20, 15)
	if _, _, ok := m.Router().Pending(); !ok {
		t.Fatal("first click did not set a pending point")
	}
	m = click(t, m, 40, 15)

	lines := m.Router().Store().Lines()
	if len(lines) != 1 || lines[0].ID != "A1" {
		t.Fatalf("lines = %+v", lines)
	}
	// 20 cells = 40 micro-pixels at 2 m/px
	if d := lines[0].Distance; math.Abs(d-80) > 1 {
		t.Errorf("distance = %.2f, want ~80", d)
	}
	if !strings.HasPrefix(m.status, "added A1") {
		t.Errorf("status = %q", m.status)
	}
	out := m.View()
	if !strings.Contains(out, fmt.Sprintf("%.2f m", lines[0].Distance)) {
		t.Errorf("view missing distance label:\n%s", out)
	}
	if !strings.Contains(out, "lines 1") {
		t.Errorf("header missing line count")
	}
}

func TestMouse_DragIsNotAClick(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, mouse(20, 15, tea.MouseActionPress, false))
	m = update(t, m, mouse(25, 15, tea.MouseActionRelease, false))
	if _, _, ok := m.Router().Pending(); ok {
		t.Error("press and release on different cells set a point")
	}
}

func TestSelectAndDelete(t *testing.T) {
	m := newTestModel(t)
	m = click(t, m, 20, 15)
	m = click(t, m, 40, 15)
	m = update(t, m, key("s"))
	if m.Router().Mode() != router.ModeSelect {
		t.Fatalf("mode = %v", m.Router().Mode())
	}
	m = click(t, m, 30, 15)
	if id, ok := m.Router().Selection().Selected(); !ok || id != "A1" {
		t.Fatalf("selected = %q %v", id, ok)
	}
	m = update(t, m, key("x"))
	if n := m.Router().Store().Len(); n != 0 {
		t.Errorf("lines after delete = %d", n)
	}
	if _, ok := m.Router().Selection().Selected(); ok {
		t.Error("selection survived delete")
	}
}

func TestRotateGesture(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("r"))

	// no modifier: nothing rotates
	m = update(t, m, mouse(70, 19, tea.MouseActionPress, false))
	m = update(t, m, mouse(49, 31, tea.MouseActionMotion, false))
	m = update(t, m, mouse(49, 31, tea.MouseActionRelease, false))
	if r := m.Router().Transform().Rotation(); r != 0 {
		t.Fatalf("rotated without modifier: %v", r)
	}

	m = update(t, m, mouse(70, 19, tea.MouseActionPress, true))
	if m.Router().Gesture() != router.GestureRotating {
		t.Fatal("alt press did not start rotation")
	}
	m = update(t, m, mouse(49, 31, tea.MouseActionMotion, true))
	m = update(t, m, mouse(49, 31, tea.MouseActionRelease, true))
	if m.Router().Gesture() != router.GestureNone {
		t.Error("gesture still active after release")
	}
	if r := m.Router().Transform().Rotation(); r == 0 {
		t.Error("rotation unchanged after drag")
	}
	if !strings.Contains(m.View(), "rot ") {
		t.Error("header missing rotation")
	}
}

func TestRotateThenSelectPaintedLine(t *testing.T) {
	m := newTestModel(t)
	m = click(t, m, 20, 15)
	m = click(t, m, 40, 15)

	m = update(t, m, key("r"))
	m = update(t, m, mouse(70, 19, tea.MouseActionPress, true))
	m = update(t, m, mouse(49, 31, tea.MouseActionMotion, true))
	m = update(t, m, mouse(49, 31, tea.MouseActionRelease, true))
	if r := m.Router().Transform().Rotation(); math.Abs(r-90) > 1e-9 {
		t.Fatalf("rotation after gesture = %v, want 90", r)
	}

	m = update(t, m, key("s"))
	l, _ := m.Router().Store().Get("A1")
	proj := m.Router().Projection()
	mid := m.Router().Transform().ToVisualPoint(proj.GeoToScreen(geom.Midpoint(l.Start, l.End)), proj.Center())
	cx, cy := cellOf(mid)
	lay := m.layout()
	m = click(t, m, cx+lay.mapX, cy+lay.mapY)
	if id, ok := m.Router().Selection().Selected(); !ok || id != "A1" {
		t.Fatalf("click on the rotated line at cell %d,%d selected %q %v", cx, cy, id, ok)
	}
}

func TestClickOnHandleDoesNotMoveEndpoint(t *testing.T) {
	m := newTestModel(t)
	m = click(t, m, 20, 15)
	m = click(t, m, 40, 15)
	m = click(t, m, 40, 15)
	m = click(t, m, 40, 25)
	a1, _ := m.Router().Store().Get("A1")
	a2, _ := m.Router().Store().Get("A2")
	if a1.End != a2.Start {
		t.Fatalf("lines do not share a vertex: %v %v", a1.End, a2.Start)
	}

	m = update(t, m, key("s"))
	m = click(t, m, 40, 20)
	if id, _ := m.Router().Selection().Selected(); id != "A2" {
		t.Fatalf("selected %q, want A2", id)
	}

	// the press lands on A2's start handle; without motion it is a click
	m = click(t, m, 40, 15)
	got, _ := m.Router().Store().Get("A2")
	if got.Start != a2.Start || got.Distance != a2.Distance {
		t.Fatalf("click on handle moved A2: %v -> %v", a2.Start, got.Start)
	}
	if id, _ := m.Router().Selection().Selected(); id != "A1" {
		t.Errorf("click on shared vertex selected %q, want A1", id)
	}
	if m.Router().Gesture() != router.GestureNone {
		t.Errorf("gesture left running: %v", m.Router().Gesture())
	}
}

func TestLoadNonDrawingJSONKeepsSession(t *testing.T) {
	m := newTestModel(t)
	m.Router().SetWorkOrder("WO-7", "Fiber")
	m = click(t, m, 20, 15)
	m = click(t, m, 40, 15)

	path := filepath.Join(t.TempDir(), "package.json")
	if err := os.WriteFile(path, []byte(`{"name":"package","version":"1.0"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	m.loadPath(path)
	if !m.statusErr {
		t.Errorf("status = %q, want an error", m.status)
	}
	if n := m.Router().Store().Len(); n != 1 {
		t.Errorf("lines after load = %d, want 1", n)
	}
	if no, typ := m.Router().WorkOrder(); no != "WO-7" || typ != "Fiber" {
		t.Errorf("work order = %q %q", no, typ)
	}
}

func TestKeys_ZoomAndRotateStep(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("+"))
	if mpp := m.Router().Projection().MetersPerPixel(); math.Abs(mpp-1.6) > 1e-9 {
		t.Errorf("mpp after zoom in = %v", mpp)
	}
	m = update(t, m, key("]"))
	if r := m.Router().Transform().Rotation(); r != 15 {
		t.Errorf("rotation = %v, want 15", r)
	}
	m = update(t, m, key("0"))
	if r := m.Router().Transform().Rotation(); r != 0 {
		t.Errorf("rotation after reset = %v", r)
	}
}

func TestGPSCapture(t *testing.T) {
	m := newTestModel(t)
	fix := func(lat, lng float64) gpsMsg {
		return gpsMsg{ev: gps.Event{Fix: gps.Fix{Lat: lat, Lng: lng, AccuracyMeters: 3}}, ok: true}
	}
	m = update(t, m, fix(24.4539, 39.5773))
	if st, _ := m.Router().GPSStatus(); st != router.GPSActive {
		t.Fatalf("status = %v", st)
	}
	m = update(t, m, key("g"))
	m = update(t, m, fix(24.4549, 39.5783))
	m = update(t, m, key("e"))
	if m.statusErr {
		t.Fatalf("capture failed: %s", m.status)
	}
	if n := m.Router().Store().Len(); n != 1 {
		t.Fatalf("lines = %d", n)
	}
}

func TestGPSUnavailable(t *testing.T) {
	m := New(Options{GPSErr: gps.ErrSourceUnavailable})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = update(t, m, key("g"))
	if !m.statusErr || !strings.HasPrefix(m.status, "gps start") {
		t.Errorf("status = %q err=%v", m.status, m.statusErr)
	}
	if !strings.Contains(m.View(), "gps unavailable") {
		t.Error("header does not show unavailable source")
	}
}

func TestTableEditAttributes(t *testing.T) {
	m := newTestModel(t)
	m = click(t, m, 20, 15)
	m = click(t, m, 40, 15)

	m = update(t, m, key("a"))
	if m.panel != panelTable || len(m.tbl.Rows()) != 1 {
		t.Fatalf("panel=%v rows=%d", m.panel, len(m.tbl.Rows()))
	}
	m = update(t, m, key("enter"))
	if m.panel != panelEdit || m.editor.id != "A1" {
		t.Fatalf("panel=%v editing %q", m.panel, m.editor.id)
	}
	m = update(t, m, key("1.5"))
	m = update(t, m, key("tab"))
	m = update(t, m, key("tab"))
	m = update(t, m, key(" "))
	m = update(t, m, key("enter"))
	if m.statusErr {
		t.Fatalf("edit failed: %s", m.status)
	}
	l, _ := m.Router().Store().Get("A1")
	if l.Depth != "1.5" {
		t.Errorf("depth = %q", l.Depth)
	}
	if want := annot.DefaultAttributes().ExcavationType.Next(); l.ExcavationType != want {
		t.Errorf("excavation = %q, want %q", l.ExcavationType, want)
	}
	if m.panel != panelTable {
		t.Errorf("panel after save = %v", m.panel)
	}
}

func TestEditorLeftCyclesBackward(t *testing.T) {
	m := newTestModel(t)
	m = click(t, m, 20, 15)
	m = click(t, m, 40, 15)
	m = update(t, m, key("a"))
	m = update(t, m, key("enter"))
	m = update(t, m, key("tab"))
	m = update(t, m, key("tab"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(t, m, key("tab"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = update(t, m, key("enter"))

	l, _ := m.Router().Store().Get("A1")
	def := annot.DefaultAttributes()
	if want := def.ExcavationType.Prev(); l.ExcavationType != want {
		t.Errorf("excavation = %q, want %q", l.ExcavationType, want)
	}
	if want := def.RoadType.Prev(); l.RoadType != want {
		t.Errorf("road = %q, want %q", l.RoadType, want)
	}
}

func TestTableEditRejectsBadDepth(t *testing.T) {
	m := newTestModel(t)
	m = click(t, m, 20, 15)
	m = click(t, m, 40, 15)
	m = update(t, m, key("a"))
	m = update(t, m, key("enter"))
	m = update(t, m, key("deep"))
	m = update(t, m, key("enter"))
	if !m.statusErr || m.panel != panelEdit {
		t.Errorf("status=%q panel=%v", m.status, m.panel)
	}
}

func TestPasteWKT(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("p"))
	if m.panel != panelPaste {
		t.Fatalf("panel = %v", m.panel)
	}
	m.ta.SetValue("LINESTRING (39.5773 24.4539, 39.5783 24.4549)")
	m = update(t, m, key("enter"))
	if m.statusErr || m.Router().Store().Len() != 1 {
		t.Errorf("status=%q lines=%d", m.status, m.Router().Store().Len())
	}
	if m.panel != panelMap {
		t.Errorf("panel = %v", m.panel)
	}
}

func TestSaveAndReload(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("o"))
	m.form.no.SetValue("WO-7")
	m.form.typ.SetValue("Water")
	m = update(t, m, key("enter"))
	m = click(t, m, 20, 15)
	m = click(t, m, 40, 15)

	path := filepath.Join(t.TempDir(), "drawing.json")
	m.saveTo(path)
	if m.statusErr {
		t.Fatalf("save: %s", m.status)
	}

	n := NewWithPath(Options{MetersPerPixel: 2}, path)
	if n.statusErr {
		t.Fatalf("load: %s", n.status)
	}
	if got := n.Router().Store().Len(); got != 1 {
		t.Fatalf("lines = %d", got)
	}
	if no, typ := n.Router().WorkOrder(); no != "WO-7" || typ != "Water" {
		t.Errorf("work order = %q %q", no, typ)
	}
	if id := n.Router().Store().NextID(); id != "A2" {
		t.Errorf("next id = %s", id)
	}
}

func TestSavePromptCyclesFormat(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, key("w"))
	if m.panel != panelSave || !strings.HasSuffix(m.save.path(), ".json") {
		t.Fatalf("panel=%v path=%q", m.panel, m.save.path())
	}
	m = update(t, m, key("tab"))
	if !strings.HasSuffix(m.save.path(), ".csv") {
		t.Errorf("path after tab = %q", m.save.path())
	}
}
