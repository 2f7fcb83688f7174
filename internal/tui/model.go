// Package tui is the terminal front end: a rotatable braille map with the
// drawn lines, a lines table, and prompts for attributes, WKT paste,
// saving and loading.
package tui

import (
	"fmt"
	"log/slog"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"trenchmap/internal/annot"
	"trenchmap/internal/basemap"
	"trenchmap/internal/geom"
	"trenchmap/internal/gps"
	"trenchmap/internal/overlay"
	"trenchmap/internal/router"
	"trenchmap/internal/selection"
	"trenchmap/internal/view"
)

// Options configure a new model.
type Options struct {
	Center         geom.GeoPoint
	MetersPerPixel float64
	Interaction    router.Options
	RotateStepDeg  float64
	ExportDir      string
	WorkOrderNo    string
	WorkType       string
	Basemap        *basemap.Layer
	// GPS delivers position events; nil when no source is running.
	GPS <-chan gps.Event
	// GPSErr is the error from subscribing to the source, if any.
	GPSErr error
	Log    *slog.Logger
}

type panel int

const (
	panelMap panel = iota
	panelTable
	panelEdit
	panelPaste
	panelSave
	panelWorkOrder
)

type pressState struct {
	active       bool
	cellX, cellY int
	gesture      bool
	moved        bool
}

type hoverState struct {
	inside       bool
	cellX, cellY int
	geo          geom.GeoPoint
	onHandle     bool
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	status    string
	statusErr bool

	r     *router.Router
	layer *overlay.Layer
	log   *slog.Logger

	rotateStep float64
	exportDir  string

	basemap     *basemap.Layer
	showBasemap bool
	cache       *mapCache

	events <-chan gps.Event

	// File explorer
	cwd string
	l   list.Model

	panel  panel
	ta     textarea.Model
	tbl    table.Model
	editor editor
	save   savePrompt
	form   workOrderForm

	press pressState
	hover hoverState
}

// New builds the session: overlay layer, line store, selection, view
// transform, projection and router.
func New(opts Options) Model {
	log := opts.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.RotateStepDeg <= 0 {
		opts.RotateStepDeg = 15
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	center := opts.Center
	if !center.Valid() || center == (geom.GeoPoint{}) {
		center = geom.GeoPoint{Lat: 24.4539, Lng: 39.5773}
	}

	layer := overlay.NewLayer()
	store := annot.NewStore(layer, log)
	sel := selection.New(store, log)
	tr := view.NewTransform()
	proj := view.NewProjection(center, opts.MetersPerPixel, 160, 96)
	r := router.New(store, sel, tr, proj, layer, opts.Interaction, log)
	r.SetWorkOrder(opts.WorkOrderNo, opts.WorkType)

	cache := &mapCache{}
	tr.OnChange(func(deg float64) { cache.invalidate() })

	m := Model{
		helpVisible: true,
		status:      "trenchmap ready",
		r:           r,
		layer:       layer,
		log:         log,
		rotateStep:  opts.RotateStepDeg,
		exportDir:   opts.ExportDir,
		basemap:     opts.Basemap,
		showBasemap: opts.Basemap != nil,
		cache:       cache,
		events:      opts.GPS,
	}
	if opts.GPSErr != nil {
		r.ApplySourceError(opts.GPSErr)
	}

	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (LINESTRING, MULTILINESTRING). Press Enter to add lines; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// lines table setup
	m.tbl = table.New(table.WithColumns(lineColumns), table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.editor = newEditor()
	m.save = newSavePrompt()
	m.form = newWorkOrderForm()
	m.refreshDir()
	return m
}

// NewWithPath opens a drawing (or a basemap) at launch.
func NewWithPath(opts Options, path string) Model {
	m := New(opts)
	m.loadPath(path)
	return m
}

// Router exposes the interaction session, mainly for tests and main.
func (m Model) Router() *router.Router { return m.r }

func (m Model) Init() tea.Cmd {
	if m.events == nil {
		return nil
	}
	return waitForGPS(m.events)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(prefix string, err error) {
	m.status = fmt.Sprintf("%s: %v", prefix, err)
	m.statusErr = true
	m.log.Debug("ui error", "op", prefix, "err", err)
}
