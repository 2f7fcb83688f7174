package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"trenchmap/internal/basemap"
	"trenchmap/internal/export"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.setError("read dir error", err)
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !basemap.Supported(name) {
			continue
		}
		items = append(items, fileItem{title: name, desc: strings.ToLower(filepath.Ext(name)), path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.l.SetItems(items)
	if len(items) == 0 {
		m.setStatus("no supported files in current directory")
	}
}

// loadPath opens a drawing (.json, or .geojson holding lines) or a basemap
// (.shp, .kml, .csv, .wkt, or GeoJSON without lines).
func (m *Model) loadPath(p string) {
	var (
		rec     export.Record
		recErr  error = export.ErrUnsupportedFormat
		drawing bool
	)
	if f, err := export.FormatOf(p); err == nil && f.Loadable() {
		rec, recErr = export.Load(p)
		drawing = f == export.FormatJSON
	}
	if recErr == nil && len(rec.Lines) > 0 {
		m.importRecord(p, rec)
		return
	}
	l, err := basemap.Load(p)
	if err != nil {
		switch {
		case recErr == nil:
			// an empty drawing
			m.importRecord(p, rec)
		case drawing:
			m.setError("load error", recErr)
		default:
			m.setError("load error", err)
		}
		return
	}
	m.basemap = l
	m.showBasemap = true
	m.cache.invalidate()
	if m.r.Store().Len() == 0 {
		m.r.Projection().Fit(l.Bounds)
	}
	m.setStatus(fmt.Sprintf("basemap: %s  paths=%d pts=%d", l.Name, len(l.Paths), len(l.Points)))
}

func (m *Model) importRecord(p string, rec export.Record) {
	if err := m.r.Import(rec); err != nil {
		m.setError("load error", err)
		return
	}
	m.r.FitToLines()
	m.cache.invalidate()
	m.refreshLinesTable()
	m.setStatus(fmt.Sprintf("loaded: %s  lines=%d  next=%s", filepath.Base(p), m.r.Store().Len(), m.r.Store().NextID()))
}

// saveTo writes the drawing in the format named by the path's extension.
func (m *Model) saveTo(p string) {
	if err := export.Save(p, m.r.Export()); err != nil {
		m.setError("save error", err)
		return
	}
	m.log.Info("drawing saved", "path", p, "lines", m.r.Store().Len())
	m.setStatus("saved: " + p)
	if filepath.Dir(p) == m.cwd {
		m.refreshDir()
	}
}
