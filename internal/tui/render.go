package tui

import (
	"strings"

	"trenchmap/internal/annot"
	"trenchmap/internal/geom"
	"trenchmap/internal/overlay"
)

type cell struct {
	r rune
	k cellKind
}

// canvas is the map area as styled cells.
type canvas struct {
	w, h  int
	cells [][]cell
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{r: ' '}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) set(x, y int, r rune, k cellKind) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y][x] = cell{r: r, k: k}
}

func (c *canvas) text(x, y int, s string, k cellKind) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, k)
	}
}

// compose paints braille layers into the canvas; later layers win the
// colour of a shared cell but all dots are kept.
func (c *canvas) compose(layers []*brailleBuf, kinds []cellKind) {
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			var mask uint8
			kind := kindEmpty
			for i, l := range layers {
				if bits := l.mask(x, y); bits != 0 {
					mask |= bits
					kind = kinds[i]
				}
			}
			if mask != 0 {
				c.cells[y][x] = cell{r: rune(0x2800 + int(mask)), k: kind}
			}
		}
	}
}

// String renders rows, emitting one style run per stretch of equal kind.
func (c *canvas) String() string {
	var out strings.Builder
	for y, row := range c.cells {
		if y > 0 {
			out.WriteByte('\n')
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].k == row[start].k {
				continue
			}
			var run strings.Builder
			for _, cl := range row[start:x] {
				run.WriteRune(cl.r)
			}
			if st, ok := cellStyles[row[start].k]; ok {
				out.WriteString(st.Render(run.String()))
			} else {
				out.WriteString(run.String())
			}
			start = x
		}
	}
	return out.String()
}

var markerGlyphs = map[annot.MarkerKind]struct {
	r rune
	k cellKind
}{
	annot.MarkerStart:    {'●', kindStart},
	annot.MarkerEnd:      {'◉', kindEnd},
	annot.MarkerPending:  {'◌', kindPending},
	annot.MarkerPosition: {'✚', kindPosition},
}

// renderMap draws the w x h cell map. Basemap and polylines are rotated
// with the view; markers and labels are placed at their rotated positions
// but always drawn upright.
func (m Model) renderMap(w, h int) string {
	proj := m.r.Projection()
	tr := m.r.Transform()
	center := proj.Center()
	visual := func(g geom.GeoPoint) geom.Vec {
		return tr.ToVisualPoint(proj.GeoToScreen(g), center)
	}

	base := newBrailleBuf(w, h)
	lines := newBrailleBuf(w, h)
	selected := newBrailleBuf(w, h)

	if m.showBasemap {
		for _, path := range m.cache.basemapPaths(m.basemap, visual) {
			for i := 1; i < len(path); i++ {
				base.drawSegment(path[i-1].X, path[i-1].Y, path[i].X, path[i].Y)
			}
		}
		for _, p := range m.cache.basemapPoints(m.basemap, visual) {
			base.setPixel(int(p.X), int(p.Y))
		}
	}

	m.layer.Each(func(p overlay.Primitive) {
		if p.Kind != overlay.KindPolyline {
			return
		}
		buf := lines
		if p.Style == annot.StyleSelected {
			buf = selected
		}
		a, b := visual(p.Points[0]), visual(p.Points[1])
		buf.drawSegment(a.X, a.Y, b.X, b.Y)
	})

	cv := newCanvas(w, h)
	cv.compose([]*brailleBuf{base, lines, selected}, []cellKind{kindBasemap, kindLine, kindSelected})

	// labels first so endpoint markers stay visible on short lines
	m.layer.Each(func(p overlay.Primitive) {
		if p.Kind != overlay.KindLabel {
			return
		}
		cx, cy := cellOf(visual(p.Points[0]))
		cv.text(cx+1, cy, " "+p.Text+" ", kindLabel)
	})
	m.layer.Each(func(p overlay.Primitive) {
		if p.Kind != overlay.KindMarker {
			return
		}
		g := markerGlyphs[p.Marker]
		cx, cy := cellOf(visual(p.Points[0]))
		cv.set(cx, cy, g.r, g.k)
	})

	if m.hover.onHandle {
		cv.set(m.hover.cellX, m.hover.cellY, '◯', kindHover)
	}
	return cv.String()
}
