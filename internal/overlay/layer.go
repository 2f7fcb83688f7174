// Package overlay keeps the visual primitives placed by the annotation
// engine. It is the in-memory half of the mapping backend: the terminal
// renderer paints what a Layer holds.
package overlay

import (
	"trenchmap/internal/annot"
	"trenchmap/internal/geom"
)

// Kind tells primitives apart.
type Kind int

const (
	KindPolyline Kind = iota
	KindMarker
	KindLabel
)

// Primitive is one drawable element at geographic coordinates.
type Primitive struct {
	Handle annot.Handle
	Kind   Kind
	Points []geom.GeoPoint // polyline: two points; marker/label: one
	Style  annot.Style
	Marker annot.MarkerKind
	Text   string
}

// Layer implements annot.Overlay by storing primitives in insertion order.
type Layer struct {
	next  annot.Handle
	items map[annot.Handle]*Primitive
	order []annot.Handle

	removed int
}

// NewLayer returns an empty layer.
func NewLayer() *Layer {
	return &Layer{items: make(map[annot.Handle]*Primitive)}
}

func (l *Layer) add(p *Primitive) annot.Handle {
	l.next++
	p.Handle = l.next
	l.items[p.Handle] = p
	l.order = append(l.order, p.Handle)
	return p.Handle
}

func (l *Layer) AddPolyline(a, b geom.GeoPoint, style annot.Style) annot.Handle {
	return l.add(&Primitive{Kind: KindPolyline, Points: []geom.GeoPoint{a, b}, Style: style})
}

func (l *Layer) AddMarker(p geom.GeoPoint, kind annot.MarkerKind) annot.Handle {
	return l.add(&Primitive{Kind: KindMarker, Points: []geom.GeoPoint{p}, Marker: kind})
}

func (l *Layer) AddLabel(p geom.GeoPoint, text string) annot.Handle {
	return l.add(&Primitive{Kind: KindLabel, Points: []geom.GeoPoint{p}, Text: text})
}

func (l *Layer) MovePolyline(h annot.Handle, a, b geom.GeoPoint) {
	if p, ok := l.items[h]; ok && p.Kind == KindPolyline {
		p.Points = []geom.GeoPoint{a, b}
	}
}

func (l *Layer) MoveMarker(h annot.Handle, pt geom.GeoPoint) {
	if p, ok := l.items[h]; ok && p.Kind == KindMarker {
		p.Points = []geom.GeoPoint{pt}
	}
}

func (l *Layer) UpdateLabel(h annot.Handle, pt geom.GeoPoint, text string) {
	if p, ok := l.items[h]; ok && p.Kind == KindLabel {
		p.Points = []geom.GeoPoint{pt}
		p.Text = text
	}
}

func (l *Layer) SetStyle(h annot.Handle, style annot.Style) {
	if p, ok := l.items[h]; ok {
		p.Style = style
	}
}

// Remove drops a primitive. Unknown handles are ignored.
func (l *Layer) Remove(h annot.Handle) {
	if _, ok := l.items[h]; !ok {
		return
	}
	delete(l.items, h)
	for i, o := range l.order {
		if o == h {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	l.removed++
}

// Get returns a copy of the primitive for h.
func (l *Layer) Get(h annot.Handle) (Primitive, bool) {
	p, ok := l.items[h]
	if !ok {
		return Primitive{}, false
	}
	return *p, true
}

// Each calls fn for every primitive in insertion order.
func (l *Layer) Each(fn func(p Primitive)) {
	for _, h := range l.order {
		fn(*l.items[h])
	}
}

// Len returns the number of live primitives.
func (l *Layer) Len() int { return len(l.order) }

// Count returns the number of live primitives of kind k.
func (l *Layer) Count(k Kind) int {
	n := 0
	for _, h := range l.order {
		if l.items[h].Kind == k {
			n++
		}
	}
	return n
}

// Removed returns how many primitives have been removed over the layer's life.
func (l *Layer) Removed() int { return l.removed }
