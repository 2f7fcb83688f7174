package annot

import (
	"fmt"
	"log/slog"
	"math"

	"trenchmap/internal/geom"
)

// Store is the authoritative collection of lines, kept in creation order.
// It also owns the overlay primitives of every line.
type Store struct {
	entries  []*entry
	next     int
	overlay  Overlay
	onDelete []func(id string)
	log      *slog.Logger
}

// NewStore creates an empty store drawing through ov.
func NewStore(ov Overlay, log *slog.Logger) *Store {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Store{next: 1, overlay: ov, log: log}
}

// OnDelete registers fn to run before a line and its primitives are removed.
func (s *Store) OnDelete(fn func(id string)) {
	s.onDelete = append(s.onDelete, fn)
}

// Create adds a line from start to end with default attributes.
func (s *Store) Create(start, end geom.GeoPoint) (Line, error) {
	if !start.Valid() || !end.Valid() {
		return Line{}, fmt.Errorf("create line %v -> %v: point out of range: %w", start, end, ErrInvalidInput)
	}
	e := s.add(formatID(s.next), start, end, DefaultAttributes())
	s.next++
	s.log.Debug("line created", "id", e.ID, "distance", e.Distance)
	return e.Line, nil
}

func (s *Store) add(id string, start, end geom.GeoPoint, attrs Attributes) *entry {
	e := &entry{Line: Line{
		ID:         id,
		Start:      start,
		End:        end,
		Distance:   geom.Distance(start, end),
		Attributes: attrs,
	}}
	e.h = handles{
		polyline:    s.overlay.AddPolyline(start, end, StyleDefault),
		startMarker: s.overlay.AddMarker(start, MarkerStart),
		endMarker:   s.overlay.AddMarker(end, MarkerEnd),
		label:       s.overlay.AddLabel(geom.Midpoint(start, end), distanceLabel(e.Distance)),
	}
	s.entries = append(s.entries, e)
	return e
}

func (s *Store) find(id string) (int, *entry) {
	for i, e := range s.entries {
		if e.ID == id {
			return i, e
		}
	}
	return -1, nil
}

// Get returns a copy of the line with id.
func (s *Store) Get(id string) (Line, bool) {
	_, e := s.find(id)
	if e == nil {
		return Line{}, false
	}
	return e.Line, true
}

// Lines returns copies of every line in creation order.
func (s *Store) Lines() []Line {
	out := make([]Line, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Line
	}
	return out
}

// Len returns the number of lines.
func (s *Store) Len() int { return len(s.entries) }

// NextID returns the id the next Create will allocate.
func (s *Store) NextID() string { return formatID(s.next) }

// UpdateEndpoint moves one end of a line and recomputes its distance.
func (s *Store) UpdateEndpoint(id string, which Endpoint, p geom.GeoPoint) error {
	_, e := s.find(id)
	if e == nil {
		return fmt.Errorf("update %s: %w", id, ErrNotFound)
	}
	if !p.Valid() {
		return fmt.Errorf("update %s %s to %v: point out of range: %w", id, which, p, ErrInvalidInput)
	}
	if which == End {
		e.End = p
		s.overlay.MoveMarker(e.h.endMarker, p)
	} else {
		e.Start = p
		s.overlay.MoveMarker(e.h.startMarker, p)
	}
	e.Distance = geom.Distance(e.Start, e.End)
	s.overlay.MovePolyline(e.h.polyline, e.Start, e.End)
	s.overlay.UpdateLabel(e.h.label, geom.Midpoint(e.Start, e.End), distanceLabel(e.Distance))
	return nil
}

// SetAttributes replaces the editable fields of a line.
func (s *Store) SetAttributes(id string, attrs Attributes) error {
	_, e := s.find(id)
	if e == nil {
		return fmt.Errorf("set attributes %s: %w", id, ErrNotFound)
	}
	attrs = attrs.WithDefaults()
	if err := attrs.Validate(); err != nil {
		return fmt.Errorf("set attributes %s: %w", id, err)
	}
	e.Attributes = attrs
	return nil
}

// SetStyle restyles the polyline of a line.
func (s *Store) SetStyle(id string, style Style) error {
	_, e := s.find(id)
	if e == nil {
		return fmt.Errorf("style %s: %w", id, ErrNotFound)
	}
	s.overlay.SetStyle(e.h.polyline, style)
	return nil
}

// Delete removes a line and its primitives. Delete observers run first.
func (s *Store) Delete(id string) error {
	_, e := s.find(id)
	if e == nil {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	for _, fn := range s.onDelete {
		fn(id)
	}
	// an observer may have changed the slice
	i, e := s.find(id)
	if e == nil {
		return nil
	}
	s.removeHandles(e)
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	s.log.Debug("line deleted", "id", id)
	return nil
}

func (s *Store) removeHandles(e *entry) {
	s.overlay.Remove(e.h.polyline)
	s.overlay.Remove(e.h.startMarker)
	s.overlay.Remove(e.h.endMarker)
	s.overlay.Remove(e.h.label)
}

// FindNearest returns the first line, in creation order, whose on-screen
// segment passes within thresholdPx of p. p is a model-space coordinate and
// proj places endpoints on the same unrotated screen.
func (s *Store) FindNearest(p geom.GeoPoint, thresholdPx float64, proj geom.Projector) (Line, bool) {
	pv := proj.GeoToScreen(p)
	for _, e := range s.entries {
		a := proj.GeoToScreen(e.Start)
		b := proj.GeoToScreen(e.End)
		if geom.PointToSegmentDistance(pv, a, b) < thresholdPx {
			return e.Line, true
		}
	}
	return Line{}, false
}

// HitEndpoint reports which endpoint of line id lies within radiusPx of p,
// preferring the closer one.
func (s *Store) HitEndpoint(id string, p geom.GeoPoint, radiusPx float64, proj geom.Projector) (Endpoint, bool) {
	_, e := s.find(id)
	if e == nil {
		return Start, false
	}
	pv := proj.GeoToScreen(p)
	ds := dist(pv, proj.GeoToScreen(e.Start))
	de := dist(pv, proj.GeoToScreen(e.End))
	switch {
	case ds <= radiusPx && ds <= de:
		return Start, true
	case de <= radiusPx:
		return End, true
	}
	return Start, false
}

func dist(a, b geom.Vec) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

// ReplaceAll swaps the whole collection for drafts. Every draft is checked
// before anything changes, so a bad draft leaves the store untouched.
// Distances are always recomputed and draft ids are kept.
func (s *Store) ReplaceAll(drafts []Draft) error {
	prepared := make([]Draft, len(drafts))
	seen := make(map[string]bool, len(drafts))
	maxN := 0
	for i, d := range drafts {
		if !d.Start.Valid() || !d.End.Valid() {
			return fmt.Errorf("line %d: point out of range: %w", i+1, ErrInvalidInput)
		}
		d.Attributes = d.Attributes.WithDefaults()
		if err := d.Attributes.Validate(); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		if d.ID != "" {
			n, err := parseID(d.ID)
			if err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
			if seen[d.ID] {
				return fmt.Errorf("line %d: duplicate id %s: %w", i+1, d.ID, ErrInvalidInput)
			}
			seen[d.ID] = true
			maxN = max(maxN, n)
		}
		prepared[i] = d
	}

	for len(s.entries) > 0 {
		_ = s.Delete(s.entries[0].ID)
	}
	if maxN >= s.next {
		s.next = maxN + 1
	}
	for _, d := range prepared {
		id := d.ID
		if id == "" {
			id = formatID(s.next)
			s.next++
		}
		s.add(id, d.Start, d.End, d.Attributes)
	}
	s.log.Info("lines replaced", "count", len(prepared), "next", s.NextID())
	return nil
}
