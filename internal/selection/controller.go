// Package selection tracks the selected line and the endpoint drag.
package selection

import (
	"errors"
	"fmt"
	"log/slog"

	"trenchmap/internal/annot"
	"trenchmap/internal/geom"
)

// State is the selection state.
type State int

const (
	None State = iota
	Selected
	Dragging
)

func (s State) String() string {
	switch s {
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	default:
		return "none"
	}
}

// ErrNotSelected is returned when a drag is requested without a selection,
// or a drag step arrives while no drag is active.
var ErrNotSelected = errors.New("no line selected")

// Controller holds at most one selected line and at most one drag.
type Controller struct {
	store    *annot.Store
	state    State
	lineID   string
	endpoint annot.Endpoint
	log      *slog.Logger
}

// New creates a controller and hooks it to store deletions so a deleted
// line is deselected before it disappears.
func New(store *annot.Store, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	c := &Controller{store: store, log: log}
	store.OnDelete(c.forget)
	return c
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Selected returns the selected line id.
func (c *Controller) Selected() (string, bool) {
	if c.state == None {
		return "", false
	}
	return c.lineID, true
}

// DragEndpoint returns the endpoint being dragged.
func (c *Controller) DragEndpoint() (annot.Endpoint, bool) {
	return c.endpoint, c.state == Dragging
}

// Select makes id the selected line, deselecting any previous one.
func (c *Controller) Select(id string) error {
	if _, ok := c.store.Get(id); !ok {
		return fmt.Errorf("select %s: %w", id, annot.ErrNotFound)
	}
	if c.state == Dragging {
		c.EndDrag()
	}
	if c.state == Selected && c.lineID == id {
		return nil
	}
	c.Clear()
	c.state = Selected
	c.lineID = id
	_ = c.store.SetStyle(id, annot.StyleSelected)
	c.log.Debug("line selected", "id", id)
	return nil
}

// Clear deselects, ending any drag first.
func (c *Controller) Clear() {
	if c.state == None {
		return
	}
	if c.state == Dragging {
		c.EndDrag()
	}
	_ = c.store.SetStyle(c.lineID, annot.StyleDefault)
	c.state = None
	c.lineID = ""
}

// BeginDrag starts moving one endpoint of the selected line.
func (c *Controller) BeginDrag(which annot.Endpoint) error {
	if c.state != Selected {
		return fmt.Errorf("begin drag: %w", ErrNotSelected)
	}
	c.state = Dragging
	c.endpoint = which
	c.log.Debug("drag started", "id", c.lineID, "endpoint", which.String())
	return nil
}

// DragTo writes the dragged endpoint. The store recomputes the distance and
// moves the polyline, marker and label.
func (c *Controller) DragTo(p geom.GeoPoint) error {
	if c.state != Dragging {
		return fmt.Errorf("drag: %w", ErrNotSelected)
	}
	return c.store.UpdateEndpoint(c.lineID, c.endpoint, p)
}

// EndDrag returns to the selected state. The endpoint was already written
// by the last DragTo.
func (c *Controller) EndDrag() {
	if c.state != Dragging {
		return
	}
	c.state = Selected
	c.log.Debug("drag ended", "id", c.lineID)
}

func (c *Controller) forget(id string) {
	if c.state != None && c.lineID == id {
		c.state = None
		c.lineID = ""
	}
}
