// Package router turns pointer, keyboard and GPS events into edits.
//
// Pointer positions arrive in visual screen space. Every position is mapped
// to model space through the view transform before the projection turns it
// into a coordinate, so drawing and picking stay correct at any rotation.
package router

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"

	"trenchmap/internal/annot"
	"trenchmap/internal/export"
	"trenchmap/internal/geom"
	"trenchmap/internal/gps"
	"trenchmap/internal/selection"
	"trenchmap/internal/view"
)

// ErrPreconditionNotMet is returned when an operation needs state that is
// not there yet, such as a GPS fix or a GPS-placed start point.
var ErrPreconditionNotMet = errors.New("precondition not met")

// Options tune hit testing and the rotation gesture.
type Options struct {
	HitThresholdPx float64
	HandleRadiusPx float64
	RotateModifier Modifier
}

// DefaultOptions returns the stock tuning.
func DefaultOptions() Options {
	return Options{HitThresholdPx: 10, HandleRadiusPx: 8, RotateModifier: ModifierAlt}
}

// Router owns the interaction session and routes events to the line store,
// the selection controller and the view transform.
type Router struct {
	store     *annot.Store
	sel       *selection.Controller
	transform *view.Transform
	proj      *view.Projection
	overlay   annot.Overlay
	opts      Options
	log       *slog.Logger

	mode    Mode
	gesture Gesture
	pending *pending
	// model-space offset from the pointer to the grabbed handle
	dragOffset geom.Vec

	fix       *gps.Fix
	status    GPSStatus
	gpsErr    error
	fixMarker annot.Handle

	workOrderNo string
	workType    string
}

// New wires a router. ov receives the pending and position markers; it is
// normally the overlay the store draws through.
func New(store *annot.Store, sel *selection.Controller, t *view.Transform, proj *view.Projection, ov annot.Overlay, opts Options, log *slog.Logger) *Router {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	def := DefaultOptions()
	if opts.HitThresholdPx <= 0 {
		opts.HitThresholdPx = def.HitThresholdPx
	}
	if opts.HandleRadiusPx <= 0 {
		opts.HandleRadiusPx = def.HandleRadiusPx
	}
	if !opts.RotateModifier.Valid() {
		opts.RotateModifier = def.RotateModifier
	}
	return &Router{
		store:     store,
		sel:       sel,
		transform: t,
		proj:      proj,
		overlay:   ov,
		opts:      opts,
		log:       log,
	}
}

// Mode returns the active mode.
func (r *Router) Mode() Mode { return r.mode }

// Gesture returns the pointer gesture in progress.
func (r *Router) Gesture() Gesture { return r.gesture }

func (r *Router) Store() *annot.Store               { return r.store }
func (r *Router) Selection() *selection.Controller { return r.sel }
func (r *Router) Transform() *view.Transform       { return r.transform }
func (r *Router) Projection() *view.Projection     { return r.proj }
func (r *Router) Options() Options                 { return r.opts }

// Pending returns the open start point, if any.
func (r *Router) Pending() (geom.GeoPoint, Origin, bool) {
	if r.pending == nil {
		return geom.GeoPoint{}, OriginClick, false
	}
	return r.pending.point, r.pending.origin, true
}

// Fix returns the last GPS fix.
func (r *Router) Fix() (gps.Fix, bool) {
	if r.fix == nil {
		return gps.Fix{}, false
	}
	return *r.fix, true
}

// GPSStatus returns the source status and the error that set it, if any.
func (r *Router) GPSStatus() (GPSStatus, error) { return r.status, r.gpsErr }

// WorkOrder returns the form fields attached to exports.
func (r *Router) WorkOrder() (no, workType string) { return r.workOrderNo, r.workType }

// SetWorkOrder replaces the form fields.
func (r *Router) SetWorkOrder(no, workType string) {
	r.workOrderNo = no
	r.workType = workType
}

// SetMode switches mode. The pending point and the selection are always
// cleared and any gesture ends, even when m is the current mode.
func (r *Router) SetMode(m Mode) {
	r.endGesture()
	r.clearPending()
	r.sel.Clear()
	if r.mode != m {
		r.log.Debug("mode changed", "from", r.mode.String(), "mode", m.String())
	}
	r.mode = m
}

// PointerGeo returns the coordinate under a visual pointer position.
func (r *Router) PointerGeo(p geom.Vec) geom.GeoPoint { return r.toGeo(p) }

func (r *Router) toGeo(p geom.Vec) geom.GeoPoint {
	model := r.transform.ToModelPoint(p, r.proj.Center())
	return r.proj.ScreenToGeo(model)
}

// Press handles a pointer button going down. In select mode it may start an
// endpoint drag; in rotate mode it may start a rotation.
func (r *Router) Press(p geom.Vec, mods Modifiers) {
	if r.gesture != GestureNone {
		return
	}
	switch r.mode {
	case ModeSelect:
		id, ok := r.sel.Selected()
		if !ok {
			return
		}
		which, hit := r.store.HitEndpoint(id, r.toGeo(p), r.opts.HandleRadiusPx, r.proj)
		if !hit {
			return
		}
		if err := r.sel.BeginDrag(which); err != nil {
			r.log.Debug("drag refused", "err", err)
			return
		}
		l, _ := r.store.Get(id)
		handle := r.proj.GeoToScreen(l.Point(which))
		r.dragOffset = handle.Sub(r.transform.ToModelPoint(p, r.proj.Center()))
		r.gesture = GestureDragging
	case ModeRotate:
		if !r.opts.RotateModifier.heldIn(mods) {
			return
		}
		if r.transform.BeginGesture(p, r.proj.Center()) {
			r.gesture = GestureRotating
		}
	}
}

// Move handles pointer motion while a gesture is active.
func (r *Router) Move(p geom.Vec) {
	switch r.gesture {
	case GestureDragging:
		model := r.transform.ToModelPoint(p, r.proj.Center()).Add(r.dragOffset)
		if err := r.sel.DragTo(r.proj.ScreenToGeo(model)); err != nil {
			r.log.Debug("drag step rejected", "err", err)
		}
	case GestureRotating:
		r.transform.UpdateGesture(p)
	}
}

// Release ends any gesture. A drag has already written every position it
// moved through, so nothing is written here.
func (r *Router) Release(geom.Vec) {
	r.endGesture()
}

// Leave ends any gesture when the pointer leaves the surface.
func (r *Router) Leave() {
	r.endGesture()
}

func (r *Router) endGesture() {
	switch r.gesture {
	case GestureDragging:
		r.sel.EndDrag()
		r.dragOffset = geom.Vec{}
	case GestureRotating:
		r.transform.EndGesture()
		r.log.Debug("rotation set", "deg", r.transform.Rotation())
	}
	r.gesture = GestureNone
}

// Click handles a press and release without movement. In draw mode the
// second click commits a line; in select mode it picks or clears.
func (r *Router) Click(p geom.Vec) (annot.Line, error) {
	if r.gesture != GestureNone {
		return annot.Line{}, nil
	}
	g := r.toGeo(p)
	switch r.mode {
	case ModeDraw:
		if r.pending == nil || r.pending.origin != OriginClick {
			r.setPending(g, OriginClick)
			return annot.Line{}, nil
		}
		return r.commit(g)
	case ModeSelect:
		if l, ok := r.store.FindNearest(g, r.opts.HitThresholdPx, r.proj); ok {
			return l, r.sel.Select(l.ID)
		}
		r.sel.Clear()
	}
	return annot.Line{}, nil
}

func (r *Router) commit(end geom.GeoPoint) (annot.Line, error) {
	l, err := r.store.Create(r.pending.point, end)
	if err != nil {
		return annot.Line{}, err
	}
	r.clearPending()
	r.log.Info("line added", "id", l.ID, "distance", l.Distance)
	return l, nil
}

func (r *Router) setPending(g geom.GeoPoint, o Origin) {
	r.clearPending()
	r.pending = &pending{point: g, origin: o, marker: r.overlay.AddMarker(g, annot.MarkerPending)}
}

func (r *Router) clearPending() {
	if r.pending == nil {
		return
	}
	r.overlay.Remove(r.pending.marker)
	r.pending = nil
}

// ApplyFix records a position report. The latest fix always wins.
func (r *Router) ApplyFix(f gps.Fix) {
	fix := f
	r.fix = &fix
	r.status = GPSActive
	r.gpsErr = nil
	if r.fixMarker == 0 {
		r.fixMarker = r.overlay.AddMarker(f.Point(), annot.MarkerPosition)
	} else {
		r.overlay.MoveMarker(r.fixMarker, f.Point())
	}
}

// ApplySourceError records a failing source. Capture stays blocked until a
// fresh fix arrives.
func (r *Router) ApplySourceError(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, gps.ErrSourceUnavailable) {
		r.status = GPSUnavailable
	} else {
		r.status = GPSError
	}
	r.gpsErr = err
	r.log.Warn("gps source failed", "status", r.status.String(), "err", err)
}

func (r *Router) checkFix(op string) (gps.Fix, error) {
	switch r.status {
	case GPSError, GPSUnavailable:
		return gps.Fix{}, fmt.Errorf("%s: gps %s: %w", op, r.status, gps.ErrSourceUnavailable)
	}
	if r.fix == nil {
		return gps.Fix{}, fmt.Errorf("%s: no gps fix yet: %w", op, ErrPreconditionNotMet)
	}
	return *r.fix, nil
}

// CaptureStart opens a pending start point at the current fix, replacing any
// other pending point.
func (r *Router) CaptureStart() error {
	fix, err := r.checkFix("capture start")
	if err != nil {
		return err
	}
	r.setPending(fix.Point(), OriginGPS)
	r.log.Info("capture started", "lat", fix.Lat, "lng", fix.Lng, "accuracy", fix.AccuracyMeters)
	return nil
}

// CaptureEnd commits a line from the GPS start point to the current fix.
func (r *Router) CaptureEnd() (annot.Line, error) {
	fix, err := r.checkFix("capture end")
	if err != nil {
		return annot.Line{}, err
	}
	if r.pending == nil || r.pending.origin != OriginGPS {
		return annot.Line{}, fmt.Errorf("capture end: no captured start point: %w", ErrPreconditionNotMet)
	}
	return r.commit(fix.Point())
}

// Delete removes a line. Unknown ids are a no-op.
func (r *Router) Delete(id string) error {
	err := r.store.Delete(id)
	if errors.Is(err, annot.ErrNotFound) {
		r.log.Debug("delete ignored", "id", id)
		return nil
	}
	return err
}

// DeleteSelected removes the selected line, if any.
func (r *Router) DeleteSelected() error {
	id, ok := r.sel.Selected()
	if !ok {
		return nil
	}
	r.endGesture()
	return r.Delete(id)
}

// SetAttributes edits a line's form fields.
func (r *Router) SetAttributes(id string, a annot.Attributes) error {
	return r.store.SetAttributes(id, a)
}

// PasteWKT adds one line per segment of a LINESTRING or MULTILINESTRING.
// Nothing is added if any point is out of range.
func (r *Router) PasteWKT(text string) ([]annot.Line, error) {
	parts, err := geom.ParseLineStrings(text)
	if err != nil {
		return nil, fmt.Errorf("paste: %v: %w", err, annot.ErrInvalidInput)
	}
	var segs [][2]geom.GeoPoint
	for _, part := range parts {
		for i := 1; i < len(part); i++ {
			a, b := part[i-1], part[i]
			if !a.Valid() || !b.Valid() {
				return nil, fmt.Errorf("paste: point out of range: %w", annot.ErrInvalidInput)
			}
			segs = append(segs, [2]geom.GeoPoint{a, b})
		}
	}
	out := make([]annot.Line, 0, len(segs))
	for _, s := range segs {
		l, err := r.store.Create(s[0], s[1])
		if err != nil {
			return out, err
		}
		out = append(out, l)
	}
	r.log.Info("wkt pasted", "lines", len(out))
	return out, nil
}

// Export snapshots the drawing.
func (r *Router) Export() export.Record {
	return export.NewRecord(r.workOrderNo, r.workType, r.store.Lines())
}

// Import replaces the drawing with rec. Legacy records keep the current
// work order fields. On error nothing changes.
func (r *Router) Import(rec export.Record) error {
	r.endGesture()
	if err := r.store.ReplaceAll(rec.Drafts()); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	r.clearPending()
	r.sel.Clear()
	if !rec.Legacy {
		r.workOrderNo = rec.WorkOrderNo
		r.workType = rec.WorkType
	}
	return nil
}

// Pan moves the view by a visual pixel displacement. It is refused while
// an endpoint is being dragged.
func (r *Router) Pan(d geom.Vec) bool {
	if r.gesture == GestureDragging {
		return false
	}
	r.proj.Pan(r.transform.ToModelDelta(d))
	return true
}

// Zoom scales the view; factors above 1 zoom in.
func (r *Router) Zoom(factor float64) {
	r.proj.Zoom(factor)
}

// FitToLines frames every line. It reports false when there is nothing to
// frame.
func (r *Router) FitToLines() bool {
	lines := r.store.Lines()
	if len(lines) == 0 {
		return false
	}
	mls := make(orb.MultiLineString, 0, len(lines))
	for _, l := range lines {
		mls = append(mls, orb.LineString{{l.Start.Lng, l.Start.Lat}, {l.End.Lng, l.End.Lat}})
	}
	bound := mls.Bound()
	var b geom.BBox
	b.Extend(geom.GeoPoint{Lat: bound.Min.Lat(), Lng: bound.Min.Lon()})
	b.Extend(geom.GeoPoint{Lat: bound.Max.Lat(), Lng: bound.Max.Lon()})
	r.proj.Fit(b)
	return true
}

// RotateBy turns the view by a keyboard step.
func (r *Router) RotateBy(deg float64) {
	if r.gesture == GestureRotating {
		return
	}
	r.transform.RotateBy(deg)
}
