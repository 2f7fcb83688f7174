// Package gps provides position sources. A source pushes fixes on a channel
// until its context is cancelled; only the latest fix matters to consumers.
package gps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trenchmap/internal/geom"
)

// ErrSourceUnavailable marks a missing or failing position source.
var ErrSourceUnavailable = errors.New("gps source unavailable")

// Fix is one position report.
type Fix struct {
	Lat            float64
	Lng            float64
	AccuracyMeters float64
	Time           time.Time
}

// Point returns the fix as a coordinate.
func (f Fix) Point() geom.GeoPoint { return geom.GeoPoint{Lat: f.Lat, Lng: f.Lng} }

// Event carries either a fix or an error.
type Event struct {
	Fix Fix
	Err error
}

// Source is a subscribable position stream. Cancelling ctx unsubscribes and
// closes the channel.
type Source interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// None is a source for devices without positioning.
type None struct{}

func (None) Subscribe(context.Context) (<-chan Event, error) {
	return nil, fmt.Errorf("no position source configured: %w", ErrSourceUnavailable)
}

// send delivers ev unless ctx is done first.
func send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
