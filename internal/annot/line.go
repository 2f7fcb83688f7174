// Package annot owns the measured line annotations and their lifecycle.
package annot

import (
	"fmt"
	"strconv"
	"strings"

	"trenchmap/internal/geom"
)

// Endpoint selects one end of a line.
type Endpoint int

const (
	Start Endpoint = iota
	End
)

func (e Endpoint) String() string {
	if e == End {
		return "end"
	}
	return "start"
}

// Line is a measured segment. Values handed out by Store are copies;
// mutations go through the store so Distance stays derived.
type Line struct {
	ID       string
	Start    geom.GeoPoint
	End      geom.GeoPoint
	Distance float64
	Attributes
}

// Point returns the requested endpoint.
func (l Line) Point(which Endpoint) geom.GeoPoint {
	if which == End {
		return l.End
	}
	return l.Start
}

// Draft is the input shape for ReplaceAll. An empty ID asks the store to
// allocate one.
type Draft struct {
	ID    string
	Start geom.GeoPoint
	End   geom.GeoPoint
	Attributes
}

type handles struct {
	polyline    Handle
	startMarker Handle
	endMarker   Handle
	label       Handle
}

type entry struct {
	Line
	h handles
}

func formatID(n int) string { return "A" + strconv.Itoa(n) }

// parseID returns n for ids of the form A<n> with n >= 1.
func parseID(id string) (int, error) {
	if !strings.HasPrefix(id, "A") {
		return 0, fmt.Errorf("line id %q: %w", id, ErrInvalidInput)
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil || n < 1 || formatID(n) != id {
		return 0, fmt.Errorf("line id %q: %w", id, ErrInvalidInput)
	}
	return n, nil
}

func distanceLabel(d float64) string {
	return fmt.Sprintf("%.2f m", d)
}
