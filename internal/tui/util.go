package tui

import (
	"fmt"
	"math"

	"trenchmap/internal/geom"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// microOf maps a map cell to the centre of its braille micro grid.
func microOf(cx, cy int) geom.Vec {
	return geom.Vec{X: float64(cx*2 + 1), Y: float64(cy*4 + 2)}
}

// cellOf maps a micro coordinate to the cell containing it.
func cellOf(v geom.Vec) (int, int) {
	return int(math.Floor(v.X / 2)), int(math.Floor(v.Y / 4))
}

func formatMeters(m float64) string {
	if m >= 1000 {
		return fmt.Sprintf("%.2f km", m/1000)
	}
	return fmt.Sprintf("%.2f m", m)
}
