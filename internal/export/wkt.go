package export

import (
	"io"

	"trenchmap/internal/geom"
)

// WriteWKT writes all lines as one MULTILINESTRING.
func WriteWKT(w io.Writer, r Record) error {
	segs := make([][2]geom.GeoPoint, 0, len(r.Lines))
	for _, l := range r.Lines {
		segs = append(segs, [2]geom.GeoPoint{l.Start, l.End})
	}
	_, err := io.WriteString(w, geom.FormatMultiLineString(segs)+"\n")
	return err
}
