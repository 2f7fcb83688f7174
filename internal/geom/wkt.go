package geom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseLineStrings parses LINESTRING and MULTILINESTRING WKT. Each returned
// path is a sequence of at least two points. Coordinates are "lng lat".
func ParseLineStrings(wkt string) ([][]GeoPoint, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	up := strings.ToUpper(s)
	parseTuples := func(block string) ([]GeoPoint, error) {
		var out []GeoPoint
		for _, tup := range strings.Split(block, ",") {
			parts := strings.Fields(strings.TrimSpace(tup))
			if len(parts) < 2 {
				continue
			}
			x, e1 := strconv.ParseFloat(parts[0], 64)
			y, e2 := strconv.ParseFloat(parts[1], 64)
			if e1 != nil || e2 != nil {
				return nil, fmt.Errorf("wkt: bad coordinate %q", strings.TrimSpace(tup))
			}
			out = append(out, GeoPoint{Lat: y, Lng: x})
		}
		if len(out) < 2 {
			return nil, errors.New("wkt: linestring needs at least two points")
		}
		return out, nil
	}
	switch {
	case strings.HasPrefix(up, "MULTILINESTRING"):
		i := strings.Index(s, "((")
		j := strings.LastIndex(s, "))")
		if i < 0 || j <= i {
			return nil, errors.New("wkt multilinestring: invalid")
		}
		// normalize spaces around part separators
		norm := strings.ReplaceAll(s[i+2:j], "), (", "),(")
		norm = strings.ReplaceAll(norm, ") , (", "),(")
		var paths [][]GeoPoint
		for _, part := range strings.Split(norm, "),(") {
			pts, err := parseTuples(part)
			if err != nil {
				return nil, err
			}
			paths = append(paths, pts)
		}
		return paths, nil
	case strings.HasPrefix(up, "LINESTRING"):
		i := strings.Index(s, "(")
		j := strings.LastIndex(s, ")")
		if i < 0 || j <= i {
			return nil, errors.New("wkt linestring: invalid")
		}
		pts, err := parseTuples(s[i+1 : j])
		if err != nil {
			return nil, err
		}
		return [][]GeoPoint{pts}, nil
	}
	return nil, errors.New("unsupported wkt type")
}

// FormatMultiLineString renders two-point segments as a MULTILINESTRING.
func FormatMultiLineString(segments [][2]GeoPoint) string {
	if len(segments) == 0 {
		return "MULTILINESTRING EMPTY"
	}
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		parts = append(parts, fmt.Sprintf("(%s %s, %s %s)",
			formatCoord(seg[0].Lng), formatCoord(seg[0].Lat),
			formatCoord(seg[1].Lng), formatCoord(seg[1].Lat)))
	}
	return "MULTILINESTRING (" + strings.Join(parts, ", ") + ")"
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
