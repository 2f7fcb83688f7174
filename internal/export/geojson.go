package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"trenchmap/internal/annot"
	"trenchmap/internal/geom"
)

// FeatureCollection converts r to GeoJSON. Each line is a LineString
// feature with its attributes as properties; the work order fields are
// foreign members of the collection.
func FeatureCollection(r Record) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.ExtraMembers = geojson.Properties{
		"workOrderNo": r.WorkOrderNo,
		"workType":    r.WorkType,
	}
	for _, l := range r.Lines {
		f := geojson.NewFeature(orb.LineString{toOrb(l.Start), toOrb(l.End)})
		f.ID = l.ID
		f.Properties["id"] = l.ID
		f.Properties["distance"] = l.Distance
		f.Properties["depth"] = l.Depth
		f.Properties["width"] = l.Width
		f.Properties["excavationType"] = l.ExcavationType
		f.Properties["roadType"] = l.RoadType
		fc.Append(f)
	}
	return fc
}

// WriteGeoJSON writes r as an indented FeatureCollection.
func WriteGeoJSON(w io.Writer, r Record) error {
	data, err := json.MarshalIndent(FeatureCollection(r), "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// ReadGeoJSON loads a drawing from a FeatureCollection. Every LineString
// segment becomes a line; other geometries are skipped. Only the first
// segment of a feature keeps the feature's id.
func ReadGeoJSON(rd io.Reader) (Record, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return Record{}, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return Record{}, fmt.Errorf("geojson: %v: %w", err, annot.ErrInvalidInput)
	}
	r := Record{
		WorkOrderNo: fc.ExtraMembers.MustString("workOrderNo", ""),
		WorkType:    fc.ExtraMembers.MustString("workType", ""),
	}
	for _, f := range fc.Features {
		var paths []orb.LineString
		switch g := f.Geometry.(type) {
		case orb.LineString:
			paths = []orb.LineString{g}
		case orb.MultiLineString:
			paths = g
		default:
			continue
		}
		id := f.Properties.MustString("id", "")
		for _, ls := range paths {
			for i := 1; i < len(ls); i++ {
				r.Lines = append(r.Lines, LineRecord{
					ID:             id,
					Start:          fromOrb(ls[i-1]),
					End:            fromOrb(ls[i]),
					Depth:          propString(f.Properties, "depth"),
					Width:          propString(f.Properties, "width"),
					ExcavationType: f.Properties.MustString("excavationType", ""),
					RoadType:       f.Properties.MustString("roadType", ""),
				})
				id = ""
			}
		}
	}
	return r, nil
}

// propString accepts numbers as well as strings for measurement fields.
func propString(p geojson.Properties, key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case float64:
		return fixed(v, -1)
	}
	return ""
}

func toOrb(p geom.GeoPoint) orb.Point   { return orb.Point{p.Lng, p.Lat} }
func fromOrb(p orb.Point) geom.GeoPoint { return geom.GeoPoint{Lat: p.Lat(), Lng: p.Lon()} }
