package export

import (
	"fmt"

	"github.com/jonas-p/go-shp"
)

// dbf field names are limited to ten characters.
var shapeFields = []shp.Field{
	shp.StringField("LINE_ID", 12),
	shp.FloatField("LENGTH_M", 12, 2),
	shp.StringField("DEPTH", 16),
	shp.StringField("WIDTH", 16),
	shp.StringField("EXCAVATION", 64),
	shp.StringField("ROAD_TYPE", 32),
	shp.StringField("WORK_ORDER", 32),
	shp.StringField("WORK_TYPE", 64),
}

// WriteShapefile writes r as a POLYLINE shapefile at path (plus the .shx
// and .dbf siblings go-shp creates).
func WriteShapefile(path string, r Record) error {
	w, err := shp.Create(path, shp.POLYLINE)
	if err != nil {
		return fmt.Errorf("create shapefile %s: %w", path, err)
	}
	defer w.Close()
	if err := w.SetFields(shapeFields); err != nil {
		return fmt.Errorf("shapefile fields: %w", err)
	}
	for _, l := range r.Lines {
		n := int(w.Write(shp.NewPolyLine([][]shp.Point{{
			{X: l.Start.Lng, Y: l.Start.Lat},
			{X: l.End.Lng, Y: l.End.Lat},
		}})))
		values := []any{l.ID, l.Distance, l.Depth, l.Width, l.ExcavationType, l.RoadType, r.WorkOrderNo, r.WorkType}
		for field, v := range values {
			if err := w.WriteAttribute(n, field, v); err != nil {
				return fmt.Errorf("shapefile %s attribute %d: %w", l.ID, field, err)
			}
		}
	}
	return nil
}
