package basemap_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"

	"trenchmap/internal/basemap"
	"trenchmap/internal/geom"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Shapefile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roads.shp")
	w, err := shp.Create(path, shp.POLYLINE)
	if err != nil {
		t.Fatalf("shp.Create: %v", err)
	}
	w.Write(shp.NewPolyLine([][]shp.Point{
		{{X: 39.0, Y: 24.0}, {X: 39.1, Y: 24.1}},
		{{X: 39.2, Y: 24.2}, {X: 39.3, Y: 24.3}, {X: 39.4, Y: 24.4}},
	}))
	w.Close()

	l, err := basemap.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(l.Paths) != 2 {
		t.Fatalf("paths: got %d, want 2 (one per part)", len(l.Paths))
	}
	if len(l.Paths[1]) != 3 || l.Paths[1][2] != (geom.GeoPoint{Lat: 24.4, Lng: 39.4}) {
		t.Fatalf("second part: %v", l.Paths[1])
	}
	if l.Bounds.MinX != 39.0 || l.Bounds.MaxY != 24.4 {
		t.Fatalf("bounds: %+v", l.Bounds)
	}
}

func TestLoad_GeoJSON(t *testing.T) {
	path := write(t, "zones.geojson", `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[39,24],[39.1,24],[39.1,24.1],[39,24]]]}},
		{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[39.05,24.05]}}
	]}`)
	l, err := basemap.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(l.Paths) != 1 || len(l.Paths[0]) != 4 || len(l.Points) != 1 {
		t.Fatalf("geojson layer: %d paths, %d points", len(l.Paths), len(l.Points))
	}

	bare := write(t, "line.json", `{"type":"LineString","coordinates":[[39,24],[39.1,24.1]]}`)
	if l, err := basemap.Load(bare); err != nil || len(l.Paths) != 1 {
		t.Fatalf("Load(bare geometry): %v", err)
	}
}

func TestLoad_KMLNested(t *testing.T) {
	path := write(t, "site.kml", `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2"><Document><Folder>
  <Placemark><Point><coordinates>39.5,24.5,0</coordinates></Point></Placemark>
  <Folder><Placemark><LineString><coordinates>39,24 39.1,24.1 39.2,24.2</coordinates></LineString></Placemark></Folder>
</Folder></Document></kml>`)
	l, err := basemap.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(l.Points) != 1 || len(l.Paths) != 1 || len(l.Paths[0]) != 3 {
		t.Fatalf("kml layer: %d points, %d paths", len(l.Points), len(l.Paths))
	}
}

func TestLoad_CSVAndWKT(t *testing.T) {
	csvPath := write(t, "poles.csv", "name,Latitude,Longitude\np1,24.1,39.1\nbad,x,y\nshort\np2,24.2,39.2\n")
	l, err := basemap.Load(csvPath)
	if err != nil || len(l.Points) != 2 {
		t.Fatalf("Load(csv): %v, %d points", err, len(l.Points))
	}
	wktPath := write(t, "mains.wkt", "LINESTRING (39 24, 39.1 24.1)")
	l, err = basemap.Load(wktPath)
	if err != nil || len(l.Paths) != 1 {
		t.Fatalf("Load(wkt): %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := basemap.Load(write(t, "x.txt", "hello")); err == nil {
		t.Fatalf("Load(.txt): expected error")
	}
	_, err := basemap.Load(write(t, "empty.csv", "lat,lon\n"))
	if err == nil || !strings.Contains(err.Error(), "no geometries") {
		t.Fatalf("Load(empty csv): got %v", err)
	}
	if basemap.Supported("a.pdf") || !basemap.Supported("A.SHP") {
		t.Fatalf("Supported: wrong answer")
	}
}
