package geom

import "testing"

func TestParseLineStrings(t *testing.T) {
	paths, err := ParseLineStrings("LINESTRING (39.5773 24.4539, 39.5774 24.4540, 39.5780 24.4550)")
	if err != nil {
		t.Fatalf("ParseLineStrings: %v", err)
	}
	if len(paths) != 1 || len(paths[0]) != 3 {
		t.Fatalf("got %d paths", len(paths))
	}
	if paths[0][0] != (GeoPoint{Lat: 24.4539, Lng: 39.5773}) {
		t.Fatalf("first point = %v", paths[0][0])
	}

	paths, err = ParseLineStrings("multilinestring ((1 2, 3 4), (5 6, 7 8))")
	if err != nil {
		t.Fatalf("ParseLineStrings multi: %v", err)
	}
	if len(paths) != 2 || paths[1][1] != (GeoPoint{Lat: 8, Lng: 7}) {
		t.Fatalf("multi = %v", paths)
	}
}

func TestParseLineStrings_Errors(t *testing.T) {
	for _, in := range []string{
		"",
		"POINT (1 2)",
		"LINESTRING (1 2)",
		"LINESTRING (1 x, 3 4)",
		"LINESTRING 1 2, 3 4",
	} {
		if _, err := ParseLineStrings(in); err == nil {
			t.Fatalf("ParseLineStrings(%q): expected error", in)
		}
	}
}

func TestFormatMultiLineString_RoundTrip(t *testing.T) {
	segs := [][2]GeoPoint{
		{{Lat: 24.0, Lng: 39.0}, {Lat: 24.001, Lng: 39.001}},
		{{Lat: -1.5, Lng: 2.25}, {Lat: 3, Lng: 4}},
	}
	out := FormatMultiLineString(segs)
	paths, err := ParseLineStrings(out)
	if err != nil {
		t.Fatalf("ParseLineStrings(%q): %v", out, err)
	}
	for i, seg := range segs {
		if paths[i][0] != seg[0] || paths[i][1] != seg[1] {
			t.Fatalf("segment %d: got %v, want %v", i, paths[i], seg)
		}
	}
	if FormatMultiLineString(nil) != "MULTILINESTRING EMPTY" {
		t.Fatalf("empty format")
	}
}
