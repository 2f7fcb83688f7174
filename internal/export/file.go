package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnsupportedFormat is returned for file extensions with no codec.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Format identifies a file encoding by its extension.
type Format string

const (
	FormatJSON        Format = "json"
	FormatCSV         Format = "csv"
	FormatSpreadsheet Format = "xls"
	FormatGeoJSON     Format = "geojson"
	FormatKML         Format = "kml"
	FormatWKT         Format = "wkt"
	FormatShapefile   Format = "shp"
)

// Formats lists every save target in menu order.
var Formats = []Format{FormatJSON, FormatCSV, FormatSpreadsheet, FormatGeoJSON, FormatKML, FormatWKT, FormatShapefile}

var writers = map[Format]func(io.Writer, Record) error{
	FormatJSON:        Encode,
	FormatCSV:         WriteCSV,
	FormatSpreadsheet: WriteSpreadsheet,
	FormatGeoJSON:     WriteGeoJSON,
	FormatKML:         WriteKML,
	FormatWKT:         WriteWKT,
}

// FormatOf maps a path's extension to a format.
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	for _, f := range Formats {
		if ext == string(f) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
}

// Loadable reports whether drawings can be read back from f.
func (f Format) Loadable() bool { return f == FormatJSON || f == FormatGeoJSON }

// DefaultName returns the file name used when the user gives none: drawings
// are map-drawing-<date>.json, every other export map-data-<date>.<ext>.
func DefaultName(f Format, t time.Time) string {
	prefix := "map-data"
	if f == FormatJSON {
		prefix = "map-drawing"
	}
	return fmt.Sprintf("%s-%s.%s", prefix, t.Format("2006-01-02"), f)
}

// Save writes r to path in the format its extension names.
func Save(path string, r Record) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	if f == FormatShapefile {
		return WriteShapefile(path, r)
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writers[f](out, r); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

// Load reads a drawing from a JSON or GeoJSON file. A .json file holding a
// FeatureCollection is read as GeoJSON.
func Load(path string) (Record, error) {
	f, err := FormatOf(path)
	if err != nil {
		return Record{}, err
	}
	if !f.Loadable() {
		return Record{}, fmt.Errorf("load %s: %w", path, ErrUnsupportedFormat)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	if f == FormatGeoJSON || isFeatureCollection(data) {
		return ReadGeoJSON(bytes.NewReader(data))
	}
	return Decode(bytes.NewReader(data))
}

func isFeatureCollection(data []byte) bool {
	var head struct {
		Type string `json:"type"`
	}
	return json.Unmarshal(data, &head) == nil && head.Type == "FeatureCollection"
}
