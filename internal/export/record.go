// Package export encodes drawings to files and decodes them back.
//
// The native format is a JSON record holding the work order fields and the
// lines. Tabular (CSV, spreadsheet) and GIS (GeoJSON, KML, WKT, shapefile)
// encodings are write targets; JSON and GeoJSON can also be loaded.
package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"trenchmap/internal/annot"
	"trenchmap/internal/geom"
)

// Record is a complete drawing.
type Record struct {
	WorkOrderNo string       `json:"workOrderNo"`
	WorkType    string       `json:"workType"`
	Lines       []LineRecord `json:"lines"`

	// Legacy is set when the record was decoded from a bare line array;
	// such records carry no work order fields.
	Legacy bool `json:"-"`
}

// LineRecord is one line as persisted.
type LineRecord struct {
	ID             string        `json:"id"`
	Start          geom.GeoPoint `json:"start"`
	End            geom.GeoPoint `json:"end"`
	Distance       float64       `json:"distance"`
	Depth          string        `json:"depth"`
	Width          string        `json:"width"`
	ExcavationType string        `json:"excavationType"`
	RoadType       string        `json:"roadType"`
}

// NewRecord snapshots lines with the given work order fields.
func NewRecord(workOrderNo, workType string, lines []annot.Line) Record {
	r := Record{WorkOrderNo: workOrderNo, WorkType: workType, Lines: make([]LineRecord, 0, len(lines))}
	for _, l := range lines {
		r.Lines = append(r.Lines, LineRecord{
			ID:             l.ID,
			Start:          l.Start,
			End:            l.End,
			Distance:       l.Distance,
			Depth:          l.Depth,
			Width:          l.Width,
			ExcavationType: string(l.ExcavationType),
			RoadType:       string(l.RoadType),
		})
	}
	return r
}

// Drafts converts the record into store input. Distances are dropped; the
// store recomputes them.
func (r Record) Drafts() []annot.Draft {
	drafts := make([]annot.Draft, 0, len(r.Lines))
	for _, l := range r.Lines {
		drafts = append(drafts, annot.Draft{
			ID:    l.ID,
			Start: l.Start,
			End:   l.End,
			Attributes: annot.Attributes{
				Depth:          l.Depth,
				Width:          l.Width,
				ExcavationType: annot.ExcavationType(l.ExcavationType),
				RoadType:       annot.RoadType(l.RoadType),
			},
		})
	}
	return drafts
}

// Encode writes r as indented JSON.
func Encode(w io.Writer, r Record) error {
	if r.Lines == nil {
		r.Lines = []LineRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(r)
}

// wireLine mirrors LineRecord with optional points so a missing point is
// rejected instead of landing on 0,0.
type wireLine struct {
	ID             string         `json:"id"`
	Start          *geom.GeoPoint `json:"start"`
	End            *geom.GeoPoint `json:"end"`
	Depth          string         `json:"depth"`
	Width          string         `json:"width"`
	ExcavationType string         `json:"excavationType"`
	RoadType       string         `json:"roadType"`
}

// wireRecord keeps lines as a pointer so an object without a lines member
// is told apart from an empty drawing.
type wireRecord struct {
	WorkOrderNo string      `json:"workOrderNo"`
	WorkType    string      `json:"workType"`
	Lines       *[]wireLine `json:"lines"`
}

// Decode reads a record or a legacy top-level line array. Malformed input
// is reported as annot.ErrInvalidInput.
func Decode(rd io.Reader) (Record, error) {
	data, err := io.ReadAll(bufio.NewReader(rd))
	if err != nil {
		return Record{}, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Record{}, fmt.Errorf("empty drawing: %w", annot.ErrInvalidInput)
	}

	var wire wireRecord
	legacy := data[0] == '['
	if legacy {
		err = json.Unmarshal(data, &wire.Lines)
	} else {
		err = json.Unmarshal(data, &wire)
	}
	if err != nil {
		var syn *json.SyntaxError
		var typ *json.UnmarshalTypeError
		if errors.As(err, &syn) || errors.As(err, &typ) {
			return Record{}, fmt.Errorf("decode drawing: %v: %w", err, annot.ErrInvalidInput)
		}
		return Record{}, fmt.Errorf("decode drawing: %w", err)
	}
	if wire.Lines == nil {
		return Record{}, fmt.Errorf("decode drawing: no lines member: %w", annot.ErrInvalidInput)
	}

	r := Record{WorkOrderNo: wire.WorkOrderNo, WorkType: wire.WorkType, Legacy: legacy}
	for i, l := range *wire.Lines {
		if l.Start == nil || l.End == nil {
			return Record{}, fmt.Errorf("line %d: missing endpoint: %w", i+1, annot.ErrInvalidInput)
		}
		r.Lines = append(r.Lines, LineRecord{
			ID:             l.ID,
			Start:          *l.Start,
			End:            *l.End,
			Depth:          l.Depth,
			Width:          l.Width,
			ExcavationType: l.ExcavationType,
			RoadType:       l.RoadType,
		})
	}
	return r, nil
}
