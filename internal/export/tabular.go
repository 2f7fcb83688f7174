package export

import (
	"encoding/csv"
	"html/template"
	"io"
	"strconv"
)

// Columns is the header row of the tabular exports.
var Columns = []string{
	"Work Order No", "Work Type", "Line",
	"Start Lat", "Start Lng", "End Lat", "End Lng",
	"Length (m)", "Depth", "Width", "Excavation Type", "Road Type",
}

// Rows flattens r into table rows matching Columns. Coordinates carry six
// decimals and lengths two.
func Rows(r Record) [][]string {
	rows := make([][]string, 0, len(r.Lines))
	for _, l := range r.Lines {
		rows = append(rows, []string{
			r.WorkOrderNo,
			r.WorkType,
			l.ID,
			fixed(l.Start.Lat, 6),
			fixed(l.Start.Lng, 6),
			fixed(l.End.Lat, 6),
			fixed(l.End.Lng, 6),
			fixed(l.Distance, 2),
			l.Depth,
			l.Width,
			l.ExcavationType,
			l.RoadType,
		})
	}
	return rows
}

func fixed(v float64, prec int) string { return strconv.FormatFloat(v, 'f', prec, 64) }

// utf8BOM lets spreadsheet programs detect UTF-8 for the Arabic labels.
const utf8BOM = "\ufeff"

// WriteCSV writes the header and one row per line.
func WriteCSV(w io.Writer, r Record) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(Rows(r)); err != nil {
		return err
	}
	return cw.Error()
}

var sheetTmpl = template.Must(template.New("sheet").Parse(`<html><head><meta charset="utf-8"></head><body>
<table border="1"><thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead><tbody>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody></table>
</body></html>
`))

// WriteSpreadsheet writes an HTML table that spreadsheet programs open as
// an .xls workbook.
func WriteSpreadsheet(w io.Writer, r Record) error {
	return sheetTmpl.Execute(w, struct {
		Columns []string
		Rows    [][]string
	}{Columns, Rows(r)})
}
