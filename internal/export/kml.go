package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlPlacemark struct {
	Name        string    `xml:"name"`
	Description string    `xml:"description"`
	Data        []kmlData `xml:"ExtendedData>Data"`
	Coordinates string    `xml:"LineString>coordinates"`
}

type kmlDocument struct {
	XMLName    xml.Name       `xml:"kml"`
	Namespace  string         `xml:"xmlns,attr"`
	Name       string         `xml:"Document>name"`
	Placemarks []kmlPlacemark `xml:"Document>Placemark"`
}

// WriteKML writes one Placemark with a LineString per line. KML
// coordinates are "lng,lat".
func WriteKML(w io.Writer, r Record) error {
	doc := kmlDocument{Namespace: "http://www.opengis.net/kml/2.2", Name: documentName(r)}
	for _, l := range r.Lines {
		doc.Placemarks = append(doc.Placemarks, kmlPlacemark{
			Name:        l.ID,
			Description: fmt.Sprintf("%.2f m", l.Distance),
			Data: []kmlData{
				{Name: "depth", Value: l.Depth},
				{Name: "width", Value: l.Width},
				{Name: "excavationType", Value: l.ExcavationType},
				{Name: "roadType", Value: l.RoadType},
			},
			Coordinates: strings.Join([]string{
				kmlCoord(l.Start.Lng, l.Start.Lat),
				kmlCoord(l.End.Lng, l.End.Lat),
			}, " "),
		})
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func kmlCoord(lng, lat float64) string {
	return strconv.FormatFloat(lng, 'f', -1, 64) + "," + strconv.FormatFloat(lat, 'f', -1, 64)
}

func documentName(r Record) string {
	if r.WorkOrderNo == "" {
		return "trenchmap"
	}
	return r.WorkOrderNo
}
