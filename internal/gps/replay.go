package gps

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Replay plays back fixes recorded in a CSV file at a fixed interval.
// Column detection: lat|latitude, lon|lng|long|longitude and an optional
// accuracy|acc column (case-insensitive).
type Replay struct {
	path     string
	interval time.Duration
}

// NewReplay returns a replay source; interval defaults to one second.
func NewReplay(path string, interval time.Duration) *Replay {
	if interval <= 0 {
		interval = time.Second
	}
	return &Replay{path: path, interval: interval}
}

func (r *Replay) Subscribe(ctx context.Context) (<-chan Event, error) {
	fixes, err := LoadFixes(r.path)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %v: %w", r.path, err, ErrSourceUnavailable)
	}
	out := make(chan Event, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for _, f := range fixes {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			f.Time = time.Now()
			if !send(ctx, out, Event{Fix: f}) {
				return
			}
		}
	}()
	return out, nil
}

// LoadFixes reads every fix from a CSV file.
func LoadFixes(path string) ([]Fix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rd := csv.NewReader(f)
	rd.TrimLeadingSpace = true
	// rows may be short; the loop checks lengths
	rd.FieldsPerRecord = -1
	recs, err := rd.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	idxLat, idxLon, idxAcc := -1, -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude":
			if idxLon == -1 {
				idxLon = i
			}
		case "accuracy", "acc":
			if idxAcc == -1 {
				idxAcc = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return nil, errors.New("csv: latitude/longitude columns not found")
	}
	var fixes []Fix
	for _, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lat, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		lon, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		fix := Fix{Lat: lat, Lng: lon}
		if idxAcc >= 0 && idxAcc < len(row) {
			fix.AccuracyMeters, _ = strconv.ParseFloat(strings.TrimSpace(row[idxAcc]), 64)
		}
		fixes = append(fixes, fix)
	}
	if len(fixes) == 0 {
		return nil, errors.New("csv: no valid fixes parsed")
	}
	return fixes, nil
}
