package gps

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"time"
)

const watchCommand = `?WATCH={"enable":true,"json":true};` + "\n"

// GPSD reads TPV reports from a gpsd daemon over TCP.
type GPSD struct {
	addr string
	log  *slog.Logger
}

// NewGPSD returns a source for the daemon at addr ("host:port").
func NewGPSD(addr string, log *slog.Logger) *GPSD {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &GPSD{addr: addr, log: log}
}

func (g *GPSD) Subscribe(ctx context.Context) (<-chan Event, error) {
	var d net.Dialer
	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	conn, err := d.DialContext(dialCtx, "tcp", g.addr)
	if err != nil {
		return nil, fmt.Errorf("connect to gpsd at %s: %v: %w", g.addr, err, ErrSourceUnavailable)
	}
	if _, err := conn.Write([]byte(watchCommand)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("gpsd watch: %v: %w", err, ErrSourceUnavailable)
	}
	g.log.Info("gpsd connected", "addr", g.addr)

	out := make(chan Event, 16)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go g.readLoop(ctx, conn, out)
	return out, nil
}

func (g *GPSD) readLoop(ctx context.Context, conn net.Conn, out chan<- Event) {
	defer close(out)
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		fix, ok, err := ParseTPV(scanner.Bytes())
		if err != nil {
			g.log.Debug("gpsd: skipping report", "err", err)
			continue
		}
		if !ok {
			continue
		}
		if !send(ctx, out, Event{Fix: fix}) {
			return
		}
	}
	if ctx.Err() != nil {
		return
	}
	err := scanner.Err()
	if err == nil {
		err = errors.New("connection closed")
	}
	send(ctx, out, Event{Err: fmt.Errorf("gpsd: %v: %w", err, ErrSourceUnavailable)})
}

type tpvReport struct {
	Class string   `json:"class"`
	Mode  int      `json:"mode"`
	Time  string   `json:"time"`
	Lat   *float64 `json:"lat"`
	Lon   *float64 `json:"lon"`
	Eph   float64  `json:"eph"`
	Epx   float64  `json:"epx"`
	Epy   float64  `json:"epy"`
}

// ParseTPV decodes one gpsd JSON line. ok is false for reports that are not
// a 2D/3D TPV fix.
func ParseTPV(line []byte) (fix Fix, ok bool, err error) {
	var r tpvReport
	if err := json.Unmarshal(line, &r); err != nil {
		return Fix{}, false, err
	}
	if r.Class != "TPV" || r.Mode < 2 || r.Lat == nil || r.Lon == nil {
		return Fix{}, false, nil
	}
	acc := r.Eph
	if acc == 0 {
		acc = math.Max(r.Epx, r.Epy)
	}
	fix = Fix{Lat: *r.Lat, Lng: *r.Lon, AccuracyMeters: acc}
	if r.Time != "" {
		if ts, err := time.Parse(time.RFC3339Nano, r.Time); err == nil {
			fix.Time = ts
		}
	}
	return fix, true, nil
}
