package gps_test

import (
	"bufio"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kr/pretty"

	"trenchmap/internal/gps"
)

func TestParseTPV(t *testing.T) {
	cases := []struct {
		name string
		line string
		ok   bool
		want gps.Fix
	}{
		{
			name: "3d fix with eph",
			line: `{"class":"TPV","mode":3,"lat":24.4539,"lon":39.5773,"eph":4.5}`,
			ok:   true,
			want: gps.Fix{Lat: 24.4539, Lng: 39.5773, AccuracyMeters: 4.5},
		},
		{
			name: "2d fix falls back to epx/epy",
			line: `{"class":"TPV","mode":2,"lat":24.1,"lon":39.2,"epx":3,"epy":7}`,
			ok:   true,
			want: gps.Fix{Lat: 24.1, Lng: 39.2, AccuracyMeters: 7},
		},
		{name: "no fix", line: `{"class":"TPV","mode":1}`},
		{name: "other class", line: `{"class":"SKY","satellites":[]}`},
		{name: "missing lon", line: `{"class":"TPV","mode":3,"lat":24.1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, err := gps.ParseTPV([]byte(tc.line))
			if err != nil {
				t.Fatalf("ParseTPV: unexpected error %v", err)
			}
			if ok != tc.ok {
				t.Fatalf("ParseTPV ok: got %v, want %v", ok, tc.ok)
			}
			if diff := pretty.Diff(got, tc.want); len(diff) > 0 {
				t.Fatalf("ParseTPV: %v", diff)
			}
		})
	}
	if _, _, err := gps.ParseTPV([]byte("not json")); err == nil {
		t.Fatalf("ParseTPV(garbage): expected error")
	}
}

func TestParseTPV_Time(t *testing.T) {
	fix, ok, err := gps.ParseTPV([]byte(`{"class":"TPV","mode":3,"lat":1,"lon":2,"time":"2024-05-01T10:00:00.000Z"}`))
	if err != nil || !ok {
		t.Fatalf("ParseTPV: ok=%v err=%v", ok, err)
	}
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if !fix.Time.Equal(want) {
		t.Fatalf("fix time: got %v, want %v", fix.Time, want)
	}
}

func TestGPSD_StreamsFixesThenReportsDisconnect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	watch := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		line, _ := bufio.NewReader(conn).ReadString('\n')
		watch <- line
		conn.Write([]byte(`{"class":"VERSION","release":"3.25"}` + "\n"))
		conn.Write([]byte(`{"class":"TPV","mode":3,"lat":24.4539,"lon":39.5773,"eph":5}` + "\n"))
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := gps.NewGPSD(ln.Addr().String(), nil).Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	ev := <-events
	if ev.Err != nil {
		t.Fatalf("first event: unexpected error %v", ev.Err)
	}
	if ev.Fix.Lat != 24.4539 || ev.Fix.Lng != 39.5773 || ev.Fix.AccuracyMeters != 5 {
		t.Fatalf("first fix: got %# v", pretty.Formatter(ev.Fix))
	}
	if got := <-watch; got == "" {
		t.Fatalf("server never received a WATCH command")
	}

	ev, ok := <-events
	if !ok {
		t.Fatalf("channel closed without a disconnect event")
	}
	if !errors.Is(ev.Err, gps.ErrSourceUnavailable) {
		t.Fatalf("disconnect event: got %v, want ErrSourceUnavailable", ev.Err)
	}
	if _, ok := <-events; ok {
		t.Fatalf("channel still open after disconnect")
	}
}

func TestGPSD_DialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = gps.NewGPSD(addr, nil).Subscribe(context.Background())
	if !errors.Is(err, gps.ErrSourceUnavailable) {
		t.Fatalf("Subscribe(closed port): got %v, want ErrSourceUnavailable", err)
	}
}

func TestReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.csv")
	data := "Latitude,Longitude,Accuracy\n24.0,39.0,3\nbad,row,1\n24.001,39.001,4\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := gps.NewReplay(path, time.Millisecond).Subscribe(ctx)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	var got []gps.Fix
	for ev := range events {
		if ev.Err != nil {
			t.Fatalf("replay event error: %v", ev.Err)
		}
		if ev.Fix.Time.IsZero() {
			t.Fatalf("replayed fix has no timestamp")
		}
		ev.Fix.Time = time.Time{}
		got = append(got, ev.Fix)
	}
	want := []gps.Fix{
		{Lat: 24.0, Lng: 39.0, AccuracyMeters: 3},
		{Lat: 24.001, Lng: 39.001, AccuracyMeters: 4},
	}
	if diff := pretty.Diff(got, want); len(diff) > 0 {
		t.Fatalf("replayed fixes: %v", diff)
	}
}

func TestLoadFixes_ShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "track.csv")
	data := "lat,lng,accuracy\n24.0,39.0,3\n24.001,39.001\n24.002\n24.003,39.003,5\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := gps.LoadFixes(path)
	if err != nil {
		t.Fatalf("LoadFixes: %v", err)
	}
	want := []gps.Fix{
		{Lat: 24.0, Lng: 39.0, AccuracyMeters: 3},
		{Lat: 24.001, Lng: 39.001},
		{Lat: 24.003, Lng: 39.003, AccuracyMeters: 5},
	}
	if diff := pretty.Diff(got, want); len(diff) > 0 {
		t.Fatalf("LoadFixes: %v", diff)
	}
}

func TestReplay_MissingFile(t *testing.T) {
	_, err := gps.NewReplay(filepath.Join(t.TempDir(), "nope.csv"), 0).Subscribe(context.Background())
	if !errors.Is(err, gps.ErrSourceUnavailable) {
		t.Fatalf("Subscribe(missing): got %v, want ErrSourceUnavailable", err)
	}
}

func TestNone(t *testing.T) {
	ch, err := gps.None{}.Subscribe(context.Background())
	if ch != nil || !errors.Is(err, gps.ErrSourceUnavailable) {
		t.Fatalf("None.Subscribe: got (%v, %v)", ch, err)
	}
}
