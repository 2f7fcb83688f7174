package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"trenchmap/internal/config"
	"trenchmap/internal/logging"
)

func TestNew_JSONCarriesSession(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, "debug", "json")
	log.Debug("line created", "id", "A1")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode record %q: %v", buf.String(), err)
	}
	if rec["msg"] != "line created" || rec["id"] != "A1" {
		t.Fatalf("record: got %v", rec)
	}
	if _, err := uuid.Parse(rec["session"].(string)); err != nil {
		t.Fatalf("session attribute %v is not a uuid: %v", rec["session"], err)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(&buf, "warn", "text")
	log.Info("hidden")
	log.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn level output: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range cases {
		if got := logging.ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q): got %v, want %v", in, got, want)
		}
	}
}

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trenchmap.log")
	log, closer, err := logging.Setup(config.LogConfig{Level: "info", Format: "text", File: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	log.Info("started")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "msg=started") {
		t.Fatalf("log file: %q", data)
	}

	log, closer, err = logging.Setup(config.LogConfig{})
	if err != nil || log == nil {
		t.Fatalf("Setup(no file): %v", err)
	}
	closer.Close()
}
