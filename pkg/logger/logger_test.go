package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		" warn ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for input, want := range cases {
		got, err := ParseLevel(input)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", input, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected unknown level to fail")
	}
}

func TestNewJSONRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: LevelInfo, Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Debug("hidden")
	l.Info("shown", "statements", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one record, got %q", buf.String())
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if record["msg"] != "shown" || record["statements"] != float64(3) {
		t.Fatalf("unexpected record %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
}

func TestLogPhaseWritesDebugRecord(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: LevelDebug, Format: "text", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	LogPhase(l, "parse", time.Now(), "statements", 2)
	out := buf.String()
	if !strings.Contains(out, "phase=parse") || !strings.Contains(out, "statements=2") {
		t.Fatalf("unexpected log output %q", out)
	}
}

func TestNewWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flex.log")
	var console bytes.Buffer
	l, err := New(Config{Level: LevelInfo, Format: "text", Output: &console, LogFile: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("to file", "run", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if console.Len() != 0 {
		t.Fatalf("records should go to the file, got %q on output", console.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "msg=\"to file\"") || !strings.Contains(string(data), "run=1") {
		t.Fatalf("unexpected log file contents %q", data)
	}
	if err := Close(); err != nil {
		t.Fatalf("second Close should be a no-op, got %v", err)
	}
}

func TestNewLogFileError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "flex.log")
	if _, err := New(Config{LogFile: path}); err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected open error, got %v", err)
	}
}
