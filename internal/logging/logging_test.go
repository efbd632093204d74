package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"off", LevelSilent},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON {
		t.Error("Expected json format")
	}
	if ParseFormat("logfmt") != FormatText {
		t.Error("Unknown format should fall back to text")
	}
}

func TestJSONKeysAndMasking(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("saved", "password", "hunter2", slog.Group("entry", "hash", "$argon2id$x", "path", "password_hash.txt"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("Output is not JSON: %v (%s)", err, buf.String())
	}

	if _, ok := record["ts"]; !ok {
		t.Error("Expected time under key ts")
	}
	if record["severity"] != "INFO" {
		t.Errorf("severity = %v, want INFO", record["severity"])
	}
	if record["password"] != "***" {
		t.Errorf("password = %v, want masked", record["password"])
	}

	entry, ok := record["entry"].(map[string]any)
	if !ok {
		t.Fatalf("Expected entry group, got %v", record["entry"])
	}
	if entry["hash"] != "***" {
		t.Errorf("entry.hash = %v, want masked", entry["hash"])
	}
	if entry["path"] != "password_hash.txt" {
		t.Errorf("entry.path = %v, want unmasked", entry["path"])
	}
}

func TestWithAttrsIsMasked(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: slog.LevelInfo, Format: FormatText, Output: &buf})

	logger.With("secret", "hunter2").Info("loaded")

	if strings.Contains(buf.String(), "hunter2") {
		t.Errorf("Secret leaked into output: %s", buf.String())
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelSilent, Output: &buf})

	logger.Error("should not appear")

	if buf.Len() != 0 {
		t.Errorf("Silent logger wrote %q", buf.String())
	}
}
