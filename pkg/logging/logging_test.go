package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	if got := ParseLevel(""); got != slog.LevelError {
		t.Errorf("expected error level from env, got %v", got)
	}
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "info", "json"))
	logger.Debug("hidden")
	logger.Info("Invoice issued", "invoice_number", 1000)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "Invoice issued" {
		t.Errorf("msg: got %v", rec["msg"])
	}
	if rec["invoice_number"] != float64(1000) {
		t.Errorf("invoice_number: got %v", rec["invoice_number"])
	}
}

func TestTextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, "warn", "text"))
	logger.Info("hidden")
	logger.Warn("Store unavailable", "entity", "invoices")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "Store unavailable") || !strings.Contains(out, "invoices") {
		t.Errorf("unexpected output: %q", out)
	}
}
