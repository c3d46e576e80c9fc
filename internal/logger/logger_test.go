package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestInit_JSONWithService(t *testing.T) {
	var buf bytes.Buffer
	l := Init("marketpulse", "info", "json", &buf)
	l.Info().Str("symbol", "AAPL").Msg("hello")
	l.Debug().Msg("hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (debug filtered), got %d: %q", len(lines), buf.String())
	}
	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry["service"] != "marketpulse" || entry["symbol"] != "AAPL" || entry["message"] != "hello" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestInit_BadLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := Init("svc", "verbose", "", &buf)
	if l.GetLevel().String() != "info" {
		t.Errorf("level = %s, want info", l.GetLevel())
	}
}

func TestCronLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	l := Init("svc", "debug", "json", &buf)
	CronLogger{L: l}.Error(errors.New("boom"), "panic", "job", "ticker")
	out := buf.String()
	if !strings.Contains(out, `"error":"boom"`) || !strings.Contains(out, `"job":"ticker"`) {
		t.Errorf("unexpected output: %s", out)
	}
}
