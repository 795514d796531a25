package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestChildLoggerCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelDebug, FormatJSON)
	logger.SetOutput(&buf)

	logger.WithFields(map[string]interface{}{
		"method": "GET",
		"status": 200,
	}).Info("Request handled")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to decode log entry %q: %v", buf.String(), err)
	}
	if entry.Level != "info" {
		t.Errorf("Expected level info, got %q", entry.Level)
	}
	if entry.Message != "Request handled" {
		t.Errorf("Expected message 'Request handled', got %q", entry.Message)
	}
	if entry.Fields["method"] != "GET" {
		t.Errorf("Expected method field GET, got %v", entry.Fields["method"])
	}

	if logger.fields["method"] != nil {
		t.Error("Expected parent logger fields to stay untouched")
	}
}

func TestGlobalFieldHelpers(t *testing.T) {
	var buf bytes.Buffer
	InitGlobalLogger(LevelDebug, FormatJSON)
	GetGlobalLogger().SetOutput(&buf)

	WithField("component", "scheduler").Warn("Timer skipped")
	WithFields(map[string]interface{}{"attempt": 2}).Info("Retrying")
	WithError(errors.New("pool exhausted")).Error("Backend unavailable")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 log lines, got %d: %q", len(lines), buf.String())
	}

	checks := []struct {
		field string
		want  interface{}
	}{
		{"component", "scheduler"},
		{"attempt", float64(2)},
		{"error", "pool exhausted"},
	}
	for i, check := range checks {
		var entry LogEntry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("Failed to decode log line %q: %v", lines[i], err)
		}
		if entry.Fields[check.field] != check.want {
			t.Errorf("Expected field %s=%v, got %v", check.field, check.want, entry.Fields[check.field])
		}
	}
}
