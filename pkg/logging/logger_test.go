package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		valid    bool
	}{
		{"DEBUG", DebugLevel, true},
		{"debug", DebugLevel, true},
		{"Info", InfoLevel, true},
		{"warning", WarnLevel, true},
		{" error ", ErrorLevel, true},
		{"invalid", InfoLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			_, err := ParseLevelStrict(tt.input)
			if (err == nil) != tt.valid {
				t.Errorf("ParseLevelStrict(%q) error = %v, valid = %v", tt.input, err, tt.valid)
			}
		})
	}
}

func TestFieldConstructors(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"Snapshot", Snapshot(3), "snapshot", 3},
		{"Communities", Communities(7), "communities", 7},
		{"Modularity", Modularity(0.25), "modularity", 0.25},
		{"NMI", NMI(0.5), "nmi", 0.5},
		{"RunID", RunID("abc"), "run_id", "abc"},
		{"Duration", Duration("timeout", 5*time.Second), "timeout", "5s"},
		{"Error", Error(errors.New("boom")), "error", "boom"},
		{"NilError", Error(nil), "error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("%s() = %+v, want {Key:%v Value:%v}", tt.name, tt.field, tt.key, tt.value)
			}
		})
	}
}

func TestJSONLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, DebugLevel)

	logger.Info("snapshot processed", Snapshot(2))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal log entry: %v", err)
	}

	if entry.Level != "INFO" {
		t.Errorf("Level = %v, want INFO", entry.Level)
	}
	if entry.Message != "snapshot processed" {
		t.Errorf("Message = %v, want 'snapshot processed'", entry.Message)
	}
	if entry.Fields["snapshot"] != float64(2) {
		t.Errorf("Fields[snapshot] = %v, want 2", entry.Fields["snapshot"])
	}
	if entry.Time == "" {
		t.Error("Time field is empty")
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(lines))
	}

	for i, want := range []string{"WARN", "ERROR"} {
		var entry LogEntry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			t.Fatalf("Failed to unmarshal entry %d: %v", i, err)
		}
		if entry.Level != want {
			t.Errorf("Entry %d level = %v, want %v", i, entry.Level, want)
		}
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	child := logger.With(Component("analysis"), RunID("run-1"))
	child.Info("test message", Snapshot(0))

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if entry.Fields["component"] != "analysis" {
		t.Errorf("component field = %v, want analysis", entry.Fields["component"])
	}
	if entry.Fields["run_id"] != "run-1" {
		t.Errorf("run_id field = %v, want run-1", entry.Fields["run_id"])
	}
	if entry.Fields["snapshot"] != float64(0) {
		t.Errorf("snapshot field = %v, want 0", entry.Fields["snapshot"])
	}
}

func TestJSONLogger_ChildSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)
	child := logger.With(Component("pruning"))

	logger.SetLevel(ErrorLevel)
	child.Info("hidden")
	if buf.Len() != 0 {
		t.Error("Child logger should follow the parent level")
	}
	if child.GetLevel() != ErrorLevel {
		t.Errorf("child level = %v, want ERROR", child.GetLevel())
	}
}

func TestJSONLogger_NoFieldsOmitted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("plain")
	if strings.Contains(buf.String(), "fields") {
		t.Errorf("Expected fields to be omitted, got %s", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	logger := OrNop(nil)
	logger.Info("ignored")
	if logger.GetLevel() <= DebugLevel {
		t.Error("NopLogger must not report debug level")
	}

	var buf bytes.Buffer
	jl := NewJSONLogger(&buf, InfoLevel)
	if OrNop(jl) != Logger(jl) {
		t.Error("OrNop should return a non-nil logger unchanged")
	}
}

func TestDefaultLogger(t *testing.T) {
	var buf bytes.Buffer
	SetDefaultLogger(NewJSONLogger(&buf, DebugLevel))
	defer SetDefaultLogger(nil)

	DefaultLogger().Debug("via default")
	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("DefaultLogger did not use the configured logger: %q", buf.String())
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	op := StartTimer(logger, "detection", Snapshot(1))
	if elapsed := op.End(Communities(4)); elapsed < 0 {
		t.Errorf("negative duration %v", elapsed)
	}

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if _, ok := entry.Fields["latency"]; !ok {
		t.Error("Expected latency field")
	}
	if entry.Fields["communities"] != float64(4) {
		t.Errorf("communities field = %v, want 4", entry.Fields["communities"])
	}

	buf.Reset()
	op.EndError(errors.New("failed"))
	if !strings.Contains(buf.String(), `"level":"ERROR"`) {
		t.Errorf("EndError should log at error level: %s", buf.String())
	}
}
