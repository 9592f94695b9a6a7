package logger

import (
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"debug level", "debug", "console"},
		{"info level", "info", "console"},
		{"warn level", "warn", "console"},
		{"error level", "error", "console"},
		{"json format", "info", "json"},
		{"uppercase level", "DEBUG", "console"},
		{"unknown level defaults to info", "bogus", "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.level, tt.format)
			if l == nil {
				t.Error("expected logger to be constructed")
			}
		})
	}
}

func TestLoggerMethods(t *testing.T) {
	l := New("debug", "console")

	// These should not panic
	l.Info("test info message", "key", "value")
	l.Debug("test debug message", "key", "value")
	l.Warn("test warn message", "key", "value")
	l.Error("test error message", "key", "value")
}

func TestLoggerWithMultipleFields(t *testing.T) {
	l := New("debug", "console")

	l.Info(
		"multi-field test",
		"string_field", "value",
		"int_field", 42,
		"float_field", 3.14,
		"bool_field", true,
	)
}

func TestLoggerWithOddArgs(t *testing.T) {
	l := New("info", "console")

	// Odd number of args: last key has no value and is dropped
	l.Info("odd args", "key1", "value1", "orphan_key")
}

func TestLoggerWithNonStringKey(t *testing.T) {
	l := New("info", "console")

	// Non-string key is converted to its string form
	l.Info("test non-string key", 123, "value")
}

func TestLoggerLevelFiltering(t *testing.T) {
	l := New("error", "console")

	// Filtered entries must not panic
	l.Error("error message should appear")
	l.Debug("debug message should be filtered")
	l.Info("info message should be filtered")
	l.Warn("warn message should be filtered")
}
