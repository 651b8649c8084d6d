package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"
)

func TestGetEnvStr(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	t.Setenv("TEST_STR", "value")

	if got := GetEnvStr("TEST_STR", "default"); got != "value" {
		t.Errorf("GetEnvStr() = %q, want value", got)
	}

	if got := GetEnvStr("TEST_STR_UNSET", "default"); got != "default" {
		t.Errorf("GetEnvStr() = %q, want default", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_BAD", "not-a-number")

	if got := GetEnvInt("TEST_INT", 7); got != 42 {
		t.Errorf("GetEnvInt() = %d, want 42", got)
	}

	if got := GetEnvInt("TEST_INT_BAD", 7); got != 7 {
		t.Errorf("GetEnvInt() on unparsable = %d, want 7", got)
	}

	if got := GetEnvInt("TEST_INT_UNSET", 7); got != 7 {
		t.Errorf("GetEnvInt() on unset = %d, want 7", got)
	}
}

func TestGetEnvFloat(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	t.Setenv("TEST_FLOAT", "12.5")
	t.Setenv("TEST_FLOAT_BAD", "twelve")

	if got := GetEnvFloat("TEST_FLOAT", 1); got != 12.5 {
		t.Errorf("GetEnvFloat() = %v, want 12.5", got)
	}

	if got := GetEnvFloat("TEST_FLOAT_BAD", 1); got != 1 {
		t.Errorf("GetEnvFloat() on unparsable = %v, want 1", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"no", false},
	}

	for _, tt := range tests {
		t.Setenv("TEST_BOOL", tt.value)

		if got := GetEnvBool("TEST_BOOL", !tt.expected); got != tt.expected {
			t.Errorf("GetEnvBool(%q) = %v, want %v", tt.value, got, tt.expected)
		}
	}

	t.Setenv("TEST_BOOL", "maybe")

	if got := GetEnvBool("TEST_BOOL", true); got != true {
		t.Error("GetEnvBool() on unrecognized value should return default")
	}
}

func TestGetEnvDuration(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	t.Setenv("TEST_DURATION", "30s")
	t.Setenv("TEST_DURATION_BAD", "30")

	if got := GetEnvDuration("TEST_DURATION", time.Minute); got != 30*time.Second {
		t.Errorf("GetEnvDuration() = %v, want 30s", got)
	}

	if got := GetEnvDuration("TEST_DURATION_BAD", time.Minute); got != time.Minute {
		t.Errorf("GetEnvDuration() on unparsable = %v, want 1m", got)
	}
}

func TestGetEnvLogLevel(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	tests := []struct {
		value    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
	}

	for _, tt := range tests {
		t.Setenv("TEST_LOG_LEVEL", tt.value)

		if got := GetEnvLogLevel("TEST_LOG_LEVEL", slog.LevelInfo); got != tt.expected {
			t.Errorf("GetEnvLogLevel(%q) = %v, want %v", tt.value, got, tt.expected)
		}
	}

	t.Setenv("TEST_LOG_LEVEL", "verbose")

	if got := GetEnvLogLevel("TEST_LOG_LEVEL", slog.LevelWarn); got != slog.LevelWarn {
		t.Error("GetEnvLogLevel() on unrecognized value should return default")
	}
}

func TestParseCommaSeparatedList(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"empty", "", []string{}},
		{"single", "broker-1:9092", []string{"broker-1:9092"}},
		{"multiple with spaces", "a, b ,c", []string{"a", "b", "c"}},
		{"empty entries filtered", "a,,b,", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCommaSeparatedList(tt.input); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseCommaSeparatedList(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
