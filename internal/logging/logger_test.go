package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected default format 'console', got '%s'", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestNewTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	log := New("clustering")
	log.Info().Int("records", 3).Msg("run finished")

	output := buf.String()
	for _, want := range []string{`"component":"clustering"`, `"records":3`, `"message":"run finished"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %s, got: %s", want, output)
		}
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	log := Logger()
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn message missing: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}
