package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		name string
		want log.Level
	}{
		{"", log.InfoLevel},
		{"debug", log.DebugLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"chatty", log.InfoLevel},
	}
	for _, tt := range tests {
		if got := Level(tt.name); got != tt.want {
			t.Errorf("Level(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewHonoursEnv(t *testing.T) {
	t.Setenv(LevelEnv, "warn")

	var buf bytes.Buffer
	logger := New(&buf, "test")
	logger.Info("hidden")
	logger.Warn("shown", "score", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "score=3") {
		t.Errorf("output = %q, want the warning with its fields", out)
	}
	if !strings.Contains(out, "test") {
		t.Errorf("output = %q, want the prefix", out)
	}
}
