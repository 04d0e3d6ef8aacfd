package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/contre95/lxbridge/src/features/config"
)

func TestNewLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.Logger{Enabled: true, Level: "info", Format: "json"})

	logger.Info("Intent matched", "path", "/music/a.mp3")

	out := buf.String()
	if !strings.Contains(out, `"msg":"Intent matched"`) {
		t.Errorf("expected JSON message, got %s", out)
	}
	if !strings.Contains(out, `"path":"/music/a.mp3"`) {
		t.Errorf("expected path attribute, got %s", out)
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.Logger{Enabled: true, Level: "warn", Format: "logfmt"})

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %s", buf.String())
	}
}

func TestNewLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.Logger{Enabled: false})

	logger.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %s", buf.String())
	}
}
