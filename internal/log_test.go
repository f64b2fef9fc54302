package internal

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"ERROR": LogLevelError,
		"warn":  LogLevelWarn,
		"":      LogLevelInfo,
		"DEBUG": LogLevelDebug,
		"TRACE": LogLevelTrace,
		"bogus": LogLevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %d, expected %d", in, got, want)
		}
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LogLevelWarn).With("Loader")

	logger.Info("hidden %d", 1)
	logger.Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at WARN level: %s", out)
	}
	if !strings.Contains(out, "shown 2") || !strings.Contains(out, `"component":"Loader"`) {
		t.Errorf("expected warn message with component, got: %s", out)
	}
}
