package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestSetupLoggerTo(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLoggerTo(&buf, "verbose", "report")

	out := buf.String()
	if !strings.Contains(out, "Invalid LOG_LEVEL") {
		t.Fatalf("expected warning for unknown level, got %q", out)
	}
	if logger.Component() != "report" {
		t.Fatalf("component=%q", logger.Component())
	}

	buf.Reset()
	logger = SetupLoggerTo(&buf, "error", "app")
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info must be filtered at error level: %q", buf.String())
	}
}
