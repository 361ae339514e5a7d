package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"cfmt/internal/logging"
)

func TestNewWriterLevels(t *testing.T) {
	cases := map[string]log.Level{
		"trace":   log.DebugLevel,
		"debug":   log.DebugLevel,
		"INFO":    log.InfoLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"bogus":   log.WarnLevel,
	}
	for level, want := range cases {
		if got := logging.NewWriter(&bytes.Buffer{}, level).GetLevel(); got != want {
			t.Errorf("level %q = %v, want %v", level, got, want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWriter(&buf, "debug")
	ctx := logging.WithLogger(context.Background(), logger)
	logging.FromContext(ctx).Debug("stamp", logging.FieldToken, "SEMI")
	if !strings.Contains(buf.String(), "stamp") {
		t.Errorf("log output %q lacks the message", buf.String())
	}
	if logging.FromContext(context.Background()) != logging.Default() {
		t.Error("empty context must yield the default logger")
	}
}

func TestTracing(t *testing.T) {
	if !logging.Tracing("TRACE") || logging.Tracing("debug") {
		t.Error("only the trace level enables tracing")
	}
}
