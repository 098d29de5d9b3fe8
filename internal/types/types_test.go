package types

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/chromeos/adhd/devtools/ucmlint/internal/testutil"
)

func TestNilLogger(t *testing.T) {
	var l Logger
	testutil.False(t, l.Enabled(slog.LevelError), "nil logger enabled")
	testutil.False(t, l.TraceEnabled(), "nil logger trace")
	l.Log(slog.LevelError, "dropped")
	l.Trace("dropped")
	testutil.True(t, Component(nil, "parser") == nil, "component of nil logger")
}

func TestTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelTrace})
	l := Logger{L: Component(slog.New(h), "lint")}

	testutil.True(t, l.TraceEnabled(), "trace enabled")
	l.Trace("item", slog.Int("line", 7))

	out := buf.String()
	testutil.Contains(t, out, "level=DEBUG-4", "trace level name")
	testutil.Contains(t, out, "component=lint", "component attr")
	testutil.Contains(t, out, "line=7", "attr")
}

func TestDebugHidesTrace(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	testutil.False(t, l.TraceEnabled(), "trace below debug")
	l.Trace("hidden")
	l.Log(slog.LevelDebug, "shown")
	testutil.False(t, strings.Contains(buf.String(), "hidden"), "trace record emitted")
	testutil.Contains(t, buf.String(), "shown", "debug record")
}
