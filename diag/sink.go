package diag

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"
)

// Sink receives diagnostics. Add must not fail and must not block on
// output errors; a sink that cannot deliver a diagnostic drops it.
type Sink interface {
	Add(d Diagnostic)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Diagnostic)

// Add calls f(d).
func (f SinkFunc) Add(d Diagnostic) { f(d) }

// Discard is a Sink that drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Multi returns a Sink that forwards every diagnostic to each of sinks,
// in order. Nil sinks are skipped.
func Multi(sinks ...Sink) Sink {
	var out multiSink
	for _, s := range sinks {
		if s == nil {
			continue
		}
		if m, ok := s.(multiSink); ok {
			out = append(out, m...)
			continue
		}
		out = append(out, s)
	}
	return out
}

type multiSink []Sink

func (m multiSink) Add(d Diagnostic) {
	for _, s := range m {
		s.Add(d)
	}
}

// Collector accumulates diagnostics in arrival order. It is safe for
// concurrent use. Identical diagnostics are kept as separate entries.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add appends d.
func (c *Collector) Add(d Diagnostic) {
	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of the collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.diags)
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

// Gerrit returns the collected diagnostics as unresolved Gerrit comments.
func (c *Collector) Gerrit() []GerritComment {
	return GerritComments(c.Diagnostics())
}

// LogSink writes each diagnostic to a slog.Logger at warn level.
// A nil Logger discards.
type LogSink struct {
	Logger *slog.Logger
}

// Add logs d.
func (s LogSink) Add(d Diagnostic) {
	if s.Logger == nil {
		return
	}
	msg := d.Message
	if d.Line > 0 {
		msg = "Line " + strconv.Itoa(d.Line) + ": " + msg
	}
	attrs := []slog.Attr{slog.String("path", d.Path)}
	if d.Code != "" {
		attrs = append(attrs, slog.String("code", d.Code))
	}
	s.Logger.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
}

// Filter returns a Sink that forwards to next only the diagnostics the
// config reports.
func Filter(next Sink, cfg Config) Sink {
	if len(cfg.Ignore) == 0 && len(cfg.Only) == 0 {
		return next
	}
	return SinkFunc(func(d Diagnostic) {
		if cfg.ShouldReport(d.Code) {
			next.Add(d)
		}
	})
}

// Locked returns a Sink that serializes calls to next. Use it to share a
// sink that is not safe for concurrent use between parallel lint tasks.
func Locked(next Sink) Sink {
	if _, ok := next.(*Collector); ok {
		return next
	}
	return &lockedSink{next: next}
}

type lockedSink struct {
	mu   sync.Mutex
	next Sink
}

func (s *lockedSink) Add(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next.Add(d)
}
