// Package lexer splits UCM source text into the significant lines the
// parser consumes.
package lexer

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/chromeos/adhd/devtools/ucmlint/internal/types"
)

// Line is one significant source line.
type Line struct {
	Number int    // 1-based
	Text   string // raw text, leading indentation preserved
}

// String returns "number: text".
func (l Line) String() string {
	return fmt.Sprintf("%d: %s", l.Number, l.Text)
}

// Cursor is a restartable front-to-back view over the significant lines of
// a source file. Blank lines and full-line comments are removed at
// construction and never exposed.
type Cursor struct {
	lines []Line
	pos   int
	types.Logger
}

// New returns a Cursor over src. Pass nil for logger to disable logging.
func New(src []byte, logger *slog.Logger) *Cursor {
	c := &Cursor{Logger: types.Logger{L: logger}}
	c.lines = splitLines(src)
	c.Log(slog.LevelDebug, "lexer initialized",
		slog.Int("bytes", len(src)),
		slog.Int("lines", len(c.lines)))
	return c
}

// splitLines keeps every line that is neither blank nor a comment.
// Both "\n" and "\r\n" endings are accepted.
func splitLines(src []byte) []Line {
	estimated := max(bytes.Count(src, []byte{'\n'}), 16)
	lines := make([]Line, 0, estimated)
	number := 0
	for len(src) > 0 {
		number++
		var raw []byte
		if i := bytes.IndexByte(src, '\n'); i >= 0 {
			raw, src = src[:i], src[i+1:]
		} else {
			raw, src = src, nil
		}
		raw = bytes.TrimSuffix(raw, []byte{'\r'})
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] == '#' {
			continue
		}
		lines = append(lines, Line{Number: number, Text: string(raw)})
	}
	return lines
}

// Done reports whether every line has been consumed.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.lines)
}

// Len returns the number of lines not yet consumed.
func (c *Cursor) Len() int {
	return len(c.lines) - c.pos
}

// Line returns the current line. It panics when the cursor is exhausted;
// callers check Done first.
func (c *Cursor) Line() Line {
	if c.Done() {
		panic("lexer: read past end of input")
	}
	return c.lines[c.pos]
}

// Text returns the raw text of the current line.
func (c *Cursor) Text() string {
	return c.Line().Text
}

// Number returns the line number of the current line.
func (c *Cursor) Number() int {
	return c.Line().Number
}

// Pop consumes and returns the current line. It panics when the cursor is
// exhausted.
func (c *Cursor) Pop() Line {
	l := c.Line()
	c.pos++
	if c.TraceEnabled() {
		c.Trace("line", slog.Int("line", l.Number), slog.String("text", l.Text))
	}
	return l
}

// Reset rewinds the cursor to the first line.
func (c *Cursor) Reset() {
	c.pos = 0
}

// Lines returns a copy of all significant lines.
func (c *Cursor) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}
