// Package diag defines lint diagnostics and the sinks that receive them.
//
// Diagnostics are plain data: a file path, a 1-based line number (0 for
// file-level findings), a stable code and a message. There are no severity
// levels; every diagnostic is advisory output for a human reviewer.
//
// Producers (the parser, the lint rules, the layout checks) only ever call
// Sink.Add. Where the diagnostics end up (a log, a collected list, a Gerrit
// comment document) is decided by the caller that builds the sink.
package diag

import (
	"cmp"
	"fmt"
	"strings"
)

// Diagnostic is a single advisory finding.
type Diagnostic struct {
	Path    string // file path as given to the parser or checker
	Line    int    // 1-based line number, 0 if file-level
	Code    string // e.g., "pcm-missing", "value-quoting"
	Message string
}

// String returns a human-readable representation of the diagnostic.
// Format: "path:line: message [code]" with location parts omitted when empty.
func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Path != "" {
		b.WriteString(d.Path)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
		}
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	if d.Code != "" {
		b.WriteString(" [")
		b.WriteString(d.Code)
		b.WriteByte(']')
	}
	return b.String()
}

// Compare orders diagnostics by path, then line. Diagnostics on the same
// line keep their relative order under a stable sort.
func Compare(a, b Diagnostic) int {
	if c := cmp.Compare(a.Path, b.Path); c != 0 {
		return c
	}
	return cmp.Compare(a.Line, b.Line)
}
