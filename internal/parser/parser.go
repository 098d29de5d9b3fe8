// Package parser provides recursive-descent parsing of UCM HiFi.conf files
// into an AST.
//
// The grammar is line oriented:
//
//	Document     := VerbSection Device*
//	VerbSection  := "SectionVerb {" Blocks "}"
//	Device       := 'SectionDevice."' NAME '".0 {' Blocks '}'
//	Blocks       := ValueBlock EnableBlock DisableBlock
//	ValueBlock   := "Value {" Item* "}"
//	EnableBlock  := "EnableSequence [" Item* "]"
//	DisableBlock := "DisableSequence [" Item* "]"
//	Item         := KEY QUOTED_VALUE
//
// Structural violations (wrong header or delimiter literals, mismatched
// block delimiters, truncated input) abort the parse with a *SyntaxError.
// Indentation and value-quoting problems are reported to the diagnostic
// sink and parsing continues, so one bad line does not hide the rest of the
// file.
package parser

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/chromeos/adhd/devtools/ucmlint/diag"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/ast"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/lexer"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/types"
)

// Indentation depths, in tabs, relative to the section header.
const (
	blockIndent = 1
	itemIndent  = 2
)

// SyntaxError is a structural violation that stops parsing.
type SyntaxError struct {
	Path     string
	Line     int // 0 when the input ended early and had no lines at all
	Expected string
	Got      string
}

// Message returns the error without the location prefix.
func (e *SyntaxError) Message() string {
	return fmt.Sprintf("expecting %s, got %s", e.Expected, e.Got)
}

// Error returns "path:line: expecting X, got Y".
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message())
}

// Parser converts the significant lines of a HiFi.conf into an AST,
// reporting soft problems to a diagnostic sink.
type Parser struct {
	path     string
	cur      *lexer.Cursor
	sink     diag.Sink
	lastLine int
	warnings int
	types.Logger
}

// New returns a Parser for src. path is recorded in every node and
// diagnostic. Pass nil for sink to drop soft diagnostics and nil for logger
// to disable logging.
func New(path string, src []byte, sink diag.Sink, logger *slog.Logger) *Parser {
	if sink == nil {
		sink = diag.Discard
	}
	p := &Parser{
		path:   path,
		cur:    lexer.New(src, types.Component(logger, "lexer")),
		sink:   sink,
		Logger: types.Logger{L: logger},
	}
	p.Log(slog.LevelDebug, "parser initialized", slog.String("path", path))
	return p
}

// Parse is shorthand for New(path, src, sink, logger).Parse().
func Parse(path string, src []byte, sink diag.Sink, logger *slog.Logger) (*ast.Document, error) {
	return New(path, src, sink, logger).Parse()
}

// Warnings returns the number of soft diagnostics reported so far.
func (p *Parser) Warnings() int {
	return p.warnings
}

// Parse parses the whole input. On a structural violation it returns a
// *SyntaxError and no document; soft diagnostics reported before the
// violation stay in the sink.
func (p *Parser) Parse() (*ast.Document, error) {
	doc, err := p.parseDocument()
	if err != nil {
		p.Log(slog.LevelDebug, "parse failed",
			slog.String("path", p.path),
			slog.String("error", err.Error()))
		return nil, err
	}
	p.Log(slog.LevelDebug, "parsing complete",
		slog.String("path", p.path),
		slog.Int("devices", len(doc.Devices)),
		slog.Int("warnings", p.warnings))
	return doc, nil
}

func (p *Parser) parseDocument() (*ast.Document, error) {
	header, err := p.expect(ast.VerbHeader)
	if err != nil {
		return nil, err
	}
	verb, err := p.parseSection(header, "")
	if err != nil {
		return nil, err
	}
	doc := ast.NewDocument(p.path, verb)

	for !p.cur.Done() {
		header, name, err := p.parseDeviceHeader()
		if err != nil {
			return nil, err
		}
		dev, err := p.parseSection(header, name)
		if err != nil {
			return nil, err
		}
		doc.Devices = append(doc.Devices, dev)
	}
	return doc, nil
}

// parseDeviceHeader matches `SectionDevice."<name>".0 {` by its literal
// prefix and suffix.
func (p *Parser) parseDeviceHeader() (lexer.Line, string, error) {
	text := p.cur.Text()
	if !strings.HasPrefix(text, ast.DeviceHeaderPrefix) {
		return lexer.Line{}, "", p.errorf("line starting with `%s`", ast.DeviceHeaderPrefix)
	}
	if !strings.HasSuffix(text, ast.DeviceHeaderSuffix) ||
		len(text) < len(ast.DeviceHeaderPrefix)+len(ast.DeviceHeaderSuffix) {
		return lexer.Line{}, "", p.errorf("line ending with `%s`", ast.DeviceHeaderSuffix)
	}
	name := text[len(ast.DeviceHeaderPrefix) : len(text)-len(ast.DeviceHeaderSuffix)]
	return p.pop(), name, nil
}

func (p *Parser) parseSection(header lexer.Line, name string) (*ast.Section, error) {
	s := &ast.Section{Pos: p.pos(header), Name: name}
	var err error
	if s.Value, err = p.parseBlock(ast.BlockValue); err != nil {
		return nil, err
	}
	if s.EnableSequence, err = p.parseBlock(ast.BlockEnableSequence); err != nil {
		return nil, err
	}
	if s.DisableSequence, err = p.parseBlock(ast.BlockDisableSequence); err != nil {
		return nil, err
	}
	if _, err := p.expect(ast.SectionClose); err != nil {
		return nil, err
	}
	p.Log(slog.LevelDebug, "parsed section",
		slog.String("name", name),
		slog.Int("line", header.Number))
	return s, nil
}

func (p *Parser) parseBlock(kind ast.BlockKind) (*ast.Block, error) {
	want := kind.Header()
	if p.cur.Done() {
		return nil, p.eofError("`" + want + "`")
	}
	if got := p.getline(blockIndent); got != want {
		return nil, p.errorf("`%s`", want)
	}
	b := &ast.Block{Pos: p.pos(p.pop()), Kind: kind}

	_, closing := kind.Delimiters()
	for {
		if p.cur.Done() {
			return nil, p.eofError("`" + closing + "`")
		}
		trimmed := strings.TrimSpace(p.cur.Text())
		if trimmed == closing {
			p.pop()
			break
		}
		if trimmed == "}" || trimmed == "]" {
			return nil, p.errorf("`%s` to close %s", closing, kind)
		}
		b.Items = append(b.Items, p.parseItem())
	}
	return b, nil
}

// parseItem splits an item line on its first space into key and raw value.
// Quoting problems are soft: the item keeps ast.Unparsable as its value.
func (p *Parser) parseItem() *ast.Item {
	text := p.getline(itemIndent)
	line := p.pop()
	key, raw, _ := strings.Cut(text, " ")
	item := &ast.Item{Pos: p.pos(line), Key: key, RawValue: raw}

	trimmed := strings.TrimSpace(raw)
	if trimmed != raw {
		p.warnAt(line.Number, diag.CodeValueWhitespace, "redundant whitespace around value")
	}
	if len(trimmed) < 2 || trimmed[0] != '"' || trimmed[len(trimmed)-1] != '"' {
		p.warnAt(line.Number, diag.CodeValueQuoting, "improperly quoted value")
		item.Value = ast.Unparsable
	} else {
		item.Value = trimmed[1 : len(trimmed)-1]
	}

	if p.TraceEnabled() {
		p.Trace("item",
			slog.Int("line", line.Number),
			slog.String("key", item.Key),
			slog.String("value", item.Value))
	}
	return item
}

// getline returns the current line without surrounding whitespace,
// reporting a soft diagnostic if it is not indented by exactly indent tabs.
func (p *Parser) getline(indent int) string {
	text := p.cur.Text()
	trimmed := strings.TrimLeft(text, " \t")
	if text[:len(text)-len(trimmed)] != strings.Repeat("\t", indent) {
		p.warnAt(p.cur.Number(), diag.CodeIndentation, fmt.Sprintf("Want %d tabs", indent))
	}
	return strings.TrimSpace(trimmed)
}

// expect consumes the current line if it equals exact.
func (p *Parser) expect(exact string) (lexer.Line, error) {
	if p.cur.Done() {
		return lexer.Line{}, p.eofError("`" + exact + "`")
	}
	if p.cur.Text() != exact {
		return lexer.Line{}, p.errorf("`%s`", exact)
	}
	return p.pop(), nil
}

func (p *Parser) pop() lexer.Line {
	l := p.cur.Pop()
	p.lastLine = l.Number
	return l
}

func (p *Parser) pos(l lexer.Line) ast.Pos {
	return ast.Pos{Path: p.path, Line: l.Number, Text: l.Text}
}

func (p *Parser) warnAt(line int, code, msg string) {
	p.warnings++
	p.sink.Add(diag.Diagnostic{Path: p.path, Line: line, Code: code, Message: msg})
}

// errorf builds a SyntaxError at the current line.
func (p *Parser) errorf(format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Path:     p.path,
		Line:     p.cur.Number(),
		Expected: fmt.Sprintf(format, args...),
		Got:      "`" + p.cur.Text() + "`",
	}
}

func (p *Parser) eofError(expected string) *SyntaxError {
	return &SyntaxError{
		Path:     p.path,
		Line:     p.lastLine,
		Expected: expected,
		Got:      "end of file",
	}
}
