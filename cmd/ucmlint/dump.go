package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"

	"github.com/chromeos/adhd/devtools/ucmlint"
	"github.com/chromeos/adhd/devtools/ucmlint/diag"
)

const dumpUsage = `ucmlint dump - Print the parsed tree of a HiFi.conf

Usage:
  ucmlint dump [options] FILE

Options:
  --json        Output the tree as JSON instead of a Go value dump
  --card NAME   Also run the lint rules for card NAME
  -h, --help    Show help

Parse diagnostics (and lint diagnostics with --card) follow the tree.

Examples:
  ucmlint dump HiFi.conf
  ucmlint dump --json HiFi.conf | jq '.devices[].name'
  ucmlint dump --card sof-rt5682 HiFi.conf
`

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func (c *cli) cmdDump(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() { fmt.Fprint(c.stderr, dumpUsage) }

	asJSON := fs.Bool("json", false, "JSON output")
	card := fs.String("card", "", "card name for lint rules")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.helpFlag {
		_, _ = fmt.Fprint(c.stdout, dumpUsage)
		return exitOK
	}

	if fs.NArg() != 1 {
		c.printError("expected exactly one file")
		fmt.Fprint(c.stderr, dumpUsage)
		return exitError
	}
	path := fs.Arg(0)

	src, err := os.ReadFile(path)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}

	col := diag.NewCollector()
	opts := []ucmlint.Option{ucmlint.WithSink(col)}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, ucmlint.WithLogger(logger))
	}
	doc, err := ucmlint.ParseDocument(src, path, opts...)
	var serr *ucmlint.SyntaxError
	switch {
	case errors.As(err, &serr):
		col.Add(diag.Diagnostic{
			Path:    serr.Path,
			Line:    serr.Line,
			Code:    diag.CodeSyntaxError,
			Message: serr.Message(),
		})
	case err != nil:
		c.printError("%v", err)
		return exitError
	default:
		if *card != "" {
			ucmlint.LintDocument(doc, *card, col)
		}
	}

	if doc != nil {
		if *asJSON {
			if err := printDumpJSON(c.stdout, buildDocumentJSON(doc, col.Diagnostics())); err != nil {
				c.printError("failed to marshal JSON: %v", err)
				return exitError
			}
		} else {
			dumpConfig.Fdump(c.stdout, doc)
		}
	}

	if doc == nil || !*asJSON {
		for _, d := range col.Diagnostics() {
			_, _ = fmt.Fprintln(c.stdout, d.String())
		}
	}
	if col.Len() > 0 {
		return exitDiagnostics
	}
	return exitOK
}

// DocumentJSON is the JSON form of a parsed HiFi.conf.
type DocumentJSON struct {
	Path        string           `json:"path"`
	Verb        SectionJSON      `json:"verb"`
	Devices     []SectionJSON    `json:"devices,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"`
}

// SectionJSON holds a SectionVerb or SectionDevice.
type SectionJSON struct {
	Name            string     `json:"name,omitempty"`
	Line            int        `json:"line"`
	Type            string     `json:"type,omitempty"`
	Value           []ItemJSON `json:"value"`
	EnableSequence  []ItemJSON `json:"enableSequence"`
	DisableSequence []ItemJSON `json:"disableSequence"`
}

// ItemJSON holds a key/value item.
type ItemJSON struct {
	Line  int    `json:"line"`
	Key   string `json:"key"`
	Value string `json:"value"`
	Raw   string `json:"raw,omitempty"`
}

// DiagnosticJSON holds a parse or lint diagnostic.
type DiagnosticJSON struct {
	Line    int    `json:"line,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func buildDocumentJSON(doc *ucmlint.Document, diags []diag.Diagnostic) *DocumentJSON {
	out := &DocumentJSON{
		Path: doc.Path,
		Verb: buildSectionJSON(doc.Verb),
	}
	for _, dev := range doc.Devices {
		out.Devices = append(out.Devices, buildSectionJSON(dev))
	}
	for _, d := range diags {
		out.Diagnostics = append(out.Diagnostics, DiagnosticJSON{
			Line:    d.Line,
			Code:    d.Code,
			Message: d.Message,
		})
	}
	return out
}

func buildSectionJSON(s *ucmlint.Section) SectionJSON {
	out := SectionJSON{
		Name:            s.Name,
		Line:            s.Line,
		Value:           buildItemsJSON(s.Value),
		EnableSequence:  buildItemsJSON(s.EnableSequence),
		DisableSequence: buildItemsJSON(s.DisableSequence),
	}
	if !s.IsVerb() {
		if t, ok := ucmlint.ClassifyDevice(s.Name); ok {
			out.Type = t.String()
		}
	}
	return out
}

func buildItemsJSON(b *ucmlint.Block) []ItemJSON {
	items := make([]ItemJSON, 0, len(b.Items))
	for _, item := range b.Items {
		ij := ItemJSON{Line: item.Line, Key: item.Key, Value: item.Value}
		if item.Opaque() {
			ij.Raw = item.RawValue
		}
		items = append(items, ij)
	}
	return items
}

func printDumpJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
