package main

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/chromeos/adhd/devtools/ucmlint"
	"github.com/chromeos/adhd/devtools/ucmlint/cmd/internal/cliutil"
	"github.com/chromeos/adhd/devtools/ucmlint/diag"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/config"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/layout"
)

const lintUsage = `ucmlint lint - Check UCM configuration directories

Usage:
  ucmlint lint [options] DIR...

Options:
  --format FMT       Output format: text, compact, json, gerrit, sarif (default: text)
  --ignore CODE      Ignore diagnostic codes (repeatable, supports globs like "jack*")
  --only CODE        Only report these codes (repeatable)
  --card NAME        Card name for the HiFi.conf rules (default: from directory name)
  --config FILE      Configuration file (default: .ucmlint.yaml if present)
  --from-files FILE  Lint the UCM directories containing the files listed in
                     FILE, one per line ("-" for stdin)
  --output FILE      Write output to FILE instead of stdout
  --change N         Gerrit change number for --format gerrit
  --revision N       Gerrit revision number for --format gerrit
  -j N               Directories checked in parallel (default: number of CPUs)
  --quiet            No output, exit code only
  -h, --help         Show help

Exit status is 0 when no issues are found, 1 when any are found and 2 on
usage or I/O errors.

Examples:
  ucmlint lint ucm-config/sof-rt5682
  ucmlint lint --ignore playback-channels ucm-config/*
  ucmlint lint --format json ucm-config/sof-rt5682
  ucmlint lint --format gerrit --change 4012345 --revision 3 DIR...
  git diff --name-only HEAD~ | ucmlint lint --from-files -
`

type lintFlags struct {
	cfg        config.Config
	configFile string
	fromFiles  string
	output     string
	change     int
	revision   int
	quiet      bool
}

type lintResult struct {
	Diagnostics []lintDiagnostic `json:"diagnostics,omitempty"`
	Summary     lintSummary      `json:"summary"`
}

type lintDiagnostic struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
}

type lintSummary struct {
	Total       int            `json:"total"`
	ByCode      map[string]int `json:"by_code,omitempty"`
	Directories int            `json:"directories"`
}

func (c *cli) cmdLint(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() { fmt.Fprint(c.stderr, lintUsage) }

	var f lintFlags
	fs.StringVar(&f.cfg.Format, "format", "", "output format")
	fs.Func("ignore", "ignore codes", func(s string) error {
		f.cfg.Ignore = append(f.cfg.Ignore, s)
		return nil
	})
	fs.Func("only", "only report these codes", func(s string) error {
		f.cfg.Only = append(f.cfg.Only, s)
		return nil
	})
	fs.StringVar(&f.cfg.Card, "card", "", "card name")
	fs.IntVar(&f.cfg.Concurrency, "j", 0, "parallel directories")
	fs.StringVar(&f.configFile, "config", "", "configuration file")
	fs.StringVar(&f.fromFiles, "from-files", "", "file listing changed files")
	fs.StringVar(&f.output, "output", "", "output file")
	fs.IntVar(&f.change, "change", 0, "Gerrit change number")
	fs.IntVar(&f.revision, "revision", 0, "Gerrit revision number")
	fs.BoolVar(&f.quiet, "quiet", false, "no output")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}

	if *help || c.helpFlag {
		_, _ = fmt.Fprint(c.stdout, lintUsage)
		return exitOK
	}

	cfg, err := loadConfig(f.configFile)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}
	cfg = config.Merge(cfg, f.cfg)
	if err := cfg.Validate(); err != nil {
		c.printError("%v", err)
		return exitError
	}

	dirs := fs.Args()
	if f.fromFiles != "" {
		files, err := cliutil.ReadLines(f.fromFiles, c.stdin)
		if err != nil {
			c.printError("read file list: %v", err)
			return exitError
		}
		dirs = append(dirs, layout.UCMDirs(files)...)
	}
	if len(dirs) == 0 {
		if f.fromFiles != "" {
			// Nothing in the change touches UCM files.
			return exitOK
		}
		c.printError("no directories specified")
		fmt.Fprint(c.stderr, lintUsage)
		return exitError
	}

	opts := []ucmlint.Option{ucmlint.WithConfig(cfg.Diag())}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, ucmlint.WithLogger(logger))
	}
	if cfg.Concurrency > 0 {
		opts = append(opts, ucmlint.WithConcurrency(cfg.Concurrency))
	}
	if cfg.Card != "" {
		opts = append(opts, ucmlint.WithCardName(cfg.Card))
	}

	diags, err := ucmlint.LintDirs(ctx, dirs, opts...)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}
	result := buildLintResult(diags, len(dirs))

	if !f.quiet {
		outFile := f.output
		if outFile == "" && cfg.Format == "gerrit" && f.change > 0 {
			outFile = fmt.Sprintf("%d-%d-diags.json", f.change, f.revision)
		}
		w, done, err := cliutil.GetOutput(outFile, c.stdout)
		if err != nil {
			c.printError("open output: %v", err)
			return exitError
		}
		switch cfg.Format {
		case "json":
			err = printLintJSON(w, result)
		case "gerrit":
			err = printLintGerrit(w, diags, f.change, f.revision)
		case "sarif":
			err = printLintSARIF(w, result)
		case "compact":
			printLintCompact(w, result)
		default:
			printLintText(w, result)
		}
		closeErr := done()
		if err != nil {
			c.printError("output encoding failed: %v", err)
			return exitError
		}
		if closeErr != nil {
			c.printError("write output: %v", closeErr)
			return exitError
		}
		if outFile != "" && outFile != f.output {
			_, _ = fmt.Fprintf(c.stderr, "diagnostics saved to %s\n", outFile)
		}
	}

	if result.Summary.Total > 0 {
		return exitDiagnostics
	}
	return exitOK
}

// loadConfig reads the named configuration file, or config.FileName in
// the working directory when it exists.
func loadConfig(name string) (config.Config, error) {
	base := config.Defaults()
	if name == "" {
		if _, err := os.Stat(config.FileName); errors.Is(err, fs.ErrNotExist) {
			return base, nil
		}
		name = config.FileName
	}
	cfg, err := config.Load(name)
	if err != nil {
		return config.Config{}, err
	}
	return config.Merge(base, cfg), nil
}

// buildLintResult orders diagnostics by path and line. Findings on the
// same line keep the order they were reported in.
func buildLintResult(diags []diag.Diagnostic, dirs int) *lintResult {
	diags = slices.Clone(diags)
	slices.SortStableFunc(diags, diag.Compare)
	result := &lintResult{
		Summary: lintSummary{
			ByCode:      make(map[string]int),
			Directories: dirs,
		},
	}
	for _, d := range diags {
		result.Diagnostics = append(result.Diagnostics, lintDiagnostic{
			Code:    d.Code,
			Message: d.Message,
			Path:    d.Path,
			Line:    d.Line,
		})
		result.Summary.Total++
		result.Summary.ByCode[d.Code]++
	}
	return result
}

func (d lintDiagnostic) location() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d", d.Path, d.Line)
	}
	return d.Path
}

func printLintText(w io.Writer, result *lintResult) {
	for _, d := range result.Diagnostics {
		fmt.Fprintf(w, "%s: %s [%s]\n", d.location(), d.Message, d.Code)
	}

	if result.Summary.Total == 0 {
		fmt.Fprintf(w, "No issues found in %d directories\n", result.Summary.Directories)
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Checked %d directories, found %d issues:\n", result.Summary.Directories, result.Summary.Total)
	codes := make([]string, 0, len(result.Summary.ByCode))
	for code := range result.Summary.ByCode {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "  %-20s %d\n", code+":", result.Summary.ByCode[code])
	}
}

// printLintCompact prints one line per diagnostic. Multi-line messages are
// cut to their first line.
func printLintCompact(w io.Writer, result *lintResult) {
	for _, d := range result.Diagnostics {
		msg, _, _ := strings.Cut(d.Message, "\n")
		fmt.Fprintf(w, "%s: [%s] %s\n", d.location(), d.Code, msg)
	}
}

func printLintJSON(w io.Writer, result *lintResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// printLintGerrit writes the draft comment document for a change revision.
func printLintGerrit(w io.Writer, diags []diag.Diagnostic, change, revision int) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diag.GerritReview{
		ChangeID: change,
		Revision: revision,
		Comments: diag.GerritComments(diags),
	})
}

// SARIF (Static Analysis Results Interchange Format) output
// https://sarifweb.azurewebsites.net/
func printLintSARIF(w io.Writer, result *lintResult) error {
	sarif := sarifOutput{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{
				Driver: sarifDriver{
					Name:           "ucmlint",
					InformationURI: "https://chromium.googlesource.com/chromiumos/third_party/adhd/+/HEAD/devtools/ucmlint",
					Rules:          buildSARIFRules(result),
				},
			},
			Results: buildSARIFResults(result),
		}},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarif)
}

type sarifOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           *sarifRegion  `json:"region,omitempty"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine,omitempty"`
}

// Every diagnostic is advisory, so all results share one level.
const sarifLevel = "warning"

func buildSARIFRules(result *lintResult) []sarifRule {
	phases := make(map[string]string)
	for _, info := range diag.AllCodes() {
		phases[info.Code] = info.Phase
	}

	seen := make(map[string]bool)
	var rules []sarifRule
	for _, d := range result.Diagnostics {
		if d.Code == "" || seen[d.Code] {
			continue
		}
		seen[d.Code] = true
		desc := d.Code
		if phase := phases[d.Code]; phase != "" {
			desc = phase + ": " + d.Code
		}
		rules = append(rules, sarifRule{
			ID:               d.Code,
			ShortDescription: sarifMessage{Text: desc},
			DefaultConfig:    sarifDefaultConfig{Level: sarifLevel},
		})
	}

	slices.SortFunc(rules, func(a, b sarifRule) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return rules
}

func buildSARIFResults(result *lintResult) []sarifResult {
	results := make([]sarifResult, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		r := sarifResult{
			RuleID:  d.Code,
			Level:   sarifLevel,
			Message: sarifMessage{Text: d.Message},
		}
		if d.Path != "" {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifact{URI: d.Path},
				},
			}
			if d.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{StartLine: d.Line}
			}
			r.Locations = append(r.Locations, loc)
		}
		results = append(results, r)
	}
	return results
}
