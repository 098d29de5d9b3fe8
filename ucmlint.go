// Package ucmlint checks ALSA Use Case Manager (UCM) configuration
// directories against the conventions of device-specific UCM files.
//
// A UCM directory holds a card-level <ucm name>.conf and a HiFi.conf. The
// linter validates where the directory sits in the board overlay, the
// content of the card-level file, and the structure and semantics of
// HiFi.conf. Findings are advisory diagnostics; only I/O failures and
// cancellation are returned as errors.
//
// Example:
//
//	diags, err := ucmlint.LintDir(ctx, "overlay-brya/.../ucm-config/sof-rt5682",
//	    ucmlint.WithLogger(slog.Default()),
//	)
//
//	// Several directories in parallel:
//	diags, err := ucmlint.LintDirs(ctx, dirs, ucmlint.WithConcurrency(4))
package ucmlint

import (
	"errors"
	"io/fs"
	"log/slog"
	"runtime"

	"github.com/chromeos/adhd/devtools/ucmlint/diag"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/lint"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/parser"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/types"
)

// ErrNoDirectories is returned when LintDirs is called with no directories.
var ErrNoDirectories = errors.New("no UCM directories provided")

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (lines, items, rules).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// HiFiConf is the file name of the use case configuration in a UCM
// directory.
const HiFiConf = "HiFi.conf"

// Option configures the lint functions.
type Option func(*lintConfig)

type lintConfig struct {
	logger      *slog.Logger
	sink        diag.Sink
	diagConfig  diag.Config
	concurrency int
	cardName    string
	src         source
}

func newLintConfig(opts []Option) lintConfig {
	cfg := lintConfig{
		concurrency: runtime.NumCPU(),
		src:         osSource{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}
	return cfg
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs (zero overhead).
func WithLogger(logger *slog.Logger) Option {
	return func(c *lintConfig) { c.logger = logger }
}

// WithSink sets a sink that receives every reported diagnostic as it is
// produced, in addition to the returned slice. LintDirs serializes calls
// to it.
func WithSink(sink diag.Sink) Option {
	return func(c *lintConfig) { c.sink = sink }
}

// WithConfig sets which diagnostic codes are reported.
func WithConfig(cfg diag.Config) Option {
	return func(c *lintConfig) { c.diagConfig = cfg }
}

// WithConcurrency bounds the number of directories LintDirs checks at
// once. Values below 1 mean 1. The default is runtime.NumCPU().
func WithConcurrency(n int) Option {
	return func(c *lintConfig) { c.concurrency = n }
}

// WithCardName overrides the card name inferred from the directory name.
func WithCardName(name string) Option {
	return func(c *lintConfig) { c.cardName = name }
}

// WithFS reads files from fsys instead of the operating system. Paths
// passed to the lint functions are then slash-separated fs.FS paths.
func WithFS(fsys fs.FS) Option {
	return func(c *lintConfig) { c.src = fsSource{fsys: fsys} }
}

// sinkFor returns the sink a single lint task reports to: the filtered
// fan-out to the task's collector and the user sink.
func (c *lintConfig) sinkFor(col *diag.Collector) diag.Sink {
	return diag.Filter(diag.Multi(col, c.sink), c.diagConfig)
}

// ParseDocument parses a HiFi.conf. path is recorded in the tree and in
// diagnostics. Soft parse diagnostics go to the WithSink sink; a
// structural violation is returned as *SyntaxError.
func ParseDocument(src []byte, path string, opts ...Option) (*Document, error) {
	cfg := newLintConfig(opts)
	var sink diag.Sink = diag.Discard
	if cfg.sink != nil {
		sink = diag.Filter(cfg.sink, cfg.diagConfig)
	}
	return parser.Parse(path, src, sink, types.Component(cfg.logger, "parser"))
}

// LintDocument applies the lint rules for cardName to a parsed document.
func LintDocument(doc *Document, cardName string, sink diag.Sink) {
	lint.Lint(doc, cardName, sink)
}

// lintSource parses and lints one HiFi.conf. A syntax error is reported as
// a single diagnostic and the rules are skipped.
func lintSource(path string, data []byte, cardName string, cfg *lintConfig, sink diag.Sink) error {
	doc, err := parser.Parse(path, data, sink, types.Component(cfg.logger, "parser"))
	if err != nil {
		var serr *parser.SyntaxError
		if !errors.As(err, &serr) {
			return err
		}
		sink.Add(diag.Diagnostic{
			Path:    serr.Path,
			Line:    serr.Line,
			Code:    diag.CodeSyntaxError,
			Message: serr.Message(),
		})
		return nil
	}
	lint.New(cardName, sink, types.Component(cfg.logger, "lint")).Document(doc)
	return nil
}
