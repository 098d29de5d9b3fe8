package ucmlint

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/chromeos/adhd/devtools/ucmlint/diag"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/layout"
	"github.com/chromeos/adhd/devtools/ucmlint/internal/types"
)

// LintFile parses and lints a single HiFi.conf for cardName. A syntax
// error becomes one syntax-error diagnostic. The returned error is non-nil
// only when the file cannot be read or ctx is done.
func LintFile(ctx context.Context, path, cardName string, opts ...Option) ([]diag.Diagnostic, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := newLintConfig(opts)
	if cfg.cardName != "" {
		cardName = cfg.cardName
	}
	data, err := cfg.src.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	col := diag.NewCollector()
	if err := lintSource(path, data, cardName, &cfg, cfg.sinkFor(col)); err != nil {
		return col.Diagnostics(), err
	}
	return col.Diagnostics(), nil
}

// LintDir checks one UCM directory: the path layout, the card-level
// <ucm name>.conf and HiFi.conf. A missing file is reported as a
// missing-file diagnostic rather than an error.
func LintDir(ctx context.Context, dir string, opts ...Option) ([]diag.Diagnostic, error) {
	cfg := newLintConfig(opts)
	col := diag.NewCollector()
	err := lintDir(ctx, dir, &cfg, cfg.sinkFor(col))
	return col.Diagnostics(), err
}

// LintDirs checks several UCM directories in parallel, at most
// WithConcurrency at a time. Diagnostics are returned grouped by
// directory in input order. On the first error, remaining directories are
// skipped and the error is returned with whatever was collected so far.
func LintDirs(ctx context.Context, dirs []string, opts ...Option) ([]diag.Diagnostic, error) {
	if len(dirs) == 0 {
		return nil, ErrNoDirectories
	}
	cfg := newLintConfig(opts)
	if cfg.sink != nil {
		cfg.sink = diag.Locked(cfg.sink)
	}

	logger := cfg.logger
	if logger != nil && logger.Enabled(ctx, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "parallel linting",
			slog.Int("dirs", len(dirs)),
			slog.Int("concurrency", cfg.concurrency))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	collectors := make([]*diag.Collector, len(dirs))
	errs := make([]error, len(dirs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.concurrency)

	for i, dir := range dirs {
		collectors[i] = diag.NewCollector()
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			case sem <- struct{}{}:
			}
			defer func() { <-sem }()

			if err := lintDir(ctx, dir, &cfg, cfg.sinkFor(collectors[i])); err != nil {
				errs[i] = err
				cancel()
			}
		}()
	}
	wg.Wait()

	var out []diag.Diagnostic
	for _, c := range collectors {
		out = append(out, c.Diagnostics()...)
	}

	if logger != nil && logger.Enabled(ctx, slog.LevelInfo) {
		logger.LogAttrs(ctx, slog.LevelInfo, "parallel linting complete",
			slog.Int("diagnostics", len(out)))
	}
	return out, firstError(errs)
}

// firstError prefers a real failure over the cancellation it triggered.
func firstError(errs []error) error {
	var canceled error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			if canceled == nil {
				canceled = err
			}
		default:
			return err
		}
	}
	return canceled
}

func lintDir(ctx context.Context, dir string, cfg *lintConfig, sink diag.Sink) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	log := types.Logger{L: types.Component(cfg.logger, "dir")}

	fi, err := cfg.src.Stat(dir)
	if err != nil {
		return fmt.Errorf("lint %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("lint %s: not a directory", dir)
	}

	info := layout.InspectPaths(dir, cfg.src, sink, types.Component(cfg.logger, "layout"))
	cardName := info.CardName
	if cfg.cardName != "" {
		cardName = cfg.cardName
	}
	log.Log(slog.LevelDebug, "linting directory",
		slog.String("dir", dir),
		slog.String("card", cardName),
		slog.String("project", info.Project))

	confPath := cfg.src.Join(dir, info.CardConfName())
	data, ok, err := readRequired(cfg.src, confPath, sink)
	if err != nil {
		return err
	}
	if ok {
		layout.CheckCardConf(confPath, data, info.Project, sink)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	hifiPath := cfg.src.Join(dir, HiFiConf)
	data, ok, err = readRequired(cfg.src, hifiPath, sink)
	if err != nil || !ok {
		return err
	}
	return lintSource(hifiPath, data, cardName, cfg, sink)
}

// readRequired reads a file that must exist. A missing file is reported to
// sink and ok is false; other read failures are returned.
func readRequired(src source, path string, sink diag.Sink) (data []byte, ok bool, err error) {
	data, err = src.ReadFile(path)
	switch {
	case err == nil:
		return data, true, nil
	case errors.Is(err, fs.ErrNotExist):
		sink.Add(diag.Diagnostic{
			Path:    path,
			Code:    diag.CodeMissingFile,
			Message: "Missing " + path,
		})
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
}
