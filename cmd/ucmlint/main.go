// Command ucmlint checks ALSA UCM configuration directories.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/chromeos/adhd/devtools/ucmlint"
	"github.com/chromeos/adhd/devtools/ucmlint/cmd/internal/cliutil"
)

// Exit codes.
const (
	exitOK          = 0 // no diagnostics
	exitDiagnostics = 1 // at least one diagnostic reported
	exitError       = 2 // usage, configuration or I/O error
)

const usage = `ucmlint - ALSA UCM configuration linter

Usage:
  ucmlint <command> [options] [arguments]

Commands:
  lint    Check UCM directories
  dump    Print the parsed tree of a HiFi.conf
  codes   List diagnostic codes
  version Show version

Common options:
  -v, --verbose     Enable debug logging
  -vv               Enable trace logging (implies -v)
  -h, --help        Show help

Examples:
  ucmlint lint overlay-brya/chromeos-base/chromeos-bsp-brya/files/brya/audio/ucm-config/sof-rt5682
  ucmlint lint --format gerrit --change 4012345 --revision 3 DIR...
  git diff --name-only HEAD~ | ucmlint lint --from-files -
  ucmlint dump HiFi.conf
`

type cli struct {
	verbose  int
	helpFlag bool
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	g, cmd, cmdArgs := cliutil.ParseArgs(args)
	c := &cli{
		verbose:  g.Verbose,
		helpFlag: g.HelpFlag,
		stdin:    os.Stdin,
		stdout:   stdout,
		stderr:   stderr,
	}

	if c.helpFlag && cmd == "" {
		_, _ = fmt.Fprint(c.stdout, usage)
		return exitOK
	}

	if cmd == "" {
		_, _ = fmt.Fprint(c.stderr, usage)
		return exitError
	}

	switch cmd {
	case "lint":
		return c.cmdLint(ctx, cmdArgs)
	case "dump":
		return c.cmdDump(cmdArgs)
	case "codes":
		return c.cmdCodes(cmdArgs)
	case "version":
		c.printVersion()
		return exitOK
	case "help":
		_, _ = fmt.Fprint(c.stdout, usage)
		return exitOK
	default:
		_, _ = fmt.Fprintf(c.stderr, "unknown command: %s\n\n", cmd)
		_, _ = fmt.Fprint(c.stderr, usage)
		return exitError
	}
}

func (c *cli) setupLogger() *slog.Logger {
	return cliutil.Logger(c.stderr, c.verbose, ucmlint.LevelTrace)
}

func (c *cli) printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	_, _ = fmt.Fprintf(c.stdout, "ucmlint %s\n", version)
}

func (c *cli) printError(format string, args ...any) {
	cliutil.PrintError(c.stderr, format, args...)
}
