// Package cliutil provides shared CLI utilities for the ucmlint command.
package cliutil

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Globals holds the flags accepted before or after any subcommand.
type Globals struct {
	Verbose  int
	HelpFlag bool
}

// ParseArgs parses global flags and extracts the subcommand from args.
// Flags handled: -v/--verbose, -vv, -h/--help.
// Unrecognized flags are passed through to the subcommand.
func ParseArgs(args []string) (g Globals, cmd string, cmdArgs []string) {
	for _, arg := range args {
		switch {
		case arg == "-h" || arg == "--help":
			g.HelpFlag = true
		case arg == "-v" || arg == "--verbose":
			if g.Verbose < 1 {
				g.Verbose = 1
			}
		case arg == "-vv":
			g.Verbose = 2
		case len(arg) > 0 && arg[0] == '-':
			cmdArgs = append(cmdArgs, arg)
		default:
			if cmd == "" {
				cmd = arg
			} else {
				cmdArgs = append(cmdArgs, arg)
			}
		}
	}
	return
}

// Logger returns a text logger on w for the verbosity level, or nil when
// verbose is 0. Level 1 enables debug output, 2 and above enable trace.
func Logger(w io.Writer, verbose int, trace slog.Level) *slog.Logger {
	if verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if verbose >= 2 {
		level = trace
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// ReadLines returns the non-blank lines of the named file, or of stdin
// when name is "-".
func ReadLines(name string, stdin io.Reader) ([]string, error) {
	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

// GetOutput opens the output file or returns stdout. The returned done
// func closes the file and reports a failed close, since that is where
// buffered writes surface.
func GetOutput(outputFile string, stdout io.Writer) (w io.Writer, done func() error, err error) {
	if outputFile == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// PrintError writes a formatted error message to w.
func PrintError(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "error: "+format+"\n", args...)
}
