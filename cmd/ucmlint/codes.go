package main

import (
	"flag"
	"fmt"

	"github.com/chromeos/adhd/devtools/ucmlint/diag"
)

const codesUsage = `ucmlint codes - List diagnostic codes

Usage:
  ucmlint codes [options]

Options:
  --phase PHASE   Only list codes of PHASE: parser, lint, layout
  -h, --help      Show help
`

func (c *cli) cmdCodes(args []string) int {
	fs := flag.NewFlagSet("codes", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() { fmt.Fprint(c.stderr, codesUsage) }

	phase := fs.String("phase", "", "phase filter")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.helpFlag {
		_, _ = fmt.Fprint(c.stdout, codesUsage)
		return exitOK
	}

	var current string
	for _, info := range diag.AllCodes() {
		if *phase != "" && info.Phase != *phase {
			continue
		}
		if info.Phase != current {
			current = info.Phase
			_, _ = fmt.Fprintf(c.stdout, "%s:\n", current)
		}
		_, _ = fmt.Fprintf(c.stdout, "  %s\n", info.Code)
	}
	if current == "" {
		c.printError("unknown phase: %s", *phase)
		return exitError
	}
	return exitOK
}
