// Package main provides the spoor CLI entrypoint.
//
// Usage:
//
//	spoor <command> [options]
//
// spec.md §6 CLI exit codes apply throughout: 0 on success, non-zero
// on any fatal error.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/spoor/cli/cmd"
	"github.com/justapithecus/spoor/types"
)

// commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	app := &cli.App{
		Name:           "spoor",
		Usage:          "Function-level tracing for instrumented native programs",
		Version:        fmt.Sprintf("%s (commit: %s)", types.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.InstrumentCommand(),
			cmd.FlushCommand(),
			cmd.ClearCommand(),
			cmd.ListCommand(),
			cmd.DeleteCommand(),
			cmd.InspectCommand(),
			cmd.SymbolsCommand(),
			cmd.ExportCommand(),
			cmd.VersionCommand(commit),
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit() instead of
// urfave/cli's default of always exiting 1.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
