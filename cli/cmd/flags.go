// Package cmd provides CLI commands for the spoor binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags for read-only commands (list, delete, inspect, symbols, version).
var (
	// FormatFlag selects output format: json, table, yaml. Unset, the
	// renderer picks table on a TTY and json otherwise.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for select read-only commands (inspect, symbols).
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (inspect and symbols only)",
	}

	// TraceFilePathFlag points at the directory flushed trace files
	// live in, mirroring config.Config.TraceFilePath.
	TraceFilePathFlag = &cli.StringFlag{
		Name:  "trace-file-path",
		Usage: "Directory flushed trace files are read from or written to",
		Value: ".",
	}

	// ConfigFlag points at a spoor.yaml config file. Empty means
	// Default() plus whatever other flags supply.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a spoor.yaml config file",
	}
)

// ReadOnlyFlags returns the shared flags for all read-only commands.
// Includes --tui so that unsupported commands can provide explicit error messages
// instead of generic "flag not defined" errors.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}

// TUIReadOnlyFlags returns flags for commands that support TUI mode.
// This is an alias for ReadOnlyFlags, kept for documentation clarity.
func TUIReadOnlyFlags() []cli.Flag {
	return ReadOnlyFlags()
}
