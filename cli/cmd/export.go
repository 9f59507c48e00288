package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/spoor/export"
)

// ExportCommand exports one or more trace files to a single Parquet
// file (spec.md's §4.9 addition).
func ExportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export trace files to a Parquet file",
		ArgsUsage: "<trace-file>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Usage:    "Output .parquet path",
				Required: true,
			},
		},
		Action: exportAction,
	}
}

func exportAction(c *cli.Context) error {
	traceFiles := c.Args().Slice()
	if len(traceFiles) == 0 {
		return cli.Exit("export: no trace files given", 1)
	}

	if err := export.WriteParquetMerged(traceFiles, c.String("out")); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}
