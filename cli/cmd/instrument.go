package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/spoor/filter"
	"github.com/justapithecus/spoor/ir"
)

// InstrumentCommand drives the IR rewriter end to end against a module
// handle (spec.md §4.2), writing the resulting symbol table.
func InstrumentCommand() *cli.Command {
	return &cli.Command{
		Name:      "instrument",
		Usage:     "Instrument a compiled module's IR with spoor trace probes",
		ArgsUsage: "<ir-module-path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "filters",
				Usage: "Filter rule file; empty uses the default filter set",
			},
			&cli.StringFlag{
				Name:     "symbols-out",
				Usage:    "Path to write the resulting symbol table to",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "initialize-runtime-at-main",
				Usage: "Inject runtime Initialize() (and Enable(), if set) at main's entry",
			},
			&cli.BoolFlag{
				Name:  "enable-runtime-at-main",
				Usage: "Additionally inject Enable() at main's entry (requires --initialize-runtime-at-main)",
			},
		},
		Action: instrumentAction,
	}
}

func instrumentAction(c *cli.Context) error {
	modulePath := c.Args().First()
	if modulePath == "" {
		return cli.Exit("instrument: missing <ir-module-path>", 1)
	}

	filters := filter.Default()
	if path := c.String("filters"); path != "" {
		loaded, err := filter.Load(path)
		if err != nil {
			return cli.Exit(err, 1)
		}
		filters = loaded
	}

	module, err := ir.LoadModule(modulePath)
	if err != nil {
		return cli.Exit(err, 1)
	}

	result := ir.Rewrite(module, ir.Options{
		Filters:                 filters,
		InitializeRuntimeAtMain: c.Bool("initialize-runtime-at-main"),
		EnableRuntimeAtMain:     c.Bool("enable-runtime-at-main"),
	})

	if err := ir.WriteSymbols(c.String("symbols-out"), result.Symbols); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}
