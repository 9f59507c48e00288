package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/spoor/cli/render"
	"github.com/justapithecus/spoor/cli/tui"
	"github.com/justapithecus/spoor/ir"
	"github.com/justapithecus/spoor/types"
)

// symbolRow flattens one (FunctionId, FunctionInfo) pair for table/JSON
// rendering; ir.Symbols itself is a map, which render.Renderer can't
// iterate deterministically.
type symbolRow struct {
	ID types.FunctionId `json:"function_id"`
	types.FunctionInfo
}

// SymbolsCommand decodes and renders a symbol table file.
func SymbolsCommand() *cli.Command {
	return &cli.Command{
		Name:      "symbols",
		Usage:     "Decode and render a symbol table",
		ArgsUsage: "<symbol-file>",
		Flags:     TUIReadOnlyFlags(),
		Action:    symbolsAction,
	}
}

func symbolsAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("symbols: missing <symbol-file>", 1)
	}

	symbols, err := ir.ReadSymbols(path)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if c.Bool("tui") {
		return tui.RunSymbols(symbols)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	flat := make([]symbolRow, 0, len(symbols))
	for id, infos := range symbols {
		for _, info := range infos {
			flat = append(flat, symbolRow{ID: id, FunctionInfo: info})
		}
	}
	return r.Render(flat)
}
