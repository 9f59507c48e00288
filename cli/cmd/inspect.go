package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/spoor/cli/render"
	"github.com/justapithecus/spoor/cli/tui"
	"github.com/justapithecus/spoor/trace"
)

// InspectCommand decodes one trace file and renders it as a table or,
// with --tui, via the interactive Bubble Tea inspector.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Decode and render one trace file",
		ArgsUsage: "<trace-file>",
		Flags:     TUIReadOnlyFlags(),
		Action:    inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("inspect: missing <trace-file>", 1)
	}

	tf, err := trace.Read(path)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if c.Bool("tui") {
		return tui.RunTrace(tf)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	return r.Render(tf)
}
