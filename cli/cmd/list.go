package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/spoor/cli/render"
	"github.com/justapithecus/spoor/trace"
)

// ListCommand lists flushed trace files in a directory.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:   "list",
		Usage:  "List flushed trace files",
		Flags:  append(ReadOnlyFlags(), TraceFilePathFlag),
		Action: listAction,
	}
}

func listAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for list", 1)
	}

	files, err := trace.FlushedTraceFiles(c.String("trace-file-path"))
	if err != nil {
		return cli.Exit(err, 1)
	}
	return r.Render(files)
}
