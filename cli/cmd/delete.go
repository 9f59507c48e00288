package cmd

import (
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/spoor/cli/render"
	"github.com/justapithecus/spoor/trace"
)

// DeleteCommand deletes flushed trace files older than a threshold.
func DeleteCommand() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete flushed trace files older than a threshold",
		Flags: append(ReadOnlyFlags(), TraceFilePathFlag,
			&cli.StringFlag{
				Name:     "older-than",
				Usage:    "RFC3339 timestamp or epoch seconds; files older than this are deleted",
				Required: true,
			},
		),
		Action: deleteAction,
	}
}

func deleteAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for delete", 1)
	}

	threshold, err := parseThreshold(c.String("older-than"))
	if err != nil {
		return cli.Exit(err, 1)
	}

	info, err := trace.DeleteFlushedTraceFilesOlderThan(c.String("trace-file-path"), threshold)
	if err != nil {
		return cli.Exit(err, 1)
	}
	return r.Render(info)
}

// parseThreshold accepts either an RFC3339 timestamp or epoch seconds.
func parseThreshold(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	secs, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(secs, 0), nil
}
