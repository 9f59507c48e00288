package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/spoor/runtime"
)

// FlushCommand drives the flush engine's auxiliary flush operation
// against a --trace-file-path directory. There is no IPC to a live
// process (spec.md §6's CLI mention concretized by the no-control-socket
// decision); this exercises the runtime façade's Go API end to end,
// which is how a host program would actually invoke a flush.
func FlushCommand() *cli.Command {
	return &cli.Command{
		Name:  "flush",
		Usage: "Flush any buffered events for a trace session to --trace-file-path",
		Flags: []cli.Flag{
			ConfigFlag,
			TraceFilePathFlag,
		},
		Action: flushAction,
	}
}

func flushAction(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	f := runtime.New(cfg)
	f.Initialize()
	defer f.Deinitialize()

	done := make(chan struct{})
	f.FlushTraceEvents(func() { close(done) })
	<-done

	fmt.Fprintf(c.App.Writer, "flushed trace events to %s\n", cfg.TraceFilePath)
	return nil
}

// ClearCommand discards buffered events without writing them, against a
// --trace-file-path directory's associated session (spec.md §4.4's
// ClearTraceEvents).
func ClearCommand() *cli.Command {
	return &cli.Command{
		Name:  "clear",
		Usage: "Discard buffered events for a trace session without flushing",
		Flags: []cli.Flag{
			ConfigFlag,
			TraceFilePathFlag,
		},
		Action: clearAction,
	}
}

func clearAction(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return cli.Exit(err, 1)
	}

	f := runtime.New(cfg)
	f.Initialize()
	f.ClearTraceEvents()
	f.Deinitialize()

	fmt.Fprintln(c.App.Writer, "cleared buffered trace events")
	return nil
}
