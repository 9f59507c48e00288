package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/spoor/cli/render"
	"github.com/justapithecus/spoor/types"
)

// VersionResponse is the response for the version command. All
// components (CLI, runtime façade, IR rewriter) share one lockstep
// version.
type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

// VersionCommand returns the version command.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Flags:  ReadOnlyFlags(),
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(c *cli.Context) error {
		r, err := render.NewRenderer(c)
		if err != nil {
			return err
		}
		if c.Bool("tui") {
			return cli.Exit("--tui is not supported for version", 1)
		}
		return r.Render(VersionResponse{Version: types.Version, Commit: commit})
	}
}
