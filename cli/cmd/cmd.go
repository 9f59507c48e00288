package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/spoor/cli/config"
)

// resolveConfig loads the --config file (if given), falling back to
// Default(), then applies --trace-file-path as an override, matching
// spec.md §6's file-then-flag precedence.
func resolveConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if path := c.String("trace-file-path"); path != "" {
		cfg.TraceFilePath = path
	}
	return cfg, nil
}
