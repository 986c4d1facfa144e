package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/dshills/hsncheck/internal/config"
	"github.com/dshills/hsncheck/internal/storage"
)

const configKey = "config"

func newApp() *cli.App {
	return &cli.App{
		Name:     "hsncheck",
		Usage:    "Validate, search and extract HSN codes",
		Version:  version,
		Metadata: map[string]interface{}{},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file",
				EnvVars: []string{config.EnvConfig},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
			&cli.StringFlag{
				Name:    "backend",
				Aliases: []string{"b"},
				Usage:   "Code store backend (sqlite, csv, json, badger)",
			},
			&cli.StringFlag{
				Name:    "store",
				Aliases: []string{"s"},
				Usage:   "Path to the code store (defaults per backend)",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Concurrent validations for batch input",
			},
		},
		Before: loadConfig,
		Commands: []*cli.Command{
			setupCommand(),
			validateCommand(),
			searchCommand(),
			extractCommand(),
			interactiveCommand(),
			exportCommand(),
			serveCommand(),
			{
				Name:   "version",
				Usage:  "Print build information",
				Action: versionAction,
			},
		},
	}
}

// loadConfig layers flags over the file and environment configuration
func loadConfig(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("backend") {
		cfg.Store.Backend = c.String("backend")
	}
	if c.IsSet("store") {
		cfg.Store.Path = c.String("store")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := setupLogger(c.App.ErrWriter, cfg); err != nil {
		return err
	}

	c.App.Metadata[configKey] = cfg
	return nil
}

// setupLogger installs a text slog handler on w. Stdout stays free for
// command output and the MCP transport.
func setupLogger(w io.Writer, cfg *config.Config) error {
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return nil
}

func appConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

func versionAction(c *cli.Context) error {
	w := c.App.Writer
	fmt.Fprintf(w, "hsncheck\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Build Mode: %s\n", storage.BuildMode)
	fmt.Fprintf(w, "SQLite Driver: %s\n", storage.DriverName)
	return nil
}
