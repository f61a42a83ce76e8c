package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/hengshui-vocab/internal/app"
	"github.com/heartmarshall/hengshui-vocab/internal/config"
)

type rootOptions struct {
	configPath string
	backend    string
	storePath  string
	jsonOut    bool
}

// cli carries state shared by every subcommand. Configuration is loaded on
// first use so that commands like version work without a config file.
type cli struct {
	opts   rootOptions
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "vocabctl",
		Short:         "Manage the graded English vocabulary store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.opts.configPath, "config", "", "Config file (default: $CONFIG_PATH, then "+strings.Join(config.SearchPaths, " or ")+")")
	pf.StringVar(&c.opts.backend, "backend", "", "Override store.backend (file, memory, postgres, gcs, redis)")
	pf.StringVar(&c.opts.storePath, "store", "", "Override store.path for the file backend")
	pf.BoolVar(&c.opts.jsonOut, "json", false, "Print results as JSON")

	root.AddCommand(
		newImportCmd(c),
		newValidateCmd(c),
		newQueryCmd(c),
		newStatsCmd(c),
		newBackupCmd(c),
		newSessionsCmd(c),
		newCategoriesCmd(c),
		newProgressCmd(c),
		newGradesCmd(c),
		newTemplateCmd(c),
		newMigrateCmd(c),
		newVersionCmd(c),
	)
	return root
}

func (c *cli) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	path := c.opts.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}

	if c.opts.backend != "" || c.opts.storePath != "" {
		if c.opts.backend != "" {
			cfg.Store.Backend = c.opts.backend
		}
		if c.opts.storePath != "" {
			cfg.Store.Path = c.opts.storePath
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config: validate: %w", err)
		}
	}

	c.cfg = cfg
	c.logger = app.NewLogger(cfg.Log)
	return cfg, nil
}

// withApp opens the store, runs fn and closes the store. A close failure is
// reported when fn succeeded.
func (c *cli) withApp(ctx context.Context, fn func(a *app.App) error) (err error) {
	cfg, err := c.config()
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, c.logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(a)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
