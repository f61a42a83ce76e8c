package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/hengshui-vocab/internal/adapter/postgres"
	"github.com/heartmarshall/hengshui-vocab/internal/app"
	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/fileparser"
)

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store location, size and vocabulary statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				info, err := a.Vocabulary.Info(cmd.Context())
				if err != nil {
					return err
				}
				if c.opts.jsonOut {
					return writeJSON(cmd.OutOrStdout(), info)
				}
				return printStats(cmd.OutOrStdout(), info)
			})
		},
	}
}

func newBackupCmd(c *cli) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the persisted document to a timestamped backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				out := cmd.OutOrStdout()

				if list {
					backups, err := a.Vocabulary.Backups(cmd.Context())
					if err != nil {
						return err
					}
					if c.opts.jsonOut {
						return writeJSON(out, backups)
					}
					return printBackups(out, backups)
				}

				loc, err := a.Vocabulary.Backup(cmd.Context())
				if err != nil {
					return err
				}
				if c.opts.jsonOut {
					return writeJSON(out, map[string]string{"location": loc})
				}
				fmt.Fprintln(out, "Backup written to", loc)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list existing backups instead of writing one")
	return cmd
}

func newSessionsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions [ID]",
		Short: "List import sessions, or show one with its errors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app.App) error {
				out := cmd.OutOrStdout()

				if len(args) == 1 {
					s, err := a.Importer.Session(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					if c.opts.jsonOut {
						return writeJSON(out, s)
					}
					if err := printSessions(out, []domain.ImportSession{*s}); err != nil {
						return err
					}
					printImportErrors(out, s.Errors)
					return nil
				}

				sessions, err := a.Importer.Sessions(cmd.Context())
				if err != nil {
					return err
				}
				if c.opts.jsonOut {
					return writeJSON(out, sessions)
				}
				return printSessions(out, sessions)
			})
		},
	}
}

func newTemplateCmd(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Print a sample import file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch domain.FileType(strings.ToLower(format)) {
			case domain.FileTypeCSV:
				fmt.Fprint(cmd.OutOrStdout(), fileparser.GenerateCSVTemplate())
			case domain.FileTypeJSON:
				fmt.Fprintln(cmd.OutOrStdout(), fileparser.GenerateJSONTemplate())
			default:
				return domain.NewValidationError("format", fmt.Sprintf("must be csv or json (got %q)", format))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	return cmd
}

func newMigrateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL schema migrations for the postgres backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cfg.Database.DSN == "" {
				return domain.NewValidationError("database.dsn", "required for migrate")
			}

			applied, err := postgres.Migrate(cmd.Context(), cfg.Database.DSN)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied migrations: %v\n", applied)
			return nil
		},
	}
}

func newVersionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vocabctl %s %s/%s\n", app.BuildVersion(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
