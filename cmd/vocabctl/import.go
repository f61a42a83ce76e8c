package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/hengshui-vocab/internal/app"
	"github.com/heartmarshall/hengshui-vocab/internal/domain"
	"github.com/heartmarshall/hengshui-vocab/internal/fileparser"
	"github.com/heartmarshall/hengshui-vocab/internal/service/importer"
)

type importOptions struct {
	fileType       string
	skipDuplicates bool
	updateExisting bool
	validateOnly   bool
	batchSize      int
}

func newImportCmd(c *cli) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import vocabulary from a CSV or JSON file (\"-\" reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, content, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			return c.withApp(cmd.Context(), func(a *app.App) error {
				in := importer.Input{
					FileName: name,
					FileType: domain.FileType(strings.ToLower(opts.fileType)),
					Content:  content,
					Options:  importOptionsFrom(cmd, a.Importer.DefaultOptions(), opts),
				}

				res, err := a.Importer.ImportFile(cmd.Context(), in)
				if res == nil {
					return err
				}
				if c.opts.jsonOut {
					if jerr := writeJSON(cmd.OutOrStdout(), importReport(res)); jerr != nil {
						return jerr
					}
				} else {
					printImportResult(cmd.OutOrStdout(), res)
				}
				if err != nil {
					return err
				}
				if res.Status == domain.ImportStatusFailed {
					return fmt.Errorf("import of %s failed", name)
				}
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.fileType, "type", "", "File type: csv or json (default: detect)")
	f.BoolVar(&opts.skipDuplicates, "skip-duplicates", true, "Skip words that already exist (default from config)")
	f.BoolVar(&opts.updateExisting, "update-existing", false, "Merge records onto existing words (default from config)")
	f.BoolVar(&opts.validateOnly, "validate-only", false, "Parse and validate without writing vocabulary")
	f.IntVar(&opts.batchSize, "batch-size", 0, "Records per store write (default from config)")

	return cmd
}

// importOptionsFrom overlays explicitly set flags on the configured defaults.
func importOptionsFrom(cmd *cobra.Command, defaults importer.Options, opts importOptions) importer.Options {
	out := defaults
	if cmd.Flags().Changed("skip-duplicates") {
		out.SkipDuplicates = opts.skipDuplicates
	}
	if cmd.Flags().Changed("update-existing") {
		out.UpdateExisting = opts.updateExisting
	}
	if cmd.Flags().Changed("batch-size") {
		out.BatchSize = opts.batchSize
	}
	out.ValidateOnly = opts.validateOnly
	return out
}

func newValidateCmd(c *cli) *cobra.Command {
	var fileType string

	cmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a CSV or JSON file without touching the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			name, content, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			ft := domain.FileType(strings.ToLower(fileType))
			if !ft.IsValid() {
				ft = fileparser.DetectFormat(content)
			}
			if !ft.IsValid() {
				ft = fileparser.FileTypeFromName(name)
			}

			parsed := fileparser.Parse(content, ft)
			out := cmd.OutOrStdout()
			if !parsed.OK() {
				for _, e := range parsed.Errors {
					fmt.Fprintln(out, "parse error:", e)
				}
				return fmt.Errorf("%s could not be parsed", name)
			}
			for _, w := range parsed.Warnings {
				fmt.Fprintln(out, "parse warning:", w)
			}

			result := importer.NewValidator(cfg.Import.DefaultCategory).ValidateRecords(parsed.Records)
			dups := importer.FindDuplicates(result.Drafts())

			if c.opts.jsonOut {
				return writeJSON(out, validationReport(ft, result, dups))
			}

			fmt.Fprint(out, importer.Summary(result))
			for _, d := range dups {
				fmt.Fprintf(out, "Duplicate %q at valid records %v\n", d.Word, d.Indices)
			}
			if result.InvalidCount() > 0 {
				return fmt.Errorf("%d of %d records are invalid", result.InvalidCount(), result.Total)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fileType, "type", "", "File type: csv or json (default: detect)")
	return cmd
}

func readInput(stdin io.Reader, arg string) (name, content string, err error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return "stdin", string(data), nil
	}

	data, err := os.ReadFile(arg)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", arg, err)
	}
	return filepath.Base(arg), string(data), nil
}
