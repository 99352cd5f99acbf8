package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"localtaxdash/internal/config"
	"localtaxdash/internal/dataprocessing"
	"localtaxdash/internal/exporter"
	"localtaxdash/internal/files"
)

// stdoutTarget selects standard output for --out.
const stdoutTarget = "-"

func newReshapeCmd(c *cli) *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "reshape [source|dir|-]",
		Short: "Convert the wide source table to the long (entity, year, category, value) form",
		Long: `reshape reads the wide source table and writes its long form, sorted by
entity, year and category. The total row is excluded. A directory selects
its most recently modified table; - reads CSV from standard input.

Without --out the file is written to the export directory. Use --out - to
write to standard output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exporter.ParseFormat(format)
			if err != nil {
				return err
			}
			src, err := c.sourcePath(args)
			if err != nil {
				return err
			}
			table, err := c.loadTable(cmd, src)
			if err != nil {
				return err
			}
			// Table keeps load order; output is always entity, year, category.
			rows := dataprocessing.SortByEntity(table.Rows())

			switch out {
			case stdoutTarget:
				_, err = exporter.WriteLong(cmd.OutOrStdout(), rows, f)
				return err
			case "":
				paths, err := config.ResolvePaths(c.cfg.Paths)
				if err != nil {
					return err
				}
				if err := paths.EnsureDirectories(); err != nil {
					return err
				}
				path, n, err := exporter.New(files.NewManager(paths, c.logger), c.logger).ExportLong("", rows, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", n, path)
				return nil
			default:
				if err := c.validator.ValidateOutputDirectory(filepath.Dir(out)); err != nil {
					return err
				}
				n, err := writeFile(out, func(w io.Writer) (int, error) {
					return exporter.WriteLong(w, rows, f)
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", n, out)
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(exporter.FormatCSV), "Output format: csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, or - for standard output")
	return cmd
}

// writeFile creates path and hands it to write, removing the file on failure.
func writeFile(path string, write func(io.Writer) (int, error)) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	n, err := write(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return 0, err
	}
	return n, nil
}
