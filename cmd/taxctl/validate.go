package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"localtaxdash/internal/dataprocessing"
	apierrors "localtaxdash/internal/errors"
	"localtaxdash/internal/files"
)

func newValidateCmd(c *cli) *cobra.Command {
	var (
		dir        string
		boundaries string
	)

	cmd := &cobra.Command{
		Use:   "validate [source...]",
		Short: "Load and reshape source tables, reporting any error",
		Long: `validate runs the full load pipeline on each source table without serving
it. Numeric cells that do not parse, labels that do not match
"<year>년_<category>" and duplicate (entity, year, category) keys are reported.

With --dir every CSV and XLSX file in the directory is checked. With
--boundaries the region names are matched against the boundary file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := args
			if dir != "" {
				if err := c.validator.ValidateInputDirectory(dir); err != nil {
					return err
				}
				found, err := files.NewDiscovery("").FindSourceFiles(dir)
				if err != nil {
					return err
				}
				for _, f := range found {
					sources = append(sources, f.Path)
				}
				if len(sources) == 0 {
					return apierrors.NewNotFoundError("source table").WithContext("directory", dir)
				}
			}
			if len(sources) == 0 {
				src, err := c.sourcePath(nil)
				if err != nil {
					return err
				}
				sources = []string{src}
			}

			var names map[string]bool
			if boundaries != "" {
				if err := c.validator.ValidateBoundaryFile(boundaries); err != nil {
					return err
				}
				fc, err := files.LoadBoundaries(boundaries, c.cfg.Dashboard.BoundaryKey)
				if err != nil {
					return err
				}
				names = make(map[string]bool, len(fc.Features))
				for _, f := range fc.Features {
					names[f.Name(c.cfg.Dashboard.BoundaryKey)] = true
				}
			}

			w := cmd.OutOrStdout()
			summarizer := dataprocessing.NewSummarizer(c.logger)
			var failed []error
			for _, src := range sources {
				table, err := c.loadTable(cmd, src)
				if err != nil {
					fmt.Fprintf(w, "FAIL  %s\n      %v\n", src, err)
					failed = append(failed, err)
					continue
				}
				s := summarizer.Summarize(cmd.Context(), table)
				fmt.Fprintf(w, "ok    %s  rows=%d entities=%d years=%d-%d\n",
					src, s.Rows, s.Entities, s.EarliestYear, s.LatestYear)

				if names != nil {
					for _, entity := range table.Entities() {
						if !names[entity] {
							fmt.Fprintf(w, "      no boundary for %s\n", entity)
						}
					}
				}
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d of %d files failed: %w", len(failed), len(sources), errors.Join(failed...))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Validate every source table in this directory")
	cmd.Flags().StringVarP(&boundaries, "boundaries", "b", "", "Boundary GeoJSON to match region names against")
	return cmd
}
