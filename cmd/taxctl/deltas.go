package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"localtaxdash/internal/dataprocessing"
	"localtaxdash/internal/exporter"
	"localtaxdash/pkg/contracts/domain"
)

// formatTable prints an aligned text table instead of a file format.
const formatTable = "table"

func newDeltasCmd(c *cli) *cobra.Command {
	var (
		source   string
		year     int
		category string
		format   string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "deltas",
		Short: "Print the year-over-year change of every region",
		Long: `deltas computes value(year) - value(year-1) for each region, sorted by the
change descending. A missing prior year counts as zero. For the earliest
year every change equals the current value.

--year defaults to the latest year and --category to the configured default.
The command fails when the selection matches nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cat domain.Category
			if category != "" {
				parsed, err := domain.ParseCategory(category)
				if err != nil {
					return err
				}
				cat = parsed
			}

			var f exporter.Format
			if format != formatTable {
				parsed, err := exporter.ParseFormat(format)
				if err != nil {
					return err
				}
				f = parsed
			}

			var srcArgs []string
			if source != "" {
				srcArgs = []string{source}
			}
			src, err := c.sourcePath(srcArgs)
			if err != nil {
				return err
			}
			table, err := c.loadTable(cmd, src)
			if err != nil {
				return err
			}

			svc := c.service(src, table)
			y, cat := svc.ResolveQuery(year, cat)
			if !table.HasYear(y) {
				return fmt.Errorf("year %d not in %s: %w", y, src, dataprocessing.ErrNoData)
			}
			set, err := svc.Deltas(cmd.Context(), y, cat)
			if err != nil {
				return err
			}
			if set.NoData {
				return fmt.Errorf("%d %s: %w", y, cat, dataprocessing.ErrNoData)
			}

			write := func(w io.Writer) (int, error) {
				if format == formatTable {
					return writeDeltasTable(w, set)
				}
				return exporter.WriteDeltas(w, set, f)
			}
			if out == "" || out == stdoutTarget {
				_, err = write(cmd.OutOrStdout())
				return err
			}
			n, err := writeFile(out, write)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", n, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "Source table (defaults to the configured source file)")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "Year to compare with the year before (default latest)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category: amount (금액) or share (비중)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default standard output)")
	return cmd
}

func writeDeltasTable(w io.Writer, set domain.DeltaSet) (int, error) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s (%s)\t%d\t%d\t\n", set.Category.Label(), set.Category.Unit(), set.Year-1, set.Year)
	fmt.Fprintf(tw, "entity\tvalue\tdifference\tabsolute\t\n")
	for _, r := range set.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", r.Entity, number(r.Value), number(r.Difference), number(r.AbsoluteDifference))
	}
	if set.Degenerate {
		fmt.Fprintf(tw, "(no prior year: differences equal current values)\t\t\t\t\n")
	}
	return len(set.Rows), tw.Flush()
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
