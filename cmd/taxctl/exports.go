package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"localtaxdash/internal/config"
	"localtaxdash/internal/files"
)

func newExportsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "exports",
		Short: "List the files written to the export directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := config.ResolvePaths(c.cfg.Paths)
			if err != nil {
				return err
			}
			names, err := files.NewManager(paths, c.logger).ListExports()
			if err != nil {
				return fmt.Errorf("list %s: %w", paths.ExportDir, err)
			}
			if len(names) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "no exports in %s\n", paths.ExportDir)
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
