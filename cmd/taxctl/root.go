package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"localtaxdash/internal/config"
	apierrors "localtaxdash/internal/errors"
	"localtaxdash/internal/files"
	"localtaxdash/internal/infrastructure"
	"localtaxdash/internal/services"
	"localtaxdash/internal/validation"
	"localtaxdash/pkg/contracts/domain"
)

// stdinSource reads the source table from standard input.
const stdinSource = "-"

// cli holds the state shared by all subcommands.
type cli struct {
	configFile string
	verbose    bool

	cfg       *config.Config
	logger    *slog.Logger
	validator *validation.FileValidator
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "taxctl",
		Short: "Reshape and inspect the regional local-tax table",
		Long: `taxctl reads the wide regional tax table (one row per region, one column
per "<year>년_<category>" label) and works with its long form offline.

Example Usage:
  taxctl reshape data/tax.csv --format xlsx   # write the long table to exports/
  taxctl deltas --year 2019 --format table    # year-over-year changes
  taxctl validate --dir data                  # check every source file in data/`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "Path to a YAML configuration file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose output for debugging")

	root.AddCommand(
		newReshapeCmd(c),
		newDeltasCmd(c),
		newValidateCmd(c),
		newExportsCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) init(stderr io.Writer) error {
	cfg, err := config.LoadFrom(c.configFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := "warn"
	if c.verbose {
		level = "debug"
	}
	c.logger = infrastructure.NewLogger(stderr, level)
	c.validator = validation.NewFileValidator(c.logger)
	return nil
}

// sourcePath returns arg when given, otherwise the configured source file.
// A directory resolves to its most recently modified source table.
func (c *cli) sourcePath(args []string) (string, error) {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		paths, err := config.ResolvePaths(c.cfg.Paths)
		if err != nil {
			return "", err
		}
		path = paths.SourceFile
	}
	if path == stdinSource {
		return path, nil
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return path, nil
	}
	found, err := files.NewDiscovery("").FindSourceFiles(path)
	if err != nil {
		return "", err
	}
	latest, ok := files.GetLatestFile(found)
	if !ok {
		return "", apierrors.NewNotFoundError("source table").WithContext("directory", path)
	}
	c.logger.Info("using latest source table", slog.String("file", latest.Path))
	return latest.Path, nil
}

// loadTable checks, reads and reshapes the source file. The stdin source is
// read as CSV.
func (c *cli) loadTable(cmd *cobra.Command, path string) (*domain.Table, error) {
	loader := services.NewDatasetLoader(c.cfg.Dashboard, nil, nil, c.logger)

	if path == stdinSource {
		raw, err := files.ReadCSV(cmd.InOrStdin(), c.cfg.Dashboard.EntityColumn)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return loader.ReshapeRaw(raw, "stdin")
	}

	if err := c.validator.ValidateSourceFile(path); err != nil {
		return nil, err
	}
	table, err := loader.LoadTable(cmd.Context(), path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return table, nil
}

// service wraps a loaded table in the dashboard service so the CLI resolves
// defaults exactly like the HTTP API.
func (c *cli) service(path string, table *domain.Table) *services.DashboardService {
	ds := &services.Dataset{Source: path, Table: table}
	return services.NewDashboardService(ds, c.cfg.Dashboard, nil, nil, c.logger)
}
