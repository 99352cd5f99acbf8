package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved, absolute application paths.
type Paths struct {
	BaseDir      string
	DataDir      string
	LogsDir      string
	ExportDir    string
	SourceFile   string
	BoundaryFile string
}

// ExecutableDir returns the directory holding the running binary with
// symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// ResolvePaths turns the configured paths into absolute ones. Directories are
// relative to BaseDir, or to the executable directory when BaseDir is empty.
// Source and boundary files are relative to the data directory.
func ResolvePaths(pc PathsConfig) (*Paths, error) {
	base := pc.BaseDir
	if base == "" {
		dir, err := ExecutableDir()
		if err != nil {
			return nil, err
		}
		base = dir
	}

	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	dataDir := resolve(base, pc.DataDir, DefaultDataDir)
	return &Paths{
		BaseDir:      base,
		DataDir:      dataDir,
		LogsDir:      resolve(base, pc.LogsDir, DefaultLogsDir),
		ExportDir:    resolve(base, pc.ExportDir, DefaultExportDir),
		SourceFile:   resolve(dataDir, pc.SourceFile, DefaultSourceFile),
		BoundaryFile: resolve(dataDir, pc.BoundaryFile, DefaultBoundaryFile),
	}, nil
}

func resolve(base, path, fallback string) string {
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(base, path)
}

// EnsureDirectories creates the writable directories if they don't exist.
// The data directory is read-only input and is never created.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.LogsDir, p.ExportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetExportPath returns the path for an export file
func (p *Paths) GetExportPath(filename string) string {
	return filepath.Join(p.ExportDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("data", p.DataDir),
			slog.String("logs", p.LogsDir),
			slog.String("exports", p.ExportDir),
		),
		slog.Group("inputs",
			slog.String("source", p.SourceFile),
			slog.Bool("source_exists", FileExists(p.SourceFile)),
			slog.String("boundaries", p.BoundaryFile),
			slog.Bool("boundaries_exists", FileExists(p.BoundaryFile)),
		))
}
