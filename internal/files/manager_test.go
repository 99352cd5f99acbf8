package files

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"localtaxdash/internal/config"
	"localtaxdash/internal/shared/testutil"
)

func newTestManager(t *testing.T) (*Manager, *config.Paths) {
	t.Helper()
	paths := &config.Paths{ExportDir: filepath.Join(t.TempDir(), "exports")}
	logger, _ := testutil.NewTestLogger(t)
	return NewManager(paths, logger), paths
}

func TestManager_ExportPath(t *testing.T) {
	m, paths := newTestManager(t)

	path, err := m.ExportPath("long.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.ExportDir, "long.csv"), path)

	path, err = m.ExportPath("2019/deltas.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.ExportDir, "2019", "deltas.csv"), path)

	abs := filepath.Join(t.TempDir(), "out.csv")
	path, err = m.ExportPath(abs)
	require.NoError(t, err)
	assert.Equal(t, abs, path)

	for _, bad := range []string{"", ".", "..", "../escape.csv"} {
		_, err := m.ExportPath(bad)
		assert.Error(t, err, bad)
	}
}

func TestManager_WriteExport(t *testing.T) {
	m, paths := newTestManager(t)

	path, err := m.WriteExport("long.csv", func(w io.Writer) error {
		_, err := io.WriteString(w, "entity,year\n")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "entity,year\n", string(data))

	names, err := m.ListExports()
	require.NoError(t, err)
	assert.Equal(t, []string{"long.csv"}, names)
	assert.DirExists(t, paths.ExportDir)
}

func TestManager_WriteExportFailureLeavesNothing(t *testing.T) {
	m, _ := newTestManager(t)
	boom := errors.New("boom")

	_, err := m.WriteExport("deltas.csv", func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	names, err := m.ListExports()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestManager_ListExportsMissingDir(t *testing.T) {
	m, _ := newTestManager(t)
	names, err := m.ListExports()
	require.NoError(t, err)
	assert.Nil(t, names)
}
