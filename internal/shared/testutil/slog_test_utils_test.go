package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferedSlogHandler(t *testing.T) {
	logger, handler := NewTestLogger(t)

	child := logger.With(slog.String("component", "loader")).WithGroup("req")
	child.Info("loaded", slog.Int("rows", 8))
	logger.Error("failed")

	assert.Equal(t, 2, handler.Count())
	assert.True(t, handler.ContainsMessage("loaded"))
	assert.True(t, handler.ContainsAttr("component", "loader"))
	assert.True(t, handler.ContainsAttr("req.rows", int64(8)))
	assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)
	AssertLogContains(t, handler, slog.LevelInfo, "loaded")
}
