package testutil

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferedSlogHandler(t *testing.T) {
	logger, handler := NewTestLogger(t)

	child := logger.With(slog.String("component", "ingest"))
	child.Info("loaded dataset", slog.Int("rows", 3))
	logger.WithGroup("req").Warn("slow", slog.String("path", "/x"))
	logger.Error("failed")

	require.Equal(t, 3, handler.Count())
	assert.True(t, handler.ContainsMessage("loaded"))
	assert.True(t, handler.ContainsAttr("component", "ingest"))
	assert.True(t, handler.ContainsAttr("rows", int64(3)))
	assert.True(t, handler.ContainsAttr("req.path", "/x"))
	assert.Len(t, handler.GetRecordsByLevel(slog.LevelError), 1)

	AssertLogContains(t, handler, slog.LevelWarn, "slow")
}

func TestWriteFixture(t *testing.T) {
	path := WriteFixture(t, "data.csv", SampleCSV)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, SampleCSV, string(data))
}
