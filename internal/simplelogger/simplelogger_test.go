package simplelogger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listsync.log")

	logger, closer, err := New(path, slog.LevelInfo)
	require.NoError(t, err)
	logger.Info("hello", "who", "world")
	logger.Debug("filtered")
	require.NoError(t, closer.Close())

	logger, closer, err = New(path, slog.LevelDebug)
	require.NoError(t, err)
	logger.Debug("again")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, "msg=hello who=world")
	assert.NotContains(t, s, "filtered")
	assert.Contains(t, s, "msg=again")
}

func TestNew_EmptyPathDiscards(t *testing.T) {
	logger, closer, err := New("", slog.LevelDebug)
	require.NoError(t, err)
	logger.Info("should not panic")
	assert.NoError(t, closer.Close())
}

func TestNew_PathIsDirectory(t *testing.T) {
	_, _, err := New(t.TempDir(), slog.LevelInfo)
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.log")
	t.Setenv(EnvLogFile, path)

	logger, closer := FromEnv(slog.LevelInfo)
	logger.Warn("from env")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "from env")
}

func TestFromEnv_NoOpWhenPathIsDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvLogFile, dir)

	logger, closer := FromEnv(slog.LevelInfo)
	logger.Info("ignored")
	require.NoError(t, closer.Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{"": slog.LevelInfo, "DEBUG": slog.LevelDebug, "warn": slog.LevelWarn, "error": slog.LevelError} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
