package simplelogger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogFile names the environment variable FromEnv reads the log path from.
const EnvLogFile = "LISTSYNC_LOG_FILE"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a text logger that appends records at or above level to the file at path. The returned closer closes the file.
//
// If path is empty, the logger discards everything and the closer is a no-op.
func New(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("simplelogger: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})), f, nil
}

// FromEnv is New with the path taken from LISTSYNC_LOG_FILE. A path that can't be opened yields a discarding logger rather than an error.
func FromEnv(level slog.Level) (*slog.Logger, io.Closer) {
	logger, closer, err := New(os.Getenv(EnvLogFile), level)
	if err != nil {
		return slog.New(slog.DiscardHandler), nopCloser{}
	}
	return logger, closer
}

// ParseLevel parses "debug", "info", "warn", or "error" (case-insensitive). Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("simplelogger: unknown log level %q", s)
}
