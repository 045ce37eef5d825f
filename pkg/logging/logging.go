// Package logging configures structured logging with tint.
//
// The TUI owns stdout, so all log output goes to a file (or stderr when no
// file is configured). Level is taken from the LOG_LEVEL environment
// variable: debug, info, warn, error (default: info).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures the default slog logger. When logPath is non-empty the
// file is created (with parent directories) and returned so the caller can
// close it on shutdown; otherwise logs go to stderr and the returned closer
// is nil.
func Setup(logPath string) (io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer

	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", logPath, err)
		}
		w = f
		closer = f
	}

	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      levelFromEnv(),
			TimeFormat: time.Kitchen,
			NoColor:    closer != nil,
		}),
	))

	return closer, nil
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
