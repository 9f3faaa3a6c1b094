package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"github.com/sagarc03/mydropbox/config"
)

// setupLogging installs the default logger on stderr, away from command output.
func setupLogging(cfg config.LogConfig) {
	color := term.IsTerminal(int(os.Stderr.Fd()))
	slog.SetDefault(slog.New(newLogHandler(os.Stderr, cfg, color)))
}

func newLogHandler(w io.Writer, cfg config.LogConfig, color bool) slog.Handler {
	level := parseLevel(cfg.Level)

	if cfg.Format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	}

	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		AddSource:  level == slog.LevelDebug,
		TimeFormat: time.TimeOnly,
		NoColor:    !color,
	})
}

// parseLevel maps a config level to slog. Unknown values fall back to warn.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
