// Package logger provides slog helpers for the app.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/handsomefox/movie-explorer/internal/env"
)

// LevelFatal logs the record and then terminates the process.
const LevelFatal = slog.Level(12)

type ExitOnLevel struct {
	lvl  slog.Level
	exit func(code int)
	slog.Handler
}

// New builds the process logger: JSON in production, text locally. Records
// at LevelFatal exit the process after being written.
func New(w io.Writer, level slog.Level, environment env.Environment) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource:   environment == env.Production,
		Level:       level,
		ReplaceAttr: replaceLevelName,
	}
	var h slog.Handler
	if environment == env.Production {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(&ExitOnLevel{lvl: LevelFatal, exit: os.Exit, Handler: h})
}

//nolint:gocritic // slog.Handler requires Record by value.
func (h *ExitOnLevel) Handle(ctx context.Context, r slog.Record) error {
	err := h.Handler.Handle(ctx, r)
	if r.Level >= h.lvl {
		fmt.Fprintln(os.Stderr, "Level exit triggered")
		h.exit(1)
	}
	return err
}

func (h *ExitOnLevel) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ExitOnLevel{lvl: h.lvl, exit: h.exit, Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ExitOnLevel) WithGroup(name string) slog.Handler {
	return &ExitOnLevel{lvl: h.lvl, exit: h.exit, Handler: h.Handler.WithGroup(name)}
}

// ParseLevel maps LOG_LEVEL style strings to a level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "nil")
	}
	return slog.String("err", err.Error())
}

func replaceLevelName(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelFatal {
		a.Value = slog.StringValue("FATAL")
	}
	return a
}
