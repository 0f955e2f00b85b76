package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/handsomefox/movie-explorer/internal/env"
)

func TestFatalLevelExits(t *testing.T) {
	var buf bytes.Buffer
	exitCode := -1
	h := &ExitOnLevel{
		lvl:     LevelFatal,
		exit:    func(code int) { exitCode = code },
		Handler: slog.NewTextHandler(&buf, &slog.HandlerOptions{ReplaceAttr: replaceLevelName}),
	}
	log := slog.New(h).With(slog.String("component", "test"))

	log.Info("still running")
	if exitCode != -1 {
		t.Fatalf("info must not exit, got code %d", exitCode)
	}

	log.Log(context.Background(), LevelFatal, "config missing")
	if exitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", exitCode)
	}
	out := buf.String()
	if !strings.Contains(out, "level=FATAL") || !strings.Contains(out, "component=test") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for input, want := range tests {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestErrorAttr(t *testing.T) {
	if got := Error(nil).Value.String(); got != "nil" {
		t.Fatalf("expected nil marker, got %q", got)
	}
	if got := Error(errors.New("boom")).Value.String(); got != "boom" {
		t.Fatalf("expected boom, got %q", got)
	}
}

func TestNewFollowsEnvironment(t *testing.T) {
	var prod bytes.Buffer
	New(&prod, slog.LevelInfo, env.Production).Info("started", slog.Int("port", 8080))
	out := prod.String()
	if !strings.HasPrefix(out, "{") || !strings.Contains(out, `"source"`) || !strings.Contains(out, `"port":8080`) {
		t.Fatalf("expected json with source in production, got %s", out)
	}

	var local bytes.Buffer
	New(&local, slog.LevelInfo, env.Local).Info("started")
	if out := local.String(); !strings.Contains(out, "level=INFO") || strings.Contains(out, "source=") {
		t.Fatalf("expected text without source locally, got %s", out)
	}

	var quiet bytes.Buffer
	New(&quiet, slog.LevelWarn, env.Local).Info("hidden")
	if quiet.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn, got %s", quiet.String())
	}
}
