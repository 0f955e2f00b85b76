// Package config loads server settings from the environment and client
// settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/handsomefox/movie-explorer/internal/env"
	"github.com/handsomefox/movie-explorer/internal/logger"
	"github.com/handsomefox/movie-explorer/internal/tmdb"
)

const (
	defaultPort = "8080"
)

var defaultCORSOrigins = []string{"http://localhost:4200", "https://localhost:4200"}

type Server struct {
	Env         env.Environment
	Port        string
	LogLevel    slog.Level
	CORSOrigins []string
	TMDB        tmdb.Config
}

// LoadServer reads the server settings. A missing TMDB_API_KEY is an error
// here so the process refuses to start instead of failing per request.
func LoadServer() (*Server, error) {
	return loadServer(os.Getenv)
}

func loadServer(getenv func(string) string) (*Server, error) {
	envOr := func(key, fallback string) string {
		if val := strings.TrimSpace(getenv(key)); val != "" {
			return val
		}
		return fallback
	}

	apiKey := strings.TrimSpace(getenv("TMDB_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("TMDB_API_KEY is required")
	}

	timeout := tmdb.DefaultTimeout
	if raw := envOr("TMDB_TIMEOUT", ""); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid TMDB_TIMEOUT %q", raw)
		}
		timeout = parsed
	}

	return &Server{
		Env:         env.Parse(getenv(env.Key)),
		Port:        envOr("PORT", defaultPort),
		LogLevel:    logger.ParseLevel(getenv("LOG_LEVEL")),
		CORSOrigins: splitList(envOr("CORS_ORIGINS", ""), defaultCORSOrigins),
		TMDB: tmdb.Config{
			APIKey:   apiKey,
			BaseURL:  envOr("TMDB_BASE_URL", tmdb.DefaultBaseURL),
			Language: envOr("TMDB_LANGUAGE", tmdb.DefaultLanguage),
			Timeout:  timeout,
		},
	}, nil
}

func splitList(raw string, fallback []string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
