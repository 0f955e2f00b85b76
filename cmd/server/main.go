package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/handsomefox/movie-explorer/internal/config"
	"github.com/handsomefox/movie-explorer/internal/env"
	"github.com/handsomefox/movie-explorer/internal/handlers"
	"github.com/handsomefox/movie-explorer/internal/logger"
	"github.com/handsomefox/movie-explorer/internal/tmdb"
	"github.com/handsomefox/movie-explorer/internal/web"

	_ "github.com/joho/godotenv/autoload"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		slog.SetDefault(logger.New(os.Stderr, slog.LevelInfo, env.Load()))
		slog.Log(context.Background(), logger.LevelFatal, "invalid configuration", logger.Error(err))
		return
	}
	slog.SetDefault(logger.New(os.Stderr, cfg.LogLevel, cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Println("Error:", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Server) error {
	gateway, err := tmdb.New(cfg.TMDB)
	if err != nil {
		return fmt.Errorf("failed to init tmdb client: %w", err)
	}

	app, err := handlers.New(&handlers.Config{Gateway: gateway})
	if err != nil {
		return fmt.Errorf("failed to init handlers: %w", err)
	}

	static, err := web.Dist()
	if err != nil {
		return fmt.Errorf("failed to load static assets: %w", err)
	}

	router, err := handlers.NewRouter(app, handlers.RouterOptions{
		Logger:      slog.Default(),
		CORSOrigins: cfg.CORSOrigins,
		Static:      static,
	})
	if err != nil {
		return fmt.Errorf("failed to init router: %w", err)
	}

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Upstream calls have their own timeout; leave room to write after it.
		WriteTimeout: cfg.TMDB.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening",
			slog.String("addr", addr),
			slog.String("env", string(cfg.Env)),
			slog.String("tmdb", cfg.TMDB.BaseURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
