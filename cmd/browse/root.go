package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/handsomefox/movie-explorer/internal/apiclient"
	"github.com/handsomefox/movie-explorer/internal/config"
	"github.com/handsomefox/movie-explorer/internal/env"
	"github.com/handsomefox/movie-explorer/internal/logger"
	"github.com/handsomefox/movie-explorer/internal/media"
	"github.com/handsomefox/movie-explorer/internal/tui"
)

// app is the state shared by every command once flags and config are read.
type app struct {
	configPath string
	serverURL  string
	logFile    string
	timeout    time.Duration
	plain      bool

	cfg    *config.Client
	client *apiclient.Client
	images media.Resolver
	out    io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{out: os.Stdout}

	root := &cobra.Command{
		Use:           "browse",
		Short:         "Browse popular, now playing and searched movies",
		Long:          `Browse the movie catalog served by the movie explorer backend. Without a subcommand an interactive view starts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.plain || !term.IsTerminal(int(os.Stdout.Fd())) {
				return a.printList(cmd.Context(), listPopular, "", 1)
			}
			return a.runTUI(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/movie-explorer/config.yaml)")
	flags.StringVar(&a.serverURL, "server", "", "backend url, overrides server.url")
	flags.StringVar(&a.logFile, "log-file", "", "write logs to this file, overrides logging.path")
	flags.DurationVar(&a.timeout, "timeout", 0, "request timeout, overrides server.timeout")
	root.Flags().BoolVar(&a.plain, "plain", false, "print the popular list instead of starting the interactive view")

	root.AddCommand(
		newSearchCmd(a),
		newPopularCmd(a),
		newNowPlayingCmd(a),
		newGenresCmd(a),
		newMovieCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	path := a.configPath
	if path == "" {
		p, err := config.ClientConfigPath()
		if err == nil {
			path = p
		}
	}
	a.configPath = path

	cfg, err := config.LoadClient(path)
	if err != nil {
		return err
	}
	if s := strings.TrimSpace(a.serverURL); s != "" {
		cfg.Server.URL = strings.TrimRight(s, "/")
	}
	if a.timeout > 0 {
		cfg.Server.Timeout = a.timeout
	}
	if a.logFile != "" {
		cfg.Logging.Path = a.logFile
	}
	a.cfg = cfg
	a.images = media.Resolver{Base: cfg.Images.Base}

	// Commands that never talk to the backend skip client construction.
	if cmd.Name() == "path" || cmd.Name() == "init" {
		return nil
	}
	client, err := apiclient.New(cfg.Server.URL, cfg.Server.Timeout)
	if err != nil {
		return err
	}
	a.client = client
	return nil
}

// openLog returns the logger for this run. Without a log path records are
// dropped, since the interactive view owns stdout.
func (a *app) openLog() (*slog.Logger, func()) {
	level := logger.ParseLevel(a.cfg.Logging.Level)
	environment := env.Load()
	if a.cfg.Logging.Path == "" {
		return logger.New(io.Discard, level, environment), func() {}
	}
	rotating := &lumberjack.Logger{
		Filename:   a.cfg.Logging.Path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	return logger.New(rotating, level, environment), func() { _ = rotating.Close() }
}

func (a *app) runTUI(cmd *cobra.Command) error {
	log, closeLog := a.openLog()
	defer closeLog()
	slog.SetDefault(log)

	ctx := cmd.Context()
	model := tui.New(ctx, tui.Options{
		Catalog: a.client,
		Images:  a.images,
		Logger:  log,
	})
	log.Info("browse session started", slog.String("server", a.cfg.Server.URL))
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("interactive view: %w", err)
	}
	return nil
}
