package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/comitanigiacomo/habits/internal/adapters/handler/cli"
	"github.com/comitanigiacomo/habits/internal/adapters/repository"
	"github.com/comitanigiacomo/habits/internal/config"
	"github.com/comitanigiacomo/habits/internal/core/domain"
	"github.com/comitanigiacomo/habits/internal/core/services"
	"github.com/comitanigiacomo/habits/internal/core/workers"
)

// Version is set at build time via ldflags: -ldflags "-X main.Version=1.0.0"
var Version = "dev"

var (
	configPath      string
	dataOverride    string
	backendOverride string
	ephemeral       bool
	jsonOutput      bool
)

var rootCmd = &cobra.Command{
	Use:           "habits",
	Short:         "Track weekly habits from the command line",
	Long:          "Register habits with a weekly target, mark them done once per day and follow your progress.\nWithout a subcommand an interactive menu is started.",
	Version:       Version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMenu,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (overrides HABITS_CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVar(&dataOverride, "data", "",
		"Data file (overrides config and HABITS_DATA_FILE)")
	rootCmd.PersistentFlags().StringVar(&backendOverride, "backend", "",
		"Storage backend: json or sqlite")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false,
		"Keep data in memory only")

	rootCmd.AddCommand(addCmd, doneCmd, deleteCmd, clearCmd)
	rootCmd.AddCommand(listCmd, statsCmd, profileCmd, reportCmd, remindCmd)
}

// app bundles what every command needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	tracker *services.Tracker
	closers []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.logger.Error("close error", "error", err)
		}
	}
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if dataOverride != "" {
		cfg.Storage.Path = dataOverride
	}
	if backendOverride != "" {
		backend := strings.ToLower(backendOverride)
		if backend != config.BackendJSON && backend != config.BackendSQLite {
			return nil, fmt.Errorf("unknown backend %q (want %s or %s)", backendOverride, config.BackendJSON, config.BackendSQLite)
		}
		cfg.Storage.Backend = backend
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg.Log)
	slog.SetDefault(logger)

	a := &app{cfg: cfg, logger: logger}

	defaults := domain.Profile{Name: cfg.Profile.Name}
	repo, err := a.openRepository(defaults)
	if err != nil {
		return nil, err
	}

	a.tracker = services.NewTracker(commandContext(cmd), repo, defaults, services.WithLogger(logger))
	return a, nil
}

func (a *app) openRepository(defaults domain.Profile) (domain.SnapshotRepository, error) {
	if ephemeral {
		a.logger.Debug("using in-memory storage")
		return repository.NewInMemoryRepository(), nil
	}

	path := a.cfg.DataPath()
	switch a.cfg.Storage.Backend {
	case config.BackendSQLite:
		repo, err := repository.NewSQLiteRepository(path, defaults, a.logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store %s: %w", path, err)
		}
		a.closers = append(a.closers, repo.Close)
		a.logger.Debug("storage initialized", "backend", config.BackendSQLite, "path", path)
		return repo, nil
	default:
		a.logger.Debug("storage initialized", "backend", config.BackendJSON, "path", path)
		return repository.NewJSONFileRepository(path, defaults, a.logger), nil
	}
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func runMenu(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cli.NewSyncWriter(cmd.OutOrStdout())
	menu := cli.NewMenu(a.tracker, cmd.InOrStdin(), out, a.logger)

	if a.cfg.Reminder.Enabled {
		interval := a.cfg.Reminder.Interval.Std()
		worker := workers.NewReminderWorker(a.tracker, interval, menu.Notify).WithLogger(a.logger)
		worker.Start(ctx)
		defer worker.Stop()

		out.Printf("\n[INFO] Automatic reminders enabled (every %s)\n", interval)
	}

	return menu.Run(ctx)
}

// rejected turns a tracker error into the message the user sees while keeping
// the sentinel reachable through errors.Is.
type rejected struct {
	err error
}

func (r rejected) Error() string { return cli.Rejection(r.err) }
func (r rejected) Unwrap() error { return r.err }

func reject(err error) error {
	if err == nil {
		return nil
	}
	return rejected{err: err}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
