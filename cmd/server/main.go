package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Yoshiyuki1026/smtd/internal/config"
	"github.com/Yoshiyuki1026/smtd/internal/game"
	"github.com/Yoshiyuki1026/smtd/internal/host"
	"github.com/Yoshiyuki1026/smtd/internal/navigator"
	"github.com/Yoshiyuki1026/smtd/internal/notify"
	"github.com/Yoshiyuki1026/smtd/internal/serverapp"
	"github.com/Yoshiyuki1026/smtd/internal/store"
	"github.com/Yoshiyuki1026/smtd/internal/telemetry"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}
	cfg, err := config.LoadOrDefault(configPath())
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server_exit", slog.Any("err", err))
		os.Exit(1)
	}
}

func configPath() string {
	if p := strings.TrimSpace(os.Getenv("SMTD_CONFIG")); p != "" {
		return p
	}
	return "smtd.yml"
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

type app struct {
	handler   http.Handler
	host      *host.Host
	store     store.Store
	scheduler *notify.Scheduler
	closers   []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// buildApp wires storage, the engine host, the navigator and Slack
// notifications behind one handler.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	loc, err := config.Location(cfg.Game.Timezone)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store, cfg.Server.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	a := &app{store: st, closers: []func() error{st.Close}}

	reg := telemetry.NewRegistry()
	rec := telemetry.NewRecorder(telemetry.NewMemoryRepository(), telemetry.NewMetrics(reg), logger)

	engOpts := []game.Option{
		game.WithLocation(loc),
		game.WithBalance(cfg.Game.Balance),
	}
	if cfg.Game.Seed > 0 {
		engOpts = append(engOpts, game.WithRand(game.NewRand(cfg.Game.Seed)))
	}
	h, err := host.Open(ctx, st, cfg.Store.Key, logger,
		host.WithEngineOptions(engOpts...),
		host.WithRecorder(rec),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open state: %w", err)
	}
	a.host = h

	navOpts := []navigator.Option{
		navigator.WithLocation(loc),
		navigator.WithCacheTTL(cfg.Navigator.CacheTTL),
		navigator.WithTimeout(cfg.Navigator.Timeout),
		navigator.WithLogger(logger),
		navigator.WithHook(func(req navigator.Request, res navigator.Response) {
			rec.DialogueLine(string(req.Navigator), string(req.Context), string(res.Source))
		}),
	}
	gem, err := navigator.NewGemini(ctx, cfg.Navigator.APIKey, cfg.Navigator.Model)
	switch {
	case errors.Is(err, navigator.ErrNoGenerator):
		logger.Warn("navigator_offline", slog.String("reason", "GEMINI_API_KEY not set"))
	case err != nil:
		a.Close()
		return nil, fmt.Errorf("gemini client: %w", err)
	default:
		navOpts = append(navOpts, navigator.WithGenerator(gem))
		a.closers = append(a.closers, gem.Close)
	}
	nav := navigator.NewService(navOpts...)

	notifier := notify.NewNotifier(nav, notify.NewSlackClient(cfg.Slack), logger)
	notifier.SetHook(rec.SlackNotification)
	if cfg.Slack.Enabled {
		slackLoc, err := config.Location(cfg.Slack.Timezone)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.scheduler, err = notify.NewScheduler(notifier, cfg.Slack.Slots, slackLoc, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("slack schedule: %w", err)
		}
	}

	a.handler, err = serverapp.NewHandler(serverapp.Options{
		Config:    cfg,
		Host:      h,
		Navigator: nav,
		Notifier:  notifier,
		Registry:  reg,
		Recorder:  rec,
		Logger:    logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	a, err := buildApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.scheduler != nil {
		a.scheduler.Start()
		logger.Info("slack_scheduler_started", slog.Int("slots", len(cfg.Slack.Slots)))
	}

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: a.handler}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", cfg.Server.Addr), slog.String("store", cfg.Store.Backend))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if a.scheduler != nil {
		a.scheduler.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server_stopped")
	return nil
}
