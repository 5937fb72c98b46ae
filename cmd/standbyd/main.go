package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/colinwhispers/standbyd/internal/api"
	"github.com/colinwhispers/standbyd/internal/config"
	"github.com/colinwhispers/standbyd/internal/eventlog"
	"github.com/colinwhispers/standbyd/internal/health"
	"github.com/colinwhispers/standbyd/internal/metrics"
	"github.com/colinwhispers/standbyd/internal/notify"
	"github.com/colinwhispers/standbyd/internal/reminder"
	"github.com/colinwhispers/standbyd/internal/store"
	"github.com/colinwhispers/standbyd/internal/tips"
)

func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()

	if os.Getenv("ENVIRONMENT") == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Logger = logger

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err == nil {
		zerolog.SetGlobalLevel(level)
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = store.DefaultDataDir()
	}
	downloadsDir := cfg.DownloadsDir
	if downloadsDir == "" {
		downloadsDir = store.DefaultDownloadsDir()
	}
	desktopDir := cfg.DesktopDir
	if desktopDir == "" {
		desktopDir = store.DefaultDesktopDir()
	}

	logger.Info().
		Str("environment", cfg.Environment).
		Str("listen_addr", cfg.ListenAddr).
		Str("data_dir", dataDir).
		Dur("tick_interval", cfg.TickInterval).
		Msg("starting standby daemon")

	// Context with graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	m := metrics.New()

	st := store.New(store.Config{
		DataDir:      dataDir,
		DownloadsDir: downloadsDir,
		DesktopDir:   desktopDir,
		ExportDir:    cfg.ExportDir,
	}, m, logger)

	settingsDoc := st.LoadSettings()

	events := eventlog.New()
	events.Replace(st.LoadEvents(time.Now().Unix()))
	sedentary, standups := events.Counts()
	logger.Info().
		Int("sedentary_events", sedentary).
		Int("standup_events", standups).
		Msg("event log loaded")

	hub := notify.NewHub(cfg.NotifyBuffer, m, logger)

	// Mirror published events into the log so operators can follow the
	// loop without attaching a shell.
	eventCh, unsubscribe := hub.Subscribe()
	defer unsubscribe()
	go func() {
		for ev := range eventCh {
			logger.Debug().
				Str("kind", ev.Kind).
				Str("payload", ev.Payload).
				Msg("event published")
		}
	}()

	sched := reminder.New(
		reminder.Config{TickInterval: cfg.TickInterval},
		settingsDoc,
		events,
		st,
		tips.NewSelector(nil),
		reminder.NewHeadlessPresenter(),
		hub,
		m,
		nil,
		logger,
	)

	// Health checker
	checker := health.NewChecker(logger)
	checker.Register("data_dir", func(ctx context.Context) health.Status {
		probe := filepath.Join(dataDir, ".health-probe")
		if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
			return health.StatusDown
		}
		os.Remove(probe)
		return health.StatusOK
	})
	checker.Register("scheduler", func(ctx context.Context) health.Status {
		if sched.IsRunning() {
			return health.StatusOK
		}
		return health.StatusDown
	})

	if err := sched.Start(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to start scheduler")
	}

	apiServer := api.NewServer(api.ServerConfig{
		ListenAddr: cfg.ListenAddr,
		AuthConfig: api.AuthConfig{
			Mode:   cfg.AuthMode,
			APIKey: cfg.APIKey,
		},
		RateLimit: api.RateLimitConfig{
			RPS:   cfg.RateLimitRPS,
			Burst: cfg.RateLimitBurst,
		},
		CORSOrigins: cfg.CORSOrigins,
	}, sched, st, checker, m, logger)

	// WaitGroup for in-flight work
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info().Str("addr", cfg.ListenAddr).Msg("API server starting")
		if err := apiServer.Start(); err != nil {
			logger.Error().Err(err).Msg("API server error")
		}
	}()

	// Wait for shutdown signal
	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	// Cancel context to stop the scheduler loop
	cancel()

	if err := apiServer.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("API server shutdown error")
	}

	// Final flush; routine saves already happened on every mutation.
	st.SaveEvents(events.Snapshot(), time.Now().Unix())

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logger.Info().Msg("all goroutines stopped")
	case <-time.After(10 * time.Second):
		logger.Warn().Msg("forced shutdown after timeout")
	}

	logger.Info().Msg("standby daemon stopped")
}
