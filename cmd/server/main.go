package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"MarketPulse/internal/cache"
	"MarketPulse/internal/collector"
	"MarketPulse/internal/config"
	"MarketPulse/internal/gateway"
	"MarketPulse/internal/logger"
	"MarketPulse/internal/market"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/notifier"
	"MarketPulse/internal/recorder"
	"MarketPulse/internal/scheduler"
	"MarketPulse/internal/stream"
)

const evictInterval = time.Minute

func main() {
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Init("marketpulse", "info", "json", os.Stderr)
		log.Fatal().Err(err).Str("path", cfgPath).Msg("load config")
	}
	logger.Init("marketpulse", cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Strs("watchlist", cfg.Watchlist).Str("provider", cfg.DataSource.Provider).Msg("MarketPulse starting")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	met := metrics.New(reg)

	// Init recorder
	var rec recorder.Recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
		} else {
			rec = sr
		}
	}
	defer rec.Close()

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	// Init fetcher
	breaker := collector.NewBreakerFetcher(newFetcher(cfg), cfg.Breaker.MaxFailures, cfg.BreakerResetTimeout())
	breaker.OnStateChange = func(from, to collector.BreakerState) {
		log.Warn().Str("provider", breaker.Name()).Str("from", from.String()).Str("to", to.String()).Msg("provider breaker transition")
		met.SetBreakerState(int(to), to == collector.BreakerOpen)
		if err := rec.RecordProviderEvent(recorder.ProviderEvent{Provider: breaker.Name(), From: from.String(), To: to.String()}); err != nil {
			log.Warn().Err(err).Msg("record provider event")
		}
		if tn != nil && to != collector.BreakerHalfOpen {
			msg := notifier.FormatBreakerAlert(breaker.Name(), from.String(), to.String(), time.Now())
			go func() {
				if err := tn.SendWithRetry(ctx, msg, 3); err != nil {
					log.Warn().Err(err).Msg("send breaker alert")
				}
			}()
		}
	}
	log.Info().Str("data_source", breaker.Name()).Msg("data source ready")

	col := collector.NewCollector(breaker, cfg.FetchTimeout())
	c := cache.New()

	ticker := &scheduler.TickerRefresher{
		Collector:   col,
		Cache:       c,
		Symbols:     cfg.Watchlist,
		Concurrency: cfg.FetchConcurrency,
		Metrics:     met,
		Recorder:    rec,
	}
	chart := &scheduler.ChartRefresher{Collector: col, Cache: c, Metrics: met, Recorder: rec}
	evictor := &scheduler.ChartEvictor{Cache: c, Idle: cfg.ChartIdleEvict(), Metrics: met}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx)
	for _, t := range []struct {
		name     string
		interval time.Duration
		fn       func(context.Context)
	}{
		{"ticker", cfg.TickerInterval(), ticker.Run},
		{"chart", cfg.ChartInterval(), chart.Run},
		{"evict", evictInterval, evictor.Run},
	} {
		if err := sched.Every(t.name, t.interval, t.fn); err != nil {
			log.Fatal().Err(err).Str("task", t.name).Msg("register task")
		}
	}
	sched.Start(true)

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, notifier.StatusCommands(c, func() string { return breaker.State().String() }))
		log.Info().Msg("telegram polling started")
	}

	svc := market.NewService(c, col)
	streams := &stream.Dispatcher{Cache: c, Poll: cfg.StreamPollInterval(), Metrics: met}
	api := gateway.NewServer(svc, streams, metrics.Handler(reg))
	api.Breaker = func() string { return breaker.State().String() }

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// stream handlers end when the root context is cancelled
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	log.Info().Msg("MarketPulse is running. Press Ctrl+C to stop.")
	<-ctx.Done()

	log.Info().Msg("shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	sched.Stop()
	log.Info().Msg("MarketPulse stopped")
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case "alpaca":
		return collector.NewAlpacaFetcher(cfg.DataSource.APIKey, cfg.DataSource.APISecret, cfg.DataSource.BaseURL, cfg.DataSource.Feed)
	case "mock":
		return collector.NewMockFetcher(100)
	default:
		yf := collector.NewYahooFetcher(cfg.Proxy, cfg.FetchTimeout())
		if cfg.DataSource.BaseURL != "" {
			yf.BaseURL = cfg.DataSource.BaseURL
		}
		return yf
	}
}
