package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foundry/internal/api"
	"foundry/internal/config"
	"foundry/internal/content"
	"foundry/internal/game"
	"foundry/internal/metrics"
	"foundry/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadServerFromEnv()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var st game.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		st = pg
		logger.Info("using postgres save store")
	} else {
		sq, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			logger.Error("sqlite open failed", "error", err, "path", cfg.SQLitePath)
			os.Exit(1)
		}
		defer sq.Close()
		st = sq
		logger.Info("using sqlite save store", "path", cfg.SQLitePath)
	}

	m := metrics.New()

	svc := game.NewService(&countingStore{inner: st, m: m}, logger)
	if err := svc.Restore(ctx); err != nil {
		logger.Error("restore failed", "error", err)
		os.Exit(1)
	}

	svc.Subscribe(m)

	server := api.New(logger, svc, m)
	defer server.SnapshotHub().Close()

	if cfg.GeneratorURL != "" {
		gen := &countingGenerator{inner: content.NewClient(cfg.GeneratorURL, cfg.GeneratorAPIKey), m: m}
		sched := content.NewScheduler(svc, gen, logger)
		sched.OrderInterval = cfg.OrderEvery
		sched.EventInterval = cfg.EventEvery
		sched.NewsInterval = cfg.NewsEvery
		sched.EventChance = cfg.EventChance
		go sched.Run(ctx)
		logger.Info("content schedulers started", "generator_url", cfg.GeneratorURL)
	} else {
		logger.Warn("no generator configured; running without new orders or events")
	}

	go runTickLoop(ctx, svc, m, cfg.TickEvery, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("foundry api listening", "addr", cfg.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// countingStore forwards to the real store and counts failed saves.
type countingStore struct {
	inner game.Store
	m     *metrics.Metrics
}

func (s *countingStore) Save(ctx context.Context, st game.State) error {
	if err := s.inner.Save(ctx, st); err != nil {
		s.m.SaveFailures.Inc()
		return err
	}
	return nil
}

func (s *countingStore) Load(ctx context.Context) (game.State, bool, error) {
	return s.inner.Load(ctx)
}

// countingGenerator forwards to the content client and counts each call.
type countingGenerator struct {
	inner content.Generator
	m     *metrics.Metrics
}

func (g *countingGenerator) GenerateOrders(ctx context.Context, in game.GenerationInput) ([]content.GeneratedOrder, error) {
	g.m.GenerationRequests.WithLabelValues("orders").Inc()
	out, err := g.inner.GenerateOrders(ctx, in)
	if err != nil {
		g.m.GenerationFailures.WithLabelValues("orders").Inc()
	}
	return out, err
}

func (g *countingGenerator) GenerateEvent(ctx context.Context, in game.GenerationInput) (content.GeneratedEvent, error) {
	g.m.GenerationRequests.WithLabelValues("events").Inc()
	out, err := g.inner.GenerateEvent(ctx, in)
	if err != nil {
		g.m.GenerationFailures.WithLabelValues("events").Inc()
	}
	return out, err
}

func (g *countingGenerator) GenerateNews(ctx context.Context, in game.GenerationInput) (content.GeneratedNews, error) {
	g.m.GenerationRequests.WithLabelValues("news").Inc()
	out, err := g.inner.GenerateNews(ctx, in)
	if err != nil {
		g.m.GenerationFailures.WithLabelValues("news").Inc()
	}
	return out, err
}

func runTickLoop(ctx context.Context, svc *game.Service, m *metrics.Metrics, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	logger.Info("tick loop started", "every", every.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("tick loop stopped")
			return
		case <-ticker.C:
			start := time.Now()
			svc.Tick(ctx)
			m.ObserveTick(time.Since(start))
		}
	}
}
