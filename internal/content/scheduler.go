package content

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"foundry/internal/game"
)

// Engine is the slice of the game service the schedulers drive.
type Engine interface {
	Do(ctx context.Context, act game.Action) (game.State, error)
	Snapshot() game.State
	GenerationSnapshot() game.GenerationInput
	EventChance() float64
}

// Generator produces new content from a state summary.
type Generator interface {
	GenerateOrders(ctx context.Context, in game.GenerationInput) ([]GeneratedOrder, error)
	GenerateEvent(ctx context.Context, in game.GenerationInput) (GeneratedEvent, error)
	GenerateNews(ctx context.Context, in game.GenerationInput) (GeneratedNews, error)
}

// Scheduler periodically tops up the order pool, rolls for special events and
// fetches news headlines. Each kind keeps at most one request in flight, so a
// slow generator can never stack calls.
type Scheduler struct {
	engine Engine
	gen    Generator
	log    *slog.Logger

	OrderInterval time.Duration
	EventInterval time.Duration
	NewsInterval  time.Duration
	EventChance   float64
	OrderPoolSize int

	orderBusy atomic.Bool
	eventBusy atomic.Bool
	newsBusy  atomic.Bool
}

func NewScheduler(engine Engine, gen Generator, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		engine:        engine,
		gen:           gen,
		log:           logger,
		OrderInterval: 30 * time.Second,
		EventInterval: 60 * time.Second,
		NewsInterval:  120 * time.Second,
		EventChance:   0.3,
		OrderPoolSize: 6,
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	orders := time.NewTicker(s.OrderInterval)
	events := time.NewTicker(s.EventInterval)
	news := time.NewTicker(s.NewsInterval)
	defer orders.Stop()
	defer events.Stop()
	defer news.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-orders.C:
			if s.orderBusy.CompareAndSwap(false, true) {
				go func() {
					defer s.orderBusy.Store(false)
					s.TopUpOrders(ctx)
				}()
			}
		case <-events.C:
			if s.eventBusy.CompareAndSwap(false, true) {
				go func() {
					defer s.eventBusy.Store(false)
					s.RollEvent(ctx)
				}()
			}
		case <-news.C:
			if s.newsBusy.CompareAndSwap(false, true) {
				go func() {
					defer s.newsBusy.Store(false)
					s.FetchNews(ctx)
				}()
			}
		}
	}
}

// TopUpOrders fetches a batch when the available pool is below target.
func (s *Scheduler) TopUpOrders(ctx context.Context) {
	snap := s.engine.Snapshot()
	if len(snap.AvailableOrders) >= s.OrderPoolSize {
		return
	}
	batch, err := s.gen.GenerateOrders(ctx, s.engine.GenerationSnapshot())
	if err != nil {
		s.log.Warn("order generation failed", "error", err)
		return
	}
	accepted := 0
	for _, raw := range batch {
		if err := raw.Validate(); err != nil {
			s.log.Warn("generated order rejected", "product", raw.ProductName, "error", err)
			continue
		}
		if _, err := s.engine.Do(ctx, game.IngestOrder{Order: raw.ToOrder()}); err != nil {
			s.log.Warn("order ingest failed", "error", err)
			continue
		}
		accepted++
	}
	s.log.Info("order pool topped up", "generated", len(batch), "accepted", accepted)
}

// RollEvent spawns at most one event, gated on chance and on no event being
// already active.
func (s *Scheduler) RollEvent(ctx context.Context) {
	snap := s.engine.Snapshot()
	if snap.ActiveEvent != nil {
		return
	}
	if s.engine.EventChance() >= s.EventChance {
		return
	}
	raw, err := s.gen.GenerateEvent(ctx, s.engine.GenerationSnapshot())
	if err != nil {
		s.log.Warn("event generation failed", "error", err)
		return
	}
	if err := raw.Validate(); err != nil {
		s.log.Warn("generated event rejected", "type", raw.Type, "error", err)
		return
	}
	if _, err := s.engine.Do(ctx, game.IngestEvent{Event: raw.ToEvent()}); err != nil {
		s.log.Warn("event ingest failed", "error", err)
		return
	}
	s.log.Info("event started", "type", raw.Type, "name", raw.Name)
}

func (s *Scheduler) FetchNews(ctx context.Context) {
	raw, err := s.gen.GenerateNews(ctx, s.engine.GenerationSnapshot())
	if err != nil {
		s.log.Warn("news generation failed", "error", err)
		return
	}
	if err := raw.Validate(); err != nil {
		s.log.Warn("generated headline rejected", "error", err)
		return
	}
	if _, err := s.engine.Do(ctx, game.IngestHeadline{Text: raw.Headline}); err != nil {
		s.log.Warn("headline ingest failed", "error", err)
	}
}
