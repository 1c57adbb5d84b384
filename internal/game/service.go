package game

import (
	"context"
	"log/slog"
	mathrand "math/rand"
	"sort"
	"sync"
	"time"
)

// Store persists snapshots between runs. Load returns ok=false when no
// snapshot has been saved yet.
type Store interface {
	Save(ctx context.Context, s State) error
	Load(ctx context.Context) (State, bool, error)
}

// Observer receives the post-action snapshot after every applied action.
type Observer interface {
	StateChanged(s State)
}

// Service owns the authoritative game state. All mutation goes through
// Do or Tick under a single mutex; readers get deep-cloned snapshots.
type Service struct {
	mu    sync.Mutex
	state State

	store     Store
	log       *slog.Logger
	rand      *mathrand.Rand
	observers []Observer
}

func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		state: NewInitialState(),
		store: store,
		log:   logger,
		rand:  mathrand.New(mathrand.NewSource(time.Now().UnixNano())),
	}
}

// Restore replaces the current state with the stored snapshot, if any.
func (s *Service) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	loaded, ok, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	s.mu.Lock()
	s.state = loaded
	s.mu.Unlock()
	s.log.Info("state restored", "money_micros", loaded.MoneyMicros, "lines", len(loaded.Lines))
	return nil
}

func (s *Service) Subscribe(o Observer) {
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

// Snapshot returns a deep copy safe for concurrent reads and serialization.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Do applies a player or generator action. On error the state is unchanged
// and the returned snapshot reflects the pre-action state.
func (s *Service) Do(ctx context.Context, act Action) (State, error) {
	s.mu.Lock()
	next := s.state.Clone()
	if err := Apply(&next, act, time.Now()); err != nil {
		snap := s.state.Clone()
		s.mu.Unlock()
		s.log.Warn("action rejected", "action", Name(act), "error", err)
		return snap, err
	}
	s.state = next
	snap := next.Clone()
	observers := s.observers
	s.mu.Unlock()

	s.log.Info("action applied", "action", Name(act))
	s.persist(ctx, snap)
	for _, o := range observers {
		o.StateChanged(snap)
	}
	return snap, nil
}

// Tick advances the simulation by one second. Research that reached full
// progress during the tick is completed in the same call.
func (s *Service) Tick(ctx context.Context) State {
	s.mu.Lock()
	next := s.state.Clone()
	now := time.Now()
	tick(&next, now)
	if id := next.Research.CurrentProjectID; id != "" {
		if p, ok := next.Research.Projects[id]; ok && p.Progress >= 100 {
			if err := Apply(&next, CompleteResearch{ProjectID: id}, now); err != nil {
				s.log.Error("research completion failed", "project_id", id, "error", err)
			}
		}
	}
	s.state = next
	snap := next.Clone()
	observers := s.observers
	s.mu.Unlock()

	s.persist(ctx, snap)
	for _, o := range observers {
		o.StateChanged(snap)
	}
	return snap
}

// persist is best-effort; a failed save never blocks gameplay.
func (s *Service) persist(ctx context.Context, snap State) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(ctx, snap); err != nil {
		s.log.Error("snapshot save failed", "error", err)
	}
}

// GenerationInput summarizes state for the order and event generators.
type GenerationInput struct {
	MoneyMicros        int64              `json:"money_micros"`
	CertificationLevel int                `json:"certification_level"`
	Reputation         int                `json:"reputation"`
	LineCount          int                `json:"line_count"`
	WorkerCount        int                `json:"worker_count"`
	AvailableOrders    int                `json:"available_orders"`
	WarehouseUsagePct  float64            `json:"warehouse_usage_percent"`
	ActiveEvent        string             `json:"active_event,omitempty"`
	Materials          []string           `json:"materials"`
	RecentHeadlines    []string           `json:"recent_headlines,omitempty"`
	RawMaterials       map[string]int     `json:"raw_materials,omitempty"`
	Pallets            map[string]int     `json:"pallets,omitempty"`
	UnlockedTech       []string           `json:"unlocked_technologies,omitempty"`
}

// GenerationSnapshot summarizes the current state for prompt building.
func (s *Service) GenerationSnapshot() GenerationInput {
	st := s.Snapshot()

	in := GenerationInput{
		MoneyMicros:        st.MoneyMicros,
		CertificationLevel: st.CertificationLevel,
		Reputation:         st.Reputation,
		LineCount:          len(st.Lines),
		WorkerCount:        len(st.Workers),
		AvailableOrders:    len(st.AvailableOrders),
		RawMaterials:       st.RawMaterials,
		UnlockedTech:       st.UnlockedTechnologies,
	}
	if st.WarehouseCapacity > 0 {
		in.WarehouseUsagePct = st.UsedSpace() / float64(st.WarehouseCapacity) * 100
	}
	if st.ActiveEvent != nil {
		in.ActiveEvent = st.ActiveEvent.Type
	}
	for name := range MaterialCatalog {
		in.Materials = append(in.Materials, name)
	}
	sort.Strings(in.Materials)
	for _, h := range st.Headlines {
		in.RecentHeadlines = append(in.RecentHeadlines, h.Text)
	}
	in.Pallets = make(map[string]int, len(st.Pallets))
	for product, p := range st.Pallets {
		in.Pallets[product] = p.Quantity
	}
	return in
}

// EventChance rolls the spawn probability for the event scheduler.
func (s *Service) EventChance() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rand.Float64()
}
