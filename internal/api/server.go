package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"foundry/internal/game"
	"foundry/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	log     *slog.Logger
	game    *game.Service
	metrics *metrics.Metrics
	hub     *Hub
	mux     *chi.Mux
}

func New(logger *slog.Logger, gameSvc *game.Service, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.New()
	}
	s := &Server{
		log:     logger,
		game:    gameSvc,
		metrics: m,
		hub:     NewHub(logger),
		mux:     chi.NewRouter(),
	}
	gameSvc.Subscribe(s.hub)
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// SnapshotHub exposes the websocket broadcaster so the host can shut it down.
func (s *Server) SnapshotHub() *Hub { return s.hub }

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/state/headlines", s.handleHeadlines)
		r.Get("/ws", s.handleWS)

		r.Route("/actions", func(r chi.Router) {
			r.Post("/accept-order", s.handleAcceptOrder)
			r.Post("/ship", s.handleShip)
			r.Post("/purchase-upgrade", s.handlePurchaseUpgrade)
			r.Post("/hire-worker", s.handleHireWorker)
			r.Post("/assign-worker", s.handleAssignWorker)
			r.Post("/upgrade-worker", s.handleUpgradeWorker)
			r.Post("/upgrade-line", s.handleUpgradeLine)
			r.Post("/order-materials", s.handleOrderMaterials)
			r.Post("/pay-invoice", s.handlePayInvoice)
			r.Post("/resolve-strike", s.handleResolveStrike)
			r.Post("/start-research", s.handleStartResearch)
		})
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleHeadlines(w http.ResponseWriter, _ *http.Request) {
	snap := s.game.Snapshot()
	headlines := snap.Headlines
	if headlines == nil {
		headlines = []game.Headline{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"headlines": headlines})
}

// dispatch runs one action through the engine and writes the resulting
// snapshot, mapping reducer rejections to 4xx responses.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, act game.Action) {
	snap, err := s.game.Do(r.Context(), act)
	if err != nil {
		s.metrics.ActionsRejected.WithLabelValues(game.Name(act)).Inc()
		writeDomainError(w, err)
		return
	}
	s.metrics.ActionsApplied.WithLabelValues(game.Name(act)).Inc()
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAcceptOrder(w http.ResponseWriter, r *http.Request) {
	var in game.AcceptOrder
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.dispatch(w, r, in)
}

func (s *Server) handleShip(w http.ResponseWriter, r *http.Request) {
	var in game.StartShipment
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.dispatch(w, r, in)
}

func (s *Server) handlePurchaseUpgrade(w http.ResponseWriter, r *http.Request) {
	var in game.PurchaseUpgrade
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.dispatch(w, r, in)
}

func (s *Server) handleHireWorker(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, game.HireWorker{})
}

func (s *Server) handleAssignWorker(w http.ResponseWriter, r *http.Request) {
	var in game.AssignWorker
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.dispatch(w, r, in)
}

func (s *Server) handleUpgradeWorker(w http.ResponseWriter, r *http.Request) {
	var in game.UpgradeWorker
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Stat != "efficiency" && in.Stat != "stamina" {
		writeError(w, http.StatusBadRequest, "stat must be efficiency or stamina")
		return
	}
	s.dispatch(w, r, in)
}

func (s *Server) handleUpgradeLine(w http.ResponseWriter, r *http.Request) {
	var in game.UpgradeLine
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.dispatch(w, r, in)
}

func (s *Server) handleOrderMaterials(w http.ResponseWriter, r *http.Request) {
	var in game.OrderRawMaterials
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	s.dispatch(w, r, in)
}

func (s *Server) handlePayInvoice(w http.ResponseWriter, r *http.Request) {
	var in game.PayInvoice
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.dispatch(w, r, in)
}

func (s *Server) handleResolveStrike(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, game.ResolveStrike{})
}

func (s *Server) handleStartResearch(w http.ResponseWriter, r *http.Request) {
	var in game.StartResearch
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.dispatch(w, r, in)
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrUnknownOrder),
		errors.Is(err, game.ErrUnknownUpgrade),
		errors.Is(err, game.ErrUnknownWorker),
		errors.Is(err, game.ErrUnknownLine),
		errors.Is(err, game.ErrUnknownVehicle),
		errors.Is(err, game.ErrUnknownMaterial),
		errors.Is(err, game.ErrUnknownInvoice),
		errors.Is(err, game.ErrUnknownProject):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrResearchBusy),
		errors.Is(err, game.ErrEventActive),
		errors.Is(err, game.ErrDuplicateOrder):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrQueueFull),
		errors.Is(err, game.ErrCapReached),
		errors.Is(err, game.ErrWorkerExhausted),
		errors.Is(err, game.ErrNoActiveStrike),
		errors.Is(err, game.ErrEmptyShipment),
		errors.Is(err, game.ErrOverCapacity),
		errors.Is(err, game.ErrInvoiceNotPayable):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
