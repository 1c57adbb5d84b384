package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"foundry/internal/game"
)

// Metrics bundles the simulation collectors on a private registry so tests
// can run several instances without duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	TicksTotal         prometheus.Counter
	TickDuration       prometheus.Histogram
	ActionsApplied     *prometheus.CounterVec
	ActionsRejected    *prometheus.CounterVec
	GenerationRequests *prometheus.CounterVec
	GenerationFailures *prometheus.CounterVec
	SaveFailures       prometheus.Counter

	moneyCredits   prometheus.Gauge
	reputation     prometheus.Gauge
	palletUnits    prometheus.Gauge
	powerUsageMW   prometheus.Gauge
	workerCount    prometheus.Gauge
	lineCount      prometheus.Gauge
	ordersPool     prometheus.Gauge
	palletsShipped prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foundry_ticks_total",
			Help: "Simulation ticks processed.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "foundry_tick_duration_seconds",
			Help:    "Wall-clock duration of one tick.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		ActionsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foundry_actions_applied_total",
			Help: "Player and generator actions accepted by the reducer.",
		}, []string{"action"}),
		ActionsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foundry_actions_rejected_total",
			Help: "Actions rejected by a reducer precondition.",
		}, []string{"action"}),
		GenerationRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foundry_generation_requests_total",
			Help: "Content generation calls by kind.",
		}, []string{"kind"}),
		GenerationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "foundry_generation_failures_total",
			Help: "Failed content generation calls by kind.",
		}, []string{"kind"}),
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "foundry_snapshot_save_failures_total",
			Help: "Snapshot writes that returned an error.",
		}),
		moneyCredits: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "foundry_money_credits",
			Help: "Current balance in credits.",
		}),
		reputation: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "foundry_reputation",
			Help: "Current reputation score.",
		}),
		palletUnits: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "foundry_warehouse_pallet_units",
			Help: "Units stored in the warehouse across all pallets.",
		}),
		powerUsageMW: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "foundry_power_usage_mw",
			Help: "Grid draw at the last tick in megawatts.",
		}),
		workerCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "foundry_workers",
			Help: "Workers on payroll.",
		}),
		lineCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "foundry_production_lines",
			Help: "Production lines owned.",
		}),
		ordersPool: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "foundry_available_orders",
			Help: "Orders waiting in the available pool.",
		}),
		palletsShipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "foundry_pallets_shipped_total",
			Help: "Lifetime pallets delivered to customers.",
		}),
	}
	m.registry.MustRegister(
		m.TicksTotal, m.TickDuration,
		m.ActionsApplied, m.ActionsRejected,
		m.GenerationRequests, m.GenerationFailures, m.SaveFailures,
		m.moneyCredits, m.reputation, m.palletUnits, m.powerUsageMW,
		m.workerCount, m.lineCount, m.ordersPool, m.palletsShipped,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveTick(d time.Duration) {
	m.TicksTotal.Inc()
	m.TickDuration.Observe(d.Seconds())
}

// StateChanged implements game.Observer; the service calls it after every
// applied action and tick with a private snapshot.
func (m *Metrics) StateChanged(s game.State) {
	m.moneyCredits.Set(game.MicrosToCredits(s.MoneyMicros))
	m.reputation.Set(float64(s.Reputation))
	units := 0
	for _, p := range s.Pallets {
		units += p.Quantity
	}
	m.palletUnits.Set(float64(units))
	m.powerUsageMW.Set(float64(s.PowerUsageMW))
	m.workerCount.Set(float64(len(s.Workers)))
	m.lineCount.Set(float64(len(s.Lines)))
	m.ordersPool.Set(float64(len(s.AvailableOrders)))
	m.palletsShipped.Set(float64(s.TotalPalletsShipped))
}
