package game

import "time"

// Action is the closed set of state transitions. Tick is dispatched by the
// host clock; everything else is player- or generator-initiated.
type Action interface {
	actionName() string
}

type Tick struct{}

type AcceptOrder struct {
	OrderID int `json:"order_id"`
}

type StartShipment struct {
	VehicleID string         `json:"vehicle_id"`
	Pallets   map[string]int `json:"pallets"`
}

type PurchaseUpgrade struct {
	UpgradeID string `json:"upgrade_id"`
}

type HireWorker struct{}

// AssignWorker moves a worker onto a line; LineID == 0 unassigns.
type AssignWorker struct {
	WorkerID int `json:"worker_id"`
	LineID   int `json:"line_id"`
}

type UpgradeWorker struct {
	WorkerID int    `json:"worker_id"`
	Stat     string `json:"stat"` // efficiency | stamina
}

type UpgradeLine struct {
	LineID int `json:"line_id"`
}

type OrderRawMaterials struct {
	Material string `json:"material"`
	Quantity int    `json:"quantity"`
}

type PayInvoice struct {
	InvoiceID int `json:"invoice_id"`
}

type ResolveStrike struct{}

type StartResearch struct {
	ProjectID string `json:"project_id"`
}

type CompleteResearch struct {
	ProjectID string `json:"project_id"`
}

// IngestOrder appends a generated order to the available pool. A zero ID is
// assigned by the engine; a non-zero ID is deduplicated.
type IngestOrder struct {
	Order Order `json:"order"`
}

// IngestEvent activates a generated event; the engine assigns the id and
// computes the expiry from Duration.
type IngestEvent struct {
	Event SpecialEvent `json:"event"`
}

type ClearEvent struct{}

type IngestHeadline struct {
	Text string `json:"text"`
}

func (Tick) actionName() string              { return "tick" }
func (AcceptOrder) actionName() string       { return "accept_order" }
func (StartShipment) actionName() string     { return "start_shipment" }
func (PurchaseUpgrade) actionName() string   { return "purchase_upgrade" }
func (HireWorker) actionName() string        { return "hire_worker" }
func (AssignWorker) actionName() string      { return "assign_worker" }
func (UpgradeWorker) actionName() string     { return "upgrade_worker" }
func (UpgradeLine) actionName() string       { return "upgrade_line" }
func (OrderRawMaterials) actionName() string { return "order_raw_materials" }
func (PayInvoice) actionName() string        { return "pay_invoice" }
func (ResolveStrike) actionName() string     { return "resolve_strike" }
func (StartResearch) actionName() string     { return "start_research" }
func (CompleteResearch) actionName() string  { return "complete_research" }
func (IngestOrder) actionName() string       { return "ingest_order" }
func (IngestEvent) actionName() string       { return "ingest_event" }
func (ClearEvent) actionName() string        { return "clear_event" }
func (IngestHeadline) actionName() string    { return "ingest_headline" }

// Name returns the wire identifier of an action.
func Name(act Action) string { return act.actionName() }

// Apply runs one action against the snapshot, mutating it in place. A non-nil
// error means a failed precondition; the reducer guarantees the snapshot is
// untouched in that case, so callers can treat errors as pure no-ops.
// Tick never returns an error.
func Apply(s *State, act Action, now time.Time) error {
	switch a := act.(type) {
	case Tick:
		tick(s, now)
		return nil
	case AcceptOrder:
		return acceptOrder(s, a)
	case StartShipment:
		return startShipment(s, a, now)
	case PurchaseUpgrade:
		return purchaseUpgrade(s, a)
	case HireWorker:
		return hireWorker(s)
	case AssignWorker:
		return assignWorker(s, a)
	case UpgradeWorker:
		return upgradeWorker(s, a)
	case UpgradeLine:
		return upgradeLine(s, a)
	case OrderRawMaterials:
		return orderRawMaterials(s, a)
	case PayInvoice:
		return payInvoice(s, a, now)
	case ResolveStrike:
		return resolveStrike(s)
	case StartResearch:
		return startResearch(s, a)
	case CompleteResearch:
		return completeResearch(s, a)
	case IngestOrder:
		return ingestOrder(s, a)
	case IngestEvent:
		return ingestEvent(s, a, now)
	case ClearEvent:
		s.ActiveEvent = nil
		return nil
	case IngestHeadline:
		return ingestHeadline(s, a, now)
	default:
		return nil
	}
}
