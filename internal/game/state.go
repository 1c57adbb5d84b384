package game

import "time"

// State is the full simulation snapshot. It is mutated only through Apply,
// always on a clone, so callers can hold old snapshots safely.
type State struct {
	MoneyMicros             int64                      `json:"money_micros"`
	Pallets                 map[string]StoredPallet    `json:"pallets"`
	RawMaterials            map[string]int             `json:"raw_materials"`
	WarehouseCapacity       int                        `json:"warehouse_capacity"`
	PowerCapacityMW         int                        `json:"power_capacity_mw"`
	PowerUsageMW            int                        `json:"power_usage_mw"`
	Lines                   []ProductionLine           `json:"production_lines"`
	AvailableOrders         []Order                    `json:"available_orders"`
	ProductionQueue         []Order                    `json:"production_queue"`
	ActiveOrders            []Order                    `json:"active_orders"`
	Upgrades                map[string]Upgrade         `json:"upgrades"`
	Workers                 []Worker                   `json:"workers"`
	Vehicles                map[string]Vehicle         `json:"vehicles"`
	Shipments               []Shipment                 `json:"active_shipments"`
	Invoices                []Invoice                  `json:"invoices"`
	CertificationLevel      int                        `json:"certification_level"`
	Reputation              int                        `json:"reputation"`
	Achievements            map[string]Achievement     `json:"achievements"`
	TotalPalletsShipped     int                        `json:"total_pallets_shipped"`
	TotalContractsCompleted int                        `json:"total_contracts_completed"`
	StrikesResolved         int                        `json:"strikes_resolved"`
	ActiveEvent             *SpecialEvent              `json:"active_event,omitempty"`
	EventCounter            int                        `json:"event_counter"`
	Research                ResearchState              `json:"research"`
	GlobalEfficiency        float64                    `json:"global_efficiency_modifier"`
	DeliveryTimeModifier    float64                    `json:"delivery_time_modifier"`
	UnlockedTechnologies    []string                   `json:"unlocked_technologies"`
	Headlines               []Headline                 `json:"headlines,omitempty"`
}

// ProductionLine runs exactly one order at a time. OrderID == 0 means idle;
// AssignedWorkerID == 0 means no worker.
type ProductionLine struct {
	ID                   int            `json:"id"`
	OrderID              int            `json:"order_id"`
	ProductName          string         `json:"product_name"`
	Progress             float64        `json:"progress"`
	TimeToProduce        float64        `json:"time_to_produce"`
	Efficiency           float64        `json:"efficiency"`
	EfficiencyLevel      int            `json:"efficiency_level"`
	Quantity             int            `json:"quantity"`
	CompletedQuantity    int            `json:"completed_quantity"`
	RewardMicros         int64          `json:"reward_micros"`
	AssignedWorkerID     int            `json:"assigned_worker_id"`
	MaterialRequirements map[string]int `json:"material_requirements,omitempty"`
	BlockedByMaterials   bool           `json:"blocked_by_materials"`
}

func (l ProductionLine) Idle() bool { return l.OrderID == 0 }

type Worker struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	WageMicros      int64   `json:"wage_micros"`
	AssignedLineID  int     `json:"assigned_line_id"`
	Energy          float64 `json:"energy"`
	MaxEnergy       float64 `json:"max_energy"`
	Efficiency      float64 `json:"efficiency"`
	Stamina         float64 `json:"stamina"`
	EfficiencyLevel int     `json:"efficiency_level"`
	StaminaLevel    int     `json:"stamina_level"`
}

type Order struct {
	ID                   int            `json:"id"`
	ProductName          string         `json:"product_name"`
	Quantity             int            `json:"quantity"`
	RewardMicros         int64          `json:"reward_micros"`
	TimeToProduce        float64        `json:"time_to_produce"`
	MaterialRequirements map[string]int `json:"material_requirements"`
	IsContract           bool           `json:"is_contract,omitempty"`
	ReputationReward     int            `json:"reputation_reward,omitempty"`
}

// StoredPallet tracks finished product in the warehouse. ValueMicros is the
// per-pallet sale value fixed at production time.
type StoredPallet struct {
	Quantity    int   `json:"quantity"`
	ValueMicros int64 `json:"value_micros"`
}

type Invoice struct {
	ID                  int       `json:"id"`
	ItemName            string    `json:"item_name"`
	Quantity            int       `json:"quantity"`
	TotalCostMicros     int64     `json:"total_cost_micros"`
	Status              string    `json:"status"` // unpaid | paid
	TotalDeliveryTime   float64   `json:"total_delivery_time"`
	DeliveryArrivalTime time.Time `json:"delivery_arrival_time,omitzero"`
}

type Shipment struct {
	ID                int                     `json:"id"`
	VehicleID         string                  `json:"vehicle_id"`
	Pallets           map[string]StoredPallet `json:"pallets"`
	TotalValueMicros  int64                   `json:"total_value_micros"`
	TotalQuantity     int                     `json:"total_quantity"`
	TotalDeliveryTime float64                 `json:"total_delivery_time"`
	ArrivalTime       time.Time               `json:"arrival_time"`
}

type Vehicle struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Capacity      int     `json:"capacity"`
	TimePerPallet float64 `json:"time_per_pallet"`
}

type Upgrade struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Level       int    `json:"level"`
	CostMicros  int64  `json:"cost_micros"`
}

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Completed   bool   `json:"is_completed"`
}

type ResearchState struct {
	Projects         map[string]ResearchProject `json:"projects"`
	CurrentProjectID string                     `json:"current_project_id,omitempty"`
}

const (
	ResearchAvailable  = "available"
	ResearchInProgress = "in_progress"
	ResearchCompleted  = "completed"
)

type ResearchProject struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	CostMicros     int64          `json:"cost_micros"`
	TimeToComplete float64        `json:"time_to_complete"`
	Progress       float64        `json:"progress"`
	Status         string         `json:"status"`
	Unlock         ResearchUnlock `json:"unlock"`
}

const (
	UnlockGlobalEfficiency = "GLOBAL_EFFICIENCY_MODIFIER"
	UnlockUpgrade          = "UNLOCK_UPGRADE"
	UnlockTechnology       = "UNLOCK_TECHNOLOGY"
)

// ResearchUnlock is discriminated by Type; exactly one of the payload fields
// is meaningful per type.
type ResearchUnlock struct {
	Type       string  `json:"type"`
	Modifier   float64 `json:"modifier,omitempty"`
	UpgradeID  string  `json:"upgrade_id,omitempty"`
	Technology string  `json:"technology,omitempty"`
}

const (
	EventRawMaterialPriceChange = "RAW_MATERIAL_PRICE_CHANGE"
	EventProductDemandSurge     = "PRODUCT_DEMAND_SURGE"
	EventGlobalEfficiencyBoost  = "GLOBAL_EFFICIENCY_BOOST"
	EventWorkerStrike           = "WORKER_STRIKE"
	EventSupplyChainDelay       = "SUPPLY_CHAIN_DELAY"
)

// SpecialEvent is discriminated by Type. At most one event is active.
type SpecialEvent struct {
	ID                 int       `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	Type               string    `json:"type"`
	Duration           float64   `json:"duration"`
	ExpiresAt          time.Time `json:"expires_at"`
	TargetItem         string    `json:"target_item,omitempty"`
	PriceMultiplier    float64   `json:"price_multiplier,omitempty"`
	EfficiencyBoost    float64   `json:"efficiency_boost,omitempty"`
	StrikeDemandMicros int64     `json:"strike_demand_micros,omitempty"`
	DelayTime          float64   `json:"delay_time,omitempty"`
	Resolved           bool      `json:"is_resolved,omitempty"`
}

type Headline struct {
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// NewInitialState is the fresh-game snapshot: one line, one idle worker, a
// wheelbarrow, and the starter upgrade catalog.
func NewInitialState() State {
	return State{
		MoneyMicros:       StartingMoneyMicros,
		Pallets:           map[string]StoredPallet{},
		RawMaterials:      map[string]int{},
		WarehouseCapacity: 20,
		PowerCapacityMW:   10,
		Lines:             []ProductionLine{newLine(1)},
		AvailableOrders:   []Order{},
		ProductionQueue:   []Order{},
		ActiveOrders:      []Order{},
		Upgrades:          initialUpgrades(),
		Workers: []Worker{{
			ID: 1, Name: "Alice", WageMicros: WorkerBaseWageMicros,
			Energy: 100, MaxEnergy: 100, Efficiency: 1, Stamina: 1,
			EfficiencyLevel: 1, StaminaLevel: 1,
		}},
		Vehicles: map[string]Vehicle{
			"wheelbarrow": vehicleCatalog["wheelbarrow"],
		},
		Shipments:            []Shipment{},
		Invoices:             []Invoice{},
		CertificationLevel:   1,
		Achievements:         initialAchievements(),
		Research:             ResearchState{Projects: initialResearchProjects()},
		GlobalEfficiency:     1.0,
		DeliveryTimeModifier: 1.0,
		UnlockedTechnologies: []string{},
	}
}

func newLine(id int) ProductionLine {
	return ProductionLine{ID: id, Efficiency: 1, EfficiencyLevel: 1}
}

// Clone deep-copies the snapshot.
func (s State) Clone() State {
	out := s
	out.Pallets = clonePalletMap(s.Pallets)
	out.RawMaterials = cloneIntMap(s.RawMaterials)
	out.Lines = make([]ProductionLine, len(s.Lines))
	for i, l := range s.Lines {
		l.MaterialRequirements = cloneIntMap(l.MaterialRequirements)
		out.Lines[i] = l
	}
	out.AvailableOrders = cloneOrders(s.AvailableOrders)
	out.ProductionQueue = cloneOrders(s.ProductionQueue)
	out.ActiveOrders = cloneOrders(s.ActiveOrders)
	out.Upgrades = make(map[string]Upgrade, len(s.Upgrades))
	for k, v := range s.Upgrades {
		out.Upgrades[k] = v
	}
	out.Workers = append([]Worker(nil), s.Workers...)
	out.Vehicles = make(map[string]Vehicle, len(s.Vehicles))
	for k, v := range s.Vehicles {
		out.Vehicles[k] = v
	}
	out.Shipments = make([]Shipment, len(s.Shipments))
	for i, sh := range s.Shipments {
		sh.Pallets = clonePalletMap(sh.Pallets)
		out.Shipments[i] = sh
	}
	out.Invoices = append([]Invoice(nil), s.Invoices...)
	out.Achievements = make(map[string]Achievement, len(s.Achievements))
	for k, v := range s.Achievements {
		out.Achievements[k] = v
	}
	if s.ActiveEvent != nil {
		ev := *s.ActiveEvent
		out.ActiveEvent = &ev
	}
	out.Research.Projects = make(map[string]ResearchProject, len(s.Research.Projects))
	for k, v := range s.Research.Projects {
		out.Research.Projects[k] = v
	}
	out.UnlockedTechnologies = append([]string(nil), s.UnlockedTechnologies...)
	out.Headlines = append([]Headline(nil), s.Headlines...)
	return out
}

func cloneIntMap(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func clonePalletMap(in map[string]StoredPallet) map[string]StoredPallet {
	if in == nil {
		return nil
	}
	out := make(map[string]StoredPallet, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneOrders(in []Order) []Order {
	out := make([]Order, len(in))
	for i, o := range in {
		o.MaterialRequirements = cloneIntMap(o.MaterialRequirements)
		out[i] = o
	}
	return out
}

func (s *State) lineIndex(id int) int {
	for i := range s.Lines {
		if s.Lines[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) workerIndex(id int) int {
	for i := range s.Workers {
		if s.Workers[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) invoiceIndex(id int) int {
	for i := range s.Invoices {
		if s.Invoices[i].ID == id {
			return i
		}
	}
	return -1
}

// NextOrderID is one past the highest order id anywhere in the pipeline.
func (s *State) NextOrderID() int {
	max := 0
	scan := func(orders []Order) {
		for _, o := range orders {
			if o.ID > max {
				max = o.ID
			}
		}
	}
	scan(s.AvailableOrders)
	scan(s.ProductionQueue)
	scan(s.ActiveOrders)
	for _, l := range s.Lines {
		if l.OrderID > max {
			max = l.OrderID
		}
	}
	return max + 1
}

func (s *State) nextWorkerID() int {
	max := 0
	for _, w := range s.Workers {
		if w.ID > max {
			max = w.ID
		}
	}
	return max + 1
}

func (s *State) nextInvoiceID() int {
	max := 0
	for _, inv := range s.Invoices {
		if inv.ID > max {
			max = inv.ID
		}
	}
	return max + 1
}

func (s *State) nextShipmentID() int {
	max := 0
	for _, sh := range s.Shipments {
		if sh.ID > max {
			max = sh.ID
		}
	}
	return max + 1
}

func (s *State) knownOrderID(id int) bool {
	all := [][]Order{s.AvailableOrders, s.ProductionQueue, s.ActiveOrders}
	for _, orders := range all {
		for _, o := range orders {
			if o.ID == id {
				return true
			}
		}
	}
	for _, l := range s.Lines {
		if l.OrderID == id {
			return true
		}
	}
	return false
}
