package game

import (
	"errors"
	"testing"
	"time"
)

func TestAcceptOrder(t *testing.T) {
	s := NewInitialState()
	s.AvailableOrders = []Order{testOrder()}

	if err := Apply(&s, AcceptOrder{OrderID: 1}, time.Now()); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if len(s.AvailableOrders) != 0 || len(s.ProductionQueue) != 1 {
		t.Fatalf("order not moved to queue")
	}

	if err := Apply(&s, AcceptOrder{OrderID: 42}, time.Now()); !errors.Is(err, ErrUnknownOrder) {
		t.Fatalf("want ErrUnknownOrder, got %v", err)
	}
}

func TestAcceptOrderQueueFull(t *testing.T) {
	s := NewInitialState()
	for i := 0; i < ProductionQueueCap; i++ {
		s.ProductionQueue = append(s.ProductionQueue, Order{ID: 100 + i})
	}
	s.AvailableOrders = []Order{testOrder()}

	if err := Apply(&s, AcceptOrder{OrderID: 1}, time.Now()); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("want ErrQueueFull, got %v", err)
	}
	if len(s.AvailableOrders) != 1 {
		t.Fatalf("rejected accept mutated state")
	}
}

func TestStartShipment(t *testing.T) {
	s := NewInitialState()
	s.Pallets["Widget"] = StoredPallet{Quantity: 5, ValueMicros: 100 * MicrosPerCredit}
	now := time.Now()

	err := Apply(&s, StartShipment{VehicleID: "wheelbarrow", Pallets: map[string]int{"Widget": 2}}, now)
	if err != nil {
		t.Fatalf("ship: %v", err)
	}
	if got := s.Pallets["Widget"].Quantity; got != 3 {
		t.Fatalf("remaining pallets = %d", got)
	}
	if len(s.Shipments) != 1 {
		t.Fatalf("no shipment created")
	}
	sh := s.Shipments[0]
	if sh.TotalValueMicros != 200*MicrosPerCredit || sh.TotalQuantity != 2 {
		t.Fatalf("shipment totals = %+v", sh)
	}
	if sh.TotalDeliveryTime != 120 { // 2 pallets at 60s each
		t.Fatalf("delivery time = %v", sh.TotalDeliveryTime)
	}
	if !sh.ArrivalTime.Equal(now.Add(120 * time.Second)) {
		t.Fatalf("arrival = %v", sh.ArrivalTime)
	}
}

func TestStartShipmentErrors(t *testing.T) {
	s := NewInitialState()
	s.Pallets["Widget"] = StoredPallet{Quantity: 5, ValueMicros: MicrosPerCredit}

	err := Apply(&s, StartShipment{VehicleID: "semitruck", Pallets: map[string]int{"Widget": 1}}, time.Now())
	if !errors.Is(err, ErrUnknownVehicle) {
		t.Fatalf("want ErrUnknownVehicle, got %v", err)
	}

	err = Apply(&s, StartShipment{VehicleID: "wheelbarrow", Pallets: map[string]int{"Nothing": 3}}, time.Now())
	if !errors.Is(err, ErrEmptyShipment) {
		t.Fatalf("want ErrEmptyShipment, got %v", err)
	}

	// Wheelbarrow holds 2 pallets.
	err = Apply(&s, StartShipment{VehicleID: "wheelbarrow", Pallets: map[string]int{"Widget": 3}}, time.Now())
	if !errors.Is(err, ErrOverCapacity) {
		t.Fatalf("want ErrOverCapacity, got %v", err)
	}
	if s.Pallets["Widget"].Quantity != 5 || len(s.Shipments) != 0 {
		t.Fatalf("failed shipment mutated state")
	}
}

func TestStartShipmentDemandSurgeMultipliesValue(t *testing.T) {
	s := NewInitialState()
	s.Pallets["Widget"] = StoredPallet{Quantity: 2, ValueMicros: 100 * MicrosPerCredit}
	s.ActiveEvent = &SpecialEvent{
		ID: 1, Type: EventProductDemandSurge,
		TargetItem: "Widget", PriceMultiplier: 1.5,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	if err := Apply(&s, StartShipment{VehicleID: "wheelbarrow", Pallets: map[string]int{"Widget": 2}}, time.Now()); err != nil {
		t.Fatalf("ship: %v", err)
	}
	if got := s.Shipments[0].TotalValueMicros; got != 300*MicrosPerCredit {
		t.Fatalf("surged value = %d", got)
	}
}

func TestHireWorker(t *testing.T) {
	s := NewInitialState()
	if err := Apply(&s, HireWorker{}, time.Now()); err != nil {
		t.Fatalf("hire: %v", err)
	}
	if s.MoneyMicros != 0 {
		t.Fatalf("money = %d", s.MoneyMicros)
	}
	if len(s.Workers) != 2 {
		t.Fatalf("workers = %d", len(s.Workers))
	}
	w := s.Workers[1]
	if w.ID != 2 || w.Name != "Charlie" || w.Energy != 100 {
		t.Fatalf("worker = %+v", w)
	}

	if err := Apply(&s, HireWorker{}, time.Now()); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("want ErrInsufficientFunds, got %v", err)
	}
}

func TestAssignWorker(t *testing.T) {
	s := NewInitialState()
	if err := Apply(&s, AssignWorker{WorkerID: 1, LineID: 1}, time.Now()); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if s.Workers[0].AssignedLineID != 1 || s.Lines[0].AssignedWorkerID != 1 {
		t.Fatalf("assignment not symmetric")
	}

	if err := Apply(&s, AssignWorker{WorkerID: 1, LineID: 0}, time.Now()); err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if s.Workers[0].AssignedLineID != 0 || s.Lines[0].AssignedWorkerID != 0 {
		t.Fatalf("unassignment not symmetric")
	}

	if err := Apply(&s, AssignWorker{WorkerID: 9, LineID: 1}, time.Now()); !errors.Is(err, ErrUnknownWorker) {
		t.Fatalf("want ErrUnknownWorker, got %v", err)
	}
	if err := Apply(&s, AssignWorker{WorkerID: 1, LineID: 9}, time.Now()); !errors.Is(err, ErrUnknownLine) {
		t.Fatalf("want ErrUnknownLine, got %v", err)
	}

	s.Workers[0].Energy = 0
	if err := Apply(&s, AssignWorker{WorkerID: 1, LineID: 1}, time.Now()); !errors.Is(err, ErrWorkerExhausted) {
		t.Fatalf("want ErrWorkerExhausted, got %v", err)
	}
}

func TestAssignWorkerOccupiedLineLeavesWorkerIdle(t *testing.T) {
	s := NewInitialState()
	s.Workers = append(s.Workers, Worker{
		ID: 2, Name: "Bob", WageMicros: WorkerBaseWageMicros,
		Energy: 100, MaxEnergy: 100, Efficiency: 1, Stamina: 1,
		EfficiencyLevel: 1, StaminaLevel: 1,
	})
	if err := Apply(&s, AssignWorker{WorkerID: 1, LineID: 1}, time.Now()); err != nil {
		t.Fatalf("assign: %v", err)
	}

	if err := Apply(&s, AssignWorker{WorkerID: 2, LineID: 1}, time.Now()); err != nil {
		t.Fatalf("assign to occupied line: %v", err)
	}
	if s.Lines[0].AssignedWorkerID != 1 {
		t.Fatalf("occupied line reassigned")
	}
	if s.Workers[1].AssignedLineID != 0 {
		t.Fatalf("second worker should stay idle")
	}
}

func TestUpgradeWorker(t *testing.T) {
	s := NewInitialState()
	if err := Apply(&s, UpgradeWorker{WorkerID: 1, Stat: "efficiency"}, time.Now()); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	w := s.Workers[0]
	if w.Efficiency != 1.1 || w.EfficiencyLevel != 2 {
		t.Fatalf("worker = %+v", w)
	}
	if w.WageMicros != WorkerBaseWageMicros+WageRaisePerUpgrade {
		t.Fatalf("wage = %d", w.WageMicros)
	}
	if s.MoneyMicros != StartingMoneyMicros-25_000*MicrosPerCredit {
		t.Fatalf("money = %d", s.MoneyMicros)
	}

	s.Workers[0].Stamina = WorkerStaminaCap
	if err := Apply(&s, UpgradeWorker{WorkerID: 1, Stat: "stamina"}, time.Now()); !errors.Is(err, ErrCapReached) {
		t.Fatalf("want ErrCapReached, got %v", err)
	}
}

func TestUpgradeLine(t *testing.T) {
	s := NewInitialState()
	if err := Apply(&s, UpgradeLine{LineID: 1}, time.Now()); err != nil {
		t.Fatalf("upgrade: %v", err)
	}
	if s.Lines[0].Efficiency != 1.1 || s.Lines[0].EfficiencyLevel != 2 {
		t.Fatalf("line = %+v", s.Lines[0])
	}
	if s.MoneyMicros != StartingMoneyMicros-400*MicrosPerCredit {
		t.Fatalf("money = %d", s.MoneyMicros)
	}
}

func TestOrderRawMaterials(t *testing.T) {
	s := NewInitialState()
	if err := Apply(&s, OrderRawMaterials{Material: "Resistors", Quantity: 100}, time.Now()); err != nil {
		t.Fatalf("order: %v", err)
	}
	if len(s.Invoices) != 1 {
		t.Fatalf("no invoice")
	}
	inv := s.Invoices[0]
	if inv.TotalCostMicros != 100*MicrosPerCredit {
		t.Fatalf("cost = %d", inv.TotalCostMicros)
	}
	if inv.TotalDeliveryTime != 2240 {
		t.Fatalf("delivery time = %v", inv.TotalDeliveryTime)
	}
	if inv.Status != "unpaid" {
		t.Fatalf("status = %q", inv.Status)
	}
	// Ordering only creates the invoice; nothing is debited yet.
	if s.MoneyMicros != StartingMoneyMicros {
		t.Fatalf("money = %d", s.MoneyMicros)
	}

	if err := Apply(&s, OrderRawMaterials{Material: "Unobtainium", Quantity: 1}, time.Now()); !errors.Is(err, ErrUnknownMaterial) {
		t.Fatalf("want ErrUnknownMaterial, got %v", err)
	}
}

func TestOrderRawMaterialsPriceEvent(t *testing.T) {
	s := NewInitialState()
	s.ActiveEvent = &SpecialEvent{
		ID: 1, Type: EventRawMaterialPriceChange,
		TargetItem: "Resistors", PriceMultiplier: 2,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := Apply(&s, OrderRawMaterials{Material: "Resistors", Quantity: 10}, time.Now()); err != nil {
		t.Fatalf("order: %v", err)
	}
	if got := s.Invoices[0].TotalCostMicros; got != 20*MicrosPerCredit {
		t.Fatalf("cost = %d", got)
	}
}

func TestPayInvoice(t *testing.T) {
	s := NewInitialState()
	s.Invoices = []Invoice{{
		ID: 1, ItemName: "Resistors", Quantity: 100,
		TotalCostMicros: 100 * MicrosPerCredit, Status: "unpaid",
		TotalDeliveryTime: 30,
	}}
	now := time.Now()

	if err := Apply(&s, PayInvoice{InvoiceID: 1}, now); err != nil {
		t.Fatalf("pay: %v", err)
	}
	inv := s.Invoices[0]
	if inv.Status != "paid" {
		t.Fatalf("status = %q", inv.Status)
	}
	if !inv.DeliveryArrivalTime.Equal(now.Add(30 * time.Second)) {
		t.Fatalf("arrival = %v", inv.DeliveryArrivalTime)
	}
	if s.MoneyMicros != StartingMoneyMicros-100*MicrosPerCredit {
		t.Fatalf("money = %d", s.MoneyMicros)
	}

	if err := Apply(&s, PayInvoice{InvoiceID: 1}, now); !errors.Is(err, ErrInvoiceNotPayable) {
		t.Fatalf("want ErrInvoiceNotPayable, got %v", err)
	}
	if err := Apply(&s, PayInvoice{InvoiceID: 7}, now); !errors.Is(err, ErrUnknownInvoice) {
		t.Fatalf("want ErrUnknownInvoice, got %v", err)
	}
}

func TestPayInvoiceSupplyDelayEvent(t *testing.T) {
	s := NewInitialState()
	s.Invoices = []Invoice{{
		ID: 1, ItemName: "Resistors", Quantity: 10,
		TotalCostMicros: 10 * MicrosPerCredit, Status: "unpaid",
		TotalDeliveryTime: 30,
	}}
	s.ActiveEvent = &SpecialEvent{
		ID: 1, Type: EventSupplyChainDelay, DelayTime: 120,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	now := time.Now()

	if err := Apply(&s, PayInvoice{InvoiceID: 1}, now); err != nil {
		t.Fatalf("pay: %v", err)
	}
	if !s.Invoices[0].DeliveryArrivalTime.Equal(now.Add(150 * time.Second)) {
		t.Fatalf("arrival = %v", s.Invoices[0].DeliveryArrivalTime)
	}
}

func TestResolveStrike(t *testing.T) {
	s := NewInitialState()
	if err := Apply(&s, ResolveStrike{}, time.Now()); !errors.Is(err, ErrNoActiveStrike) {
		t.Fatalf("want ErrNoActiveStrike, got %v", err)
	}

	s.ActiveEvent = &SpecialEvent{
		ID: 1, Type: EventWorkerStrike,
		StrikeDemandMicros: 5_000 * MicrosPerCredit,
		ExpiresAt:          time.Now().Add(time.Hour),
	}
	if err := Apply(&s, ResolveStrike{}, time.Now()); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !s.ActiveEvent.Resolved {
		t.Fatalf("strike not resolved")
	}
	if s.MoneyMicros != StartingMoneyMicros-5_000*MicrosPerCredit {
		t.Fatalf("money = %d", s.MoneyMicros)
	}
	if s.StrikesResolved != 1 {
		t.Fatalf("strikes resolved = %d", s.StrikesResolved)
	}

	if err := Apply(&s, ResolveStrike{}, time.Now()); !errors.Is(err, ErrNoActiveStrike) {
		t.Fatalf("double resolve: want ErrNoActiveStrike, got %v", err)
	}
}

func TestStartResearch(t *testing.T) {
	s := NewInitialState()
	if err := Apply(&s, StartResearch{ProjectID: "improved_logistics"}, time.Now()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.Research.CurrentProjectID != "improved_logistics" {
		t.Fatalf("current = %q", s.Research.CurrentProjectID)
	}
	if s.Research.Projects["improved_logistics"].Status != ResearchInProgress {
		t.Fatalf("status = %q", s.Research.Projects["improved_logistics"].Status)
	}
	if s.MoneyMicros != StartingMoneyMicros-25_000*MicrosPerCredit {
		t.Fatalf("money = %d", s.MoneyMicros)
	}

	if err := Apply(&s, StartResearch{ProjectID: "basic_automation"}, time.Now()); !errors.Is(err, ErrResearchBusy) {
		t.Fatalf("want ErrResearchBusy, got %v", err)
	}
	if err := Apply(&s, StartResearch{ProjectID: "cold_fusion"}, time.Now()); !errors.Is(err, ErrUnknownProject) {
		t.Fatalf("want ErrUnknownProject, got %v", err)
	}
}

func TestCompleteResearchUnlocks(t *testing.T) {
	s := NewInitialState()

	// Vehicle upgrade unlock.
	p := s.Research.Projects["improved_logistics"]
	p.Status = ResearchInProgress
	s.Research.Projects["improved_logistics"] = p
	s.Research.CurrentProjectID = "improved_logistics"
	if err := Apply(&s, CompleteResearch{ProjectID: "improved_logistics"}, time.Now()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if s.Research.CurrentProjectID != "" {
		t.Fatalf("current not cleared")
	}
	if _, ok := s.Upgrades["unlock_van"]; !ok {
		t.Fatalf("unlock_van not surfaced")
	}

	// Global efficiency unlock.
	p = s.Research.Projects["basic_automation"]
	p.Status = ResearchInProgress
	s.Research.Projects["basic_automation"] = p
	if err := Apply(&s, CompleteResearch{ProjectID: "basic_automation"}, time.Now()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if s.GlobalEfficiency != 1.05 {
		t.Fatalf("global efficiency = %v", s.GlobalEfficiency)
	}

	// Technology unlock.
	p = s.Research.Projects["advanced_circuit_design"]
	p.Status = ResearchInProgress
	s.Research.Projects["advanced_circuit_design"] = p
	if err := Apply(&s, CompleteResearch{ProjectID: "advanced_circuit_design"}, time.Now()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if len(s.UnlockedTechnologies) != 1 || s.UnlockedTechnologies[0] != "Advanced_Circuits" {
		t.Fatalf("technologies = %v", s.UnlockedTechnologies)
	}

	if err := Apply(&s, CompleteResearch{ProjectID: "improved_logistics"}, time.Now()); !errors.Is(err, ErrUnknownProject) {
		t.Fatalf("re-complete: want ErrUnknownProject, got %v", err)
	}
}

func TestIngestOrder(t *testing.T) {
	s := NewInitialState()
	order := testOrder()
	order.ID = 0
	if err := Apply(&s, IngestOrder{Order: order}, time.Now()); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if len(s.AvailableOrders) != 1 || s.AvailableOrders[0].ID != 1 {
		t.Fatalf("orders = %+v", s.AvailableOrders)
	}

	dup := testOrder()
	dup.ID = 1
	if err := Apply(&s, IngestOrder{Order: dup}, time.Now()); !errors.Is(err, ErrDuplicateOrder) {
		t.Fatalf("want ErrDuplicateOrder, got %v", err)
	}
}

func TestIngestEvent(t *testing.T) {
	s := NewInitialState()
	now := time.Now()
	ev := SpecialEvent{
		Name: "Chip Shortage", Type: EventRawMaterialPriceChange,
		TargetItem: "Resistors", PriceMultiplier: 2, Duration: 120,
	}
	if err := Apply(&s, IngestEvent{Event: ev}, now); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	got := s.ActiveEvent
	if got == nil || got.ID != 1 {
		t.Fatalf("event = %+v", got)
	}
	if !got.ExpiresAt.Equal(now.Add(120 * time.Second)) {
		t.Fatalf("expiry = %v", got.ExpiresAt)
	}

	if err := Apply(&s, IngestEvent{Event: ev}, now); !errors.Is(err, ErrEventActive) {
		t.Fatalf("want ErrEventActive, got %v", err)
	}

	if err := Apply(&s, ClearEvent{}, now); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.ActiveEvent != nil {
		t.Fatalf("event not cleared")
	}
	if err := Apply(&s, IngestEvent{Event: ev}, now); err != nil {
		t.Fatalf("reingest: %v", err)
	}
	if s.ActiveEvent.ID != 2 {
		t.Fatalf("event counter not advancing: %d", s.ActiveEvent.ID)
	}
}

func TestIngestHeadlineRing(t *testing.T) {
	s := NewInitialState()
	for i := 0; i < HeadlineRingSize+3; i++ {
		if err := Apply(&s, IngestHeadline{Text: "news"}, time.Now()); err != nil {
			t.Fatalf("ingest: %v", err)
		}
	}
	if len(s.Headlines) != HeadlineRingSize {
		t.Fatalf("headlines = %d", len(s.Headlines))
	}
}
