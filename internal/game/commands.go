package game

import (
	"fmt"
	"math"
	"time"
)

// Command handlers validate all preconditions before the first mutation so a
// returned error always means "state unchanged".

func acceptOrder(s *State, a AcceptOrder) error {
	idx := -1
	for i, o := range s.AvailableOrders {
		if o.ID == a.OrderID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrUnknownOrder
	}
	if len(s.ProductionQueue) >= ProductionQueueCap {
		return ErrQueueFull
	}
	order := s.AvailableOrders[idx]
	s.AvailableOrders = append(s.AvailableOrders[:idx], s.AvailableOrders[idx+1:]...)
	s.ProductionQueue = append(s.ProductionQueue, order)
	return nil
}

func startShipment(s *State, a StartShipment, now time.Time) error {
	vehicle, ok := s.Vehicles[a.VehicleID]
	if !ok {
		return ErrUnknownVehicle
	}

	shipped := map[string]StoredPallet{}
	totalQuantity := 0
	var totalValue int64
	for product, want := range a.Pallets {
		stored, ok := s.Pallets[product]
		if want <= 0 || !ok {
			continue
		}
		toShip := want
		if toShip > stored.Quantity {
			toShip = stored.Quantity
		}
		value := stored.ValueMicros
		if ev := s.ActiveEvent; ev != nil && ev.Type == EventProductDemandSurge && ev.TargetItem == product && ev.PriceMultiplier > 0 {
			value = int64(math.Round(float64(value) * ev.PriceMultiplier))
		}
		shipped[product] = StoredPallet{Quantity: toShip, ValueMicros: stored.ValueMicros}
		totalQuantity += toShip
		totalValue += int64(toShip) * value
	}
	if totalQuantity == 0 {
		return ErrEmptyShipment
	}
	if totalQuantity > vehicle.Capacity {
		return ErrOverCapacity
	}

	for product, batch := range shipped {
		stored := s.Pallets[product]
		stored.Quantity -= batch.Quantity
		if stored.Quantity <= 0 {
			delete(s.Pallets, product)
		} else {
			s.Pallets[product] = stored
		}
	}
	deliveryTime := float64(totalQuantity) * vehicle.TimePerPallet
	s.Shipments = append(s.Shipments, Shipment{
		ID:                s.nextShipmentID(),
		VehicleID:         vehicle.ID,
		Pallets:           shipped,
		TotalValueMicros:  totalValue,
		TotalQuantity:     totalQuantity,
		TotalDeliveryTime: deliveryTime,
		ArrivalTime:       now.Add(time.Duration(deliveryTime * float64(time.Second))),
	})
	return nil
}

func hireWorker(s *State) error {
	if s.MoneyMicros < WorkerHireCostMicros {
		return ErrInsufficientFunds
	}
	taken := map[string]bool{}
	for _, w := range s.Workers {
		taken[w.Name] = true
	}
	// First free pool name; Apply stays deterministic.
	name := ""
	for _, candidate := range workerNamePool {
		if !taken[candidate] {
			name = candidate
			break
		}
	}
	if name == "" {
		name = fmt.Sprintf("Worker #%d", len(s.Workers)+1)
	}
	s.MoneyMicros -= WorkerHireCostMicros
	s.Workers = append(s.Workers, Worker{
		ID: s.nextWorkerID(), Name: name, WageMicros: WorkerBaseWageMicros,
		Energy: 100, MaxEnergy: 100, Efficiency: 1, Stamina: 1,
		EfficiencyLevel: 1, StaminaLevel: 1,
	})
	return nil
}

func assignWorker(s *State, a AssignWorker) error {
	wi := s.workerIndex(a.WorkerID)
	if wi < 0 {
		return ErrUnknownWorker
	}
	if s.Workers[wi].Energy <= 0 {
		return ErrWorkerExhausted
	}
	if a.LineID != 0 && s.lineIndex(a.LineID) < 0 {
		return ErrUnknownLine
	}

	worker := &s.Workers[wi]
	if old := s.lineIndex(worker.AssignedLineID); old >= 0 {
		s.Lines[old].AssignedWorkerID = 0
	}
	worker.AssignedLineID = 0
	if a.LineID != 0 {
		// An occupied target leaves the worker unassigned rather than failing.
		if li := s.lineIndex(a.LineID); s.Lines[li].AssignedWorkerID == 0 {
			s.Lines[li].AssignedWorkerID = worker.ID
			worker.AssignedLineID = a.LineID
		}
	}
	return nil
}

func upgradeWorker(s *State, a UpgradeWorker) error {
	wi := s.workerIndex(a.WorkerID)
	if wi < 0 {
		return ErrUnknownWorker
	}
	worker := &s.Workers[wi]
	switch a.Stat {
	case "efficiency":
		if worker.Efficiency >= WorkerEfficiencyCap {
			return ErrCapReached
		}
		cost := tierCost(WorkerUpgradeBaseCost, worker.EfficiencyLevel, 1.5)
		if s.MoneyMicros < cost {
			return ErrInsufficientFunds
		}
		s.MoneyMicros -= cost
		worker.Efficiency += 0.1
		worker.EfficiencyLevel++
		worker.WageMicros += WageRaisePerUpgrade
	case "stamina":
		if worker.Stamina >= WorkerStaminaCap {
			return ErrCapReached
		}
		cost := tierCost(WorkerUpgradeBaseCost, worker.StaminaLevel, 1.5)
		if s.MoneyMicros < cost {
			return ErrInsufficientFunds
		}
		s.MoneyMicros -= cost
		worker.Stamina += 0.1
		worker.StaminaLevel++
		worker.WageMicros += WageRaisePerUpgrade
	default:
		return fmt.Errorf("unknown worker stat %q", a.Stat)
	}
	return nil
}

func upgradeLine(s *State, a UpgradeLine) error {
	li := s.lineIndex(a.LineID)
	if li < 0 {
		return ErrUnknownLine
	}
	line := &s.Lines[li]
	if line.Efficiency >= LineEfficiencyCap {
		return ErrCapReached
	}
	cost := tierCost(LineUpgradeBaseCost, line.EfficiencyLevel, 1.8)
	if s.MoneyMicros < cost {
		return ErrInsufficientFunds
	}
	s.MoneyMicros -= cost
	line.Efficiency += 0.1
	line.EfficiencyLevel++
	return nil
}

func orderRawMaterials(s *State, a OrderRawMaterials) error {
	spec, ok := MaterialCatalog[a.Material]
	if !ok {
		return ErrUnknownMaterial
	}
	if a.Quantity <= 0 {
		return fmt.Errorf("quantity must be > 0")
	}
	multiplier := 1.0
	if ev := s.ActiveEvent; ev != nil && ev.Type == EventRawMaterialPriceChange && ev.TargetItem == a.Material && ev.PriceMultiplier > 0 {
		multiplier = ev.PriceMultiplier
	}
	s.Invoices = append(s.Invoices, Invoice{
		ID:                s.nextInvoiceID(),
		ItemName:          a.Material,
		Quantity:          a.Quantity,
		TotalCostMicros:   CreditsToMicros(spec.CostPerUnit * float64(a.Quantity) * multiplier),
		Status:            "unpaid",
		TotalDeliveryTime: spec.TimePerUnit * float64(a.Quantity) * s.DeliveryTimeModifier,
	})
	return nil
}

func payInvoice(s *State, a PayInvoice, now time.Time) error {
	idx := s.invoiceIndex(a.InvoiceID)
	if idx < 0 {
		return ErrUnknownInvoice
	}
	inv := &s.Invoices[idx]
	if inv.Status != "unpaid" {
		return ErrInvoiceNotPayable
	}
	if s.MoneyMicros < inv.TotalCostMicros {
		return ErrInsufficientFunds
	}
	var delay float64
	if ev := s.ActiveEvent; ev != nil && ev.Type == EventSupplyChainDelay {
		delay = ev.DelayTime
	}
	s.MoneyMicros -= inv.TotalCostMicros
	inv.Status = "paid"
	inv.DeliveryArrivalTime = now.Add(time.Duration((inv.TotalDeliveryTime + delay) * float64(time.Second)))
	return nil
}

func resolveStrike(s *State) error {
	ev := s.ActiveEvent
	if ev == nil || ev.Type != EventWorkerStrike || ev.Resolved {
		return ErrNoActiveStrike
	}
	if s.MoneyMicros < ev.StrikeDemandMicros {
		return ErrInsufficientFunds
	}
	s.MoneyMicros -= ev.StrikeDemandMicros
	ev.Resolved = true
	s.StrikesResolved++
	return nil
}

func startResearch(s *State, a StartResearch) error {
	project, ok := s.Research.Projects[a.ProjectID]
	if !ok {
		return ErrUnknownProject
	}
	if project.Status != ResearchAvailable {
		return ErrUnknownProject
	}
	if s.Research.CurrentProjectID != "" {
		return ErrResearchBusy
	}
	if s.MoneyMicros < project.CostMicros {
		return ErrInsufficientFunds
	}
	s.MoneyMicros -= project.CostMicros
	project.Status = ResearchInProgress
	s.Research.Projects[a.ProjectID] = project
	s.Research.CurrentProjectID = a.ProjectID
	return nil
}

func completeResearch(s *State, a CompleteResearch) error {
	project, ok := s.Research.Projects[a.ProjectID]
	if !ok || project.Status != ResearchInProgress {
		return ErrUnknownProject
	}
	project.Status = ResearchCompleted
	s.Research.Projects[a.ProjectID] = project
	s.Research.CurrentProjectID = ""

	switch project.Unlock.Type {
	case UnlockGlobalEfficiency:
		s.GlobalEfficiency += project.Unlock.Modifier
	case UnlockUpgrade:
		if u, ok := vehicleUnlockUpgrades[project.Unlock.UpgradeID]; ok {
			s.Upgrades[u.ID] = u
		}
	case UnlockTechnology:
		for _, t := range s.UnlockedTechnologies {
			if t == project.Unlock.Technology {
				return nil
			}
		}
		s.UnlockedTechnologies = append(s.UnlockedTechnologies, project.Unlock.Technology)
	}
	return nil
}

func ingestOrder(s *State, a IngestOrder) error {
	order := a.Order
	if order.ID == 0 {
		order.ID = s.NextOrderID()
	} else if s.knownOrderID(order.ID) {
		return ErrDuplicateOrder
	}
	s.AvailableOrders = append(s.AvailableOrders, order)
	return nil
}

func ingestEvent(s *State, a IngestEvent, now time.Time) error {
	if s.ActiveEvent != nil {
		return ErrEventActive
	}
	ev := a.Event
	s.EventCounter++
	ev.ID = s.EventCounter
	ev.Resolved = false
	ev.ExpiresAt = now.Add(time.Duration(ev.Duration * float64(time.Second)))
	s.ActiveEvent = &ev
	return nil
}

func ingestHeadline(s *State, a IngestHeadline, now time.Time) error {
	s.Headlines = append(s.Headlines, Headline{Text: a.Text, At: now})
	if len(s.Headlines) > HeadlineRingSize {
		s.Headlines = s.Headlines[len(s.Headlines)-HeadlineRingSize:]
	}
	return nil
}
