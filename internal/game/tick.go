package game

import (
	"math"
	"time"
)

// tick advances the simulation by one second. It never fails: every phase
// degrades to a no-op when resources are missing.
//
// Phase order matters and is fixed: event expiry, shipment settlement,
// invoice delivery, strike gate, wages and energy, power usage, production,
// queue auto-fill, research, achievements.
func tick(s *State, now time.Time) {
	expireEvent(s, now)
	settleShipments(s, now)
	usedSpace := s.UsedSpace()
	usedSpace = deliverInvoices(s, now, usedSpace)

	if s.strikeActive() {
		s.PowerUsageMW = 0
	} else {
		exhausted := applyWagesAndEnergy(s)
		s.PowerUsageMW = s.computePowerUsage()
		gridEfficiency := powerGridEfficiency(s.PowerUsageMW, s.PowerCapacityMW)
		usedSpace = advanceProduction(s, exhausted, gridEfficiency, usedSpace)
	}

	autoFillQueue(s, usedSpace)
	advanceResearch(s)
	evaluateAchievements(s)
}

func expireEvent(s *State, now time.Time) {
	if s.ActiveEvent != nil && !now.Before(s.ActiveEvent.ExpiresAt) {
		s.ActiveEvent = nil
	}
}

func settleShipments(s *State, now time.Time) {
	remaining := s.Shipments[:0]
	for _, sh := range s.Shipments {
		if now.Before(sh.ArrivalTime) {
			remaining = append(remaining, sh)
			continue
		}
		s.MoneyMicros += sh.TotalValueMicros
		s.TotalPalletsShipped += sh.TotalQuantity
	}
	s.Shipments = remaining
}

// deliverInvoices adds arrived material purchases to stock, truncated to the
// remaining warehouse space. The overflow is dropped, not queued.
func deliverInvoices(s *State, now time.Time, usedSpace float64) float64 {
	remaining := s.Invoices[:0]
	for _, inv := range s.Invoices {
		if inv.Status != "paid" || now.Before(inv.DeliveryArrivalTime) {
			remaining = append(remaining, inv)
			continue
		}
		availableUnits := (float64(s.WarehouseCapacity) - usedSpace) * float64(UnitsPerPalletSpace)
		if availableUnits < 0 {
			availableUnits = 0
		}
		add := inv.Quantity
		if limit := int(math.Floor(availableUnits)); add > limit {
			add = limit
		}
		s.RawMaterials[inv.ItemName] += add
		usedSpace += float64(add) / float64(UnitsPerPalletSpace)
	}
	s.Invoices = remaining
	return usedSpace
}

// applyWagesAndEnergy debits wages for assigned workers (money may go
// negative), depletes energy on assigned workers and regenerates idle ones.
// Workers hitting zero energy are force-unassigned; their ids are returned so
// production can drop them from their lines.
func applyWagesAndEnergy(s *State) map[int]bool {
	exhausted := map[int]bool{}
	var wages int64
	for i := range s.Workers {
		w := &s.Workers[i]
		if w.AssignedLineID != 0 {
			wages += w.WageMicros
			w.Energy -= BaseEnergyDepletion / w.Stamina
			if w.Energy <= 0 {
				w.Energy = 0
				w.AssignedLineID = 0
				exhausted[w.ID] = true
			}
		} else {
			w.Energy = math.Min(w.MaxEnergy, w.Energy+EnergyRegenPerTick)
		}
	}
	s.MoneyMicros -= wages
	return exhausted
}

func advanceProduction(s *State, exhausted map[int]bool, gridEfficiency, usedSpace float64) float64 {
	for i := range s.Lines {
		line := &s.Lines[i]
		line.BlockedByMaterials = false
		if line.AssignedWorkerID != 0 && exhausted[line.AssignedWorkerID] {
			line.AssignedWorkerID = 0
		}
		if line.OrderID == 0 || line.AssignedWorkerID == 0 {
			continue
		}
		wi := s.workerIndex(line.AssignedWorkerID)
		if wi < 0 {
			continue
		}

		if float64(s.WarehouseCapacity)-usedSpace < 1 {
			continue // no room for a new pallet
		}
		if !s.hasMaterialsForOne(line.MaterialRequirements) {
			line.BlockedByMaterials = true
			continue
		}

		eff := s.effectiveEfficiency(*line, s.Workers[wi], gridEfficiency)
		line.Progress = math.Min(100, line.Progress+(100/line.TimeToProduce)*eff)

		target := int(math.Floor(line.Progress / 100 * float64(line.Quantity)))
		newlyEarned := target - line.CompletedQuantity
		if newlyEarned > 0 {
			produce := newlyEarned
			if limit := s.maxUnitsFromMaterials(line.MaterialRequirements); limit >= 0 && produce > limit {
				produce = limit
			}
			if spaceCap := int(math.Floor(float64(s.WarehouseCapacity) - usedSpace)); produce > spaceCap {
				produce = spaceCap
			}
			if produce > 0 {
				for material, perUnit := range line.MaterialRequirements {
					s.RawMaterials[material] -= produce * perUnit
				}
				valuePerPallet := line.RewardMicros / int64(line.Quantity)
				existing := s.Pallets[line.ProductName]
				s.Pallets[line.ProductName] = StoredPallet{
					Quantity:    existing.Quantity + produce,
					ValueMicros: valuePerPallet,
				}
				usedSpace += float64(produce)
				line.CompletedQuantity += produce
			}
		}

		if line.Progress >= 100 && line.CompletedQuantity >= line.Quantity {
			completeOrder(s, line)
		}
	}
	return usedSpace
}

func completeOrder(s *State, line *ProductionLine) {
	for i, o := range s.ActiveOrders {
		if o.ID != line.OrderID {
			continue
		}
		if o.IsContract {
			s.TotalContractsCompleted++
			s.Reputation += o.ReputationReward
		}
		s.ActiveOrders = append(s.ActiveOrders[:i], s.ActiveOrders[i+1:]...)
		break
	}
	id, eff, level, worker := line.ID, line.Efficiency, line.EfficiencyLevel, line.AssignedWorkerID
	*line = newLine(id)
	line.Efficiency = eff
	line.EfficiencyLevel = level
	line.AssignedWorkerID = worker
}

// autoFillQueue moves the front of the production queue onto the first idle
// line, at most one assignment per tick.
func autoFillQueue(s *State, usedSpace float64) {
	if len(s.ProductionQueue) == 0 || usedSpace >= float64(s.WarehouseCapacity) {
		return
	}
	for i := range s.Lines {
		if !s.Lines[i].Idle() {
			continue
		}
		next := s.ProductionQueue[0]
		line := &s.Lines[i]
		line.OrderID = next.ID
		line.ProductName = next.ProductName
		line.TimeToProduce = next.TimeToProduce
		line.Quantity = next.Quantity
		line.RewardMicros = next.RewardMicros
		line.Progress = 0
		line.CompletedQuantity = 0
		line.MaterialRequirements = cloneIntMap(next.MaterialRequirements)
		s.ProductionQueue = s.ProductionQueue[1:]
		s.ActiveOrders = append(s.ActiveOrders, next)
		return
	}
}

func advanceResearch(s *State) {
	id := s.Research.CurrentProjectID
	if id == "" {
		return
	}
	project, ok := s.Research.Projects[id]
	if !ok {
		return
	}
	project.Progress = math.Min(100, project.Progress+100/project.TimeToComplete)
	s.Research.Projects[id] = project
}
