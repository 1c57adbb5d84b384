package game

// UsedSpace measures warehouse occupancy in pallet-space units: one per
// stored pallet plus raw-material units at UnitsPerPalletSpace per slot.
func (s *State) UsedSpace() float64 {
	pallets := 0
	for _, p := range s.Pallets {
		pallets += p.Quantity
	}
	units := 0
	for _, q := range s.RawMaterials {
		units += q
	}
	return float64(pallets) + float64(units)/float64(UnitsPerPalletSpace)
}

func (s *State) AvailableSpace() float64 {
	return float64(s.WarehouseCapacity) - s.UsedSpace()
}

// hasMaterialsForOne reports whether stock covers one more unit on the line.
func (s *State) hasMaterialsForOne(reqs map[string]int) bool {
	for material, needed := range reqs {
		if s.RawMaterials[material] < needed {
			return false
		}
	}
	return true
}

// maxUnitsFromMaterials is the largest batch current stock can cover, taking
// the minimum across all required materials. Lines without requirements are
// unbounded (-1).
func (s *State) maxUnitsFromMaterials(reqs map[string]int) int {
	max := -1
	for material, needed := range reqs {
		if needed <= 0 {
			continue
		}
		can := s.RawMaterials[material] / needed
		if max < 0 || can < max {
			max = can
		}
	}
	return max
}

// computePowerUsage sums fixed per-line draw over lines that could actually
// run this tick: an order, a worker, and materials for at least one unit.
func (s *State) computePowerUsage() int {
	usage := 0
	for _, l := range s.Lines {
		if l.OrderID == 0 || l.AssignedWorkerID == 0 {
			continue
		}
		if s.workerIndex(l.AssignedWorkerID) < 0 {
			continue
		}
		if !s.hasMaterialsForOne(l.MaterialRequirements) {
			continue
		}
		usage += LinePowerConsumptionMW
	}
	return usage
}

// powerGridEfficiency is the uniform brownout scalar: 1 while within
// capacity, capacity/draw once over.
func powerGridEfficiency(usageMW, capacityMW int) float64 {
	if usageMW <= capacityMW || usageMW == 0 {
		return 1
	}
	return float64(capacityMW) / float64(usageMW)
}

func (s *State) eventEfficiencyBoost() float64 {
	if s.ActiveEvent != nil && s.ActiveEvent.Type == EventGlobalEfficiencyBoost && s.ActiveEvent.EfficiencyBoost > 0 {
		return s.ActiveEvent.EfficiencyBoost
	}
	return 1
}

// effectiveEfficiency composes every multiplier that drives progress per tick.
func (s *State) effectiveEfficiency(line ProductionLine, worker Worker, gridEfficiency float64) float64 {
	return line.Efficiency * worker.Efficiency * s.eventEfficiencyBoost() * gridEfficiency * s.GlobalEfficiency
}

// strikeActive reports an unresolved worker strike; wages and production are
// suspended while it holds.
func (s *State) strikeActive() bool {
	return s.ActiveEvent != nil && s.ActiveEvent.Type == EventWorkerStrike && !s.ActiveEvent.Resolved
}
