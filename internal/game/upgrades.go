package game

import (
	"fmt"
	"math"
)

// purchaseUpgrade debits the listed price and applies the upgrade's effect.
// Ladder upgrades re-derive their next tier in place; capped ones are removed
// from the catalog on their final purchase.
func purchaseUpgrade(s *State, a PurchaseUpgrade) error {
	upgrade, ok := s.Upgrades[a.UpgradeID]
	if !ok {
		return ErrUnknownUpgrade
	}
	if s.MoneyMicros < upgrade.CostMicros {
		return ErrInsufficientFunds
	}

	switch a.UpgradeID {
	case "add_line":
		if len(s.Lines) >= MaxProductionLines {
			return ErrCapReached
		}
		s.MoneyMicros -= upgrade.CostMicros
		s.Lines = append(s.Lines, newLine(len(s.Lines)+1))
		if len(s.Lines) >= MaxProductionLines {
			delete(s.Upgrades, "add_line")
		} else {
			upgrade.CostMicros = escalate(upgrade.CostMicros, 2.5)
			upgrade.Level++
			s.Upgrades["add_line"] = upgrade
		}

	case "warehouse_expansion":
		if s.WarehouseCapacity >= MaxWarehouseCapacity {
			return ErrCapReached
		}
		s.MoneyMicros -= upgrade.CostMicros
		amount := int(math.Floor(WarehouseUpgradeBaseAmount * math.Pow(float64(upgrade.Level), WarehouseUpgradePower)))
		next := s.WarehouseCapacity + amount
		if next > MaxWarehouseCapacity {
			s.WarehouseCapacity = MaxWarehouseCapacity
		} else {
			s.WarehouseCapacity = next
		}
		if next >= MaxWarehouseCapacity {
			delete(s.Upgrades, "warehouse_expansion")
		} else {
			nextLevel := upgrade.Level + 1
			nextAmount := int(math.Floor(WarehouseUpgradeBaseAmount * math.Pow(float64(nextLevel), WarehouseUpgradePower)))
			upgrade.Level = nextLevel
			upgrade.CostMicros = tierCost(WarehouseExpansionBaseCost, nextLevel, 1.7)
			upgrade.Description = fmt.Sprintf("Increase warehouse capacity by %d pallets.", nextAmount)
			s.Upgrades["warehouse_expansion"] = upgrade
		}

	case "power_expansion":
		s.MoneyMicros -= upgrade.CostMicros
		nextLevel := upgrade.Level + 1
		s.PowerCapacityMW += int(math.Floor(PowerUpgradeBaseAmount * math.Pow(float64(upgrade.Level), 1.5)))
		upgrade.Level = nextLevel
		upgrade.CostMicros = tierCost(PowerGridBaseCost, nextLevel, 1.8)
		upgrade.Description = fmt.Sprintf("Increase power capacity by %d MW.",
			int(math.Floor(PowerUpgradeBaseAmount*math.Pow(float64(nextLevel), 1.5))))
		s.Upgrades["power_expansion"] = upgrade

	case "cert_level_2", "cert_level_3", "cert_level_4", "cert_level_5":
		s.MoneyMicros -= upgrade.CostMicros
		level := upgrade.Level
		s.CertificationLevel = level
		delete(s.Upgrades, a.UpgradeID)
		if nextLevel := level + 1; nextLevel <= MaxCertification {
			id := fmt.Sprintf("cert_level_%d", nextLevel)
			s.Upgrades[id] = Upgrade{
				ID:          id,
				Name:        certificationNames[nextLevel],
				Description: certificationDescriptions[nextLevel],
				Level:       nextLevel,
				CostMicros:  tierCost(CertificationBaseCost, level, 2.5),
			}
		}

	case "unlock_pickup", "unlock_van", "unlock_boxtruck", "unlock_semitruck":
		vehicleID := a.UpgradeID[len("unlock_"):]
		s.MoneyMicros -= upgrade.CostMicros
		s.Vehicles[vehicleID] = vehicleCatalog[vehicleID]
		delete(s.Upgrades, a.UpgradeID)

	case "delivery_speed_1":
		s.MoneyMicros -= upgrade.CostMicros
		s.DeliveryTimeModifier = 0.85
		delete(s.Upgrades, "delivery_speed_1")
		s.Upgrades["delivery_speed_2"] = Upgrade{
			ID: "delivery_speed_2", Name: "Regional Distribution Center",
			Description: "Reduce material delivery times by a further 20%.",
			Level:       2, CostMicros: 200_000 * MicrosPerCredit,
		}

	case "delivery_speed_2":
		s.MoneyMicros -= upgrade.CostMicros
		s.DeliveryTimeModifier = 0.65
		delete(s.Upgrades, "delivery_speed_2")
		s.Upgrades["delivery_speed_3"] = Upgrade{
			ID: "delivery_speed_3", Name: "Drone Delivery Network",
			Description: "Reduce material delivery times by a further 25%.",
			Level:       3, CostMicros: 1_000_000 * MicrosPerCredit,
		}

	case "delivery_speed_3":
		s.MoneyMicros -= upgrade.CostMicros
		s.DeliveryTimeModifier = 0.40
		delete(s.Upgrades, "delivery_speed_3")

	default:
		return ErrUnknownUpgrade
	}
	return nil
}

// escalate reprices a ladder upgrade, rounding down to whole credits.
func escalate(costMicros int64, factor float64) int64 {
	return int64(math.Floor(MicrosToCredits(costMicros)*factor)) * MicrosPerCredit
}
