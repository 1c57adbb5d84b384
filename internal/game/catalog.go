package game

import "fmt"

// MaterialSpec prices a raw material: cost per unit in credits and the base
// delivery time per unit in seconds.
type MaterialSpec struct {
	CostPerUnit float64
	TimePerUnit float64
}

var MaterialCatalog = map[string]MaterialSpec{
	"Resistors":           {CostPerUnit: 1, TimePerUnit: 22.4},
	"Capacitors":          {CostPerUnit: 2, TimePerUnit: 22.4},
	"Transistors":         {CostPerUnit: 5, TimePerUnit: 28.8},
	"LEDs":                {CostPerUnit: 3, TimePerUnit: 22.4},
	"PCBs":                {CostPerUnit: 20, TimePerUnit: 128},
	"Integrated Circuits": {CostPerUnit: 50, TimePerUnit: 256},
	"Diodes":              {CostPerUnit: 2.5, TimePerUnit: 19.2},
	"Inductors":           {CostPerUnit: 7, TimePerUnit: 38.4},
	"Quartz Crystals":     {CostPerUnit: 15, TimePerUnit: 80},
	"Switches":            {CostPerUnit: 8, TimePerUnit: 32.0},
}

var vehicleCatalog = map[string]Vehicle{
	"wheelbarrow": {ID: "wheelbarrow", Name: "Wheelbarrow", Capacity: 2, TimePerPallet: 60},
	"pickup":      {ID: "pickup", Name: "Pickup Truck", Capacity: 10, TimePerPallet: 10},
	"van":         {ID: "van", Name: "Cargo Van", Capacity: 25, TimePerPallet: 9},
	"boxtruck":    {ID: "boxtruck", Name: "Box Truck", Capacity: 50, TimePerPallet: 8},
	"semitruck":   {ID: "semitruck", Name: "Semi-Truck", Capacity: 200, TimePerPallet: 6},
}

func initialUpgrades() map[string]Upgrade {
	return map[string]Upgrade{
		"add_line": {
			ID: "add_line", Name: "New Production Line",
			Description: "Build an additional production line.",
			Level:       1, CostMicros: 10_000 * MicrosPerCredit,
		},
		"warehouse_expansion": {
			ID: "warehouse_expansion", Name: "Warehouse Expansion",
			Description: "Increase warehouse capacity by 20 pallets.",
			Level:       1, CostMicros: CreditsToMicros(WarehouseExpansionBaseCost),
		},
		"power_expansion": {
			ID: "power_expansion", Name: "Power Grid Expansion",
			Description: "Increase power capacity by 15 MW.",
			Level:       1, CostMicros: CreditsToMicros(PowerGridBaseCost),
		},
		"cert_level_2": {
			ID: "cert_level_2", Name: "Logistics Certification I",
			Description: "Unlocks access to more complex and profitable orders.",
			Level:       2, CostMicros: CreditsToMicros(CertificationBaseCost),
		},
		"delivery_speed_1": {
			ID: "delivery_speed_1", Name: "Local Supplier Contract",
			Description: "Reduce material delivery times by 15%.",
			Level:       1, CostMicros: 50_000 * MicrosPerCredit,
		},
		"unlock_pickup": {
			ID: "unlock_pickup", Name: "Buy Pickup Truck",
			Description: "Capacity: 10 pallets, faster delivery.",
			Level:       1, CostMicros: 15_000 * MicrosPerCredit,
		},
	}
}

var certificationNames = map[int]string{
	3: "Advanced Manufacturing Cert.",
	4: "Supply Chain Mastery",
	5: "Global Logistics Expert",
}

var certificationDescriptions = map[int]string{
	3: "Unlocks advanced orders and materials.",
	4: "Unlocks expert-level supply chain challenges.",
	5: "Unlocks the most complex and lucrative global contracts.",
}

// vehicleUnlockUpgrades are surfaced by research, not present at game start.
var vehicleUnlockUpgrades = map[string]Upgrade{
	"unlock_van": {
		ID: "unlock_van", Name: "Buy Cargo Van",
		Description: "Capacity: 25 pallets.",
		Level:       1, CostMicros: 40_000 * MicrosPerCredit,
	},
	"unlock_boxtruck": {
		ID: "unlock_boxtruck", Name: "Buy Box Truck",
		Description: "Capacity: 50 pallets.",
		Level:       1, CostMicros: 100_000 * MicrosPerCredit,
	},
	"unlock_semitruck": {
		ID: "unlock_semitruck", Name: "Buy Semi-Truck",
		Description: "Capacity: 200 pallets.",
		Level:       1, CostMicros: 350_000 * MicrosPerCredit,
	},
}

func initialAchievements() map[string]Achievement {
	out := map[string]Achievement{}
	add := func(id, name, description string) {
		out[id] = Achievement{ID: id, Name: name, Description: description}
	}
	add("first_pallet", "Getting Started", "Ship your very first pallet.")
	add("first_contract", "First Big Deal", "Complete your first special contract.")
	add("team_builder", "Team Builder", "Hire a team of at least 5 workers.")
	add("power_surplus", "Power Surplus", "Expand your power capacity to over 50 MW.")
	add("logistics_expert", "Logistics Expert", "Own at least 3 different types of vehicles.")
	add("crisis_averted", "Crisis Averted", "Successfully resolve a worker strike by paying their demands.")
	add("master_researcher", "Master Researcher", "Complete 5 different research projects.")
	add("reputation_mogul", "Reputation Mogul", "Achieve a reputation score of 100.")
	add("billionaire", "Billionaire", "Accumulate a total of $1,000,000,000.")
	add("first_million", "Millionaire", "Earn your first $1,000,000.")
	add("ship_1000_pallets", "Bulk Shipper", "Ship 1,000 total pallets.")
	add("max_lines", "Full Capacity", fmt.Sprintf("Build all %d production lines.", MaxProductionLines))
	add("master_logistician", "Master Logistician", "Unlock the Semi-Truck.")
	add("expert_certified", "Expert Certified", "Reach the highest certification level (Level 5).")
	add("innovator", "Innovator", "Complete your first research project.")
	return out
}

func initialResearchProjects() map[string]ResearchProject {
	out := map[string]ResearchProject{}
	add := func(id, name, description string, cost int64, duration float64, unlock ResearchUnlock) {
		out[id] = ResearchProject{
			ID: id, Name: name, Description: description,
			CostMicros: cost * MicrosPerCredit, TimeToComplete: duration,
			Status: ResearchAvailable, Unlock: unlock,
		}
	}
	add("basic_automation", "Basic Automation",
		"Implement basic automation for a 5% factory-wide efficiency boost.",
		100_000, 120, ResearchUnlock{Type: UnlockGlobalEfficiency, Modifier: 0.05})
	add("improved_logistics", "Improved Logistics",
		"Unlock the Cargo Van for purchase.",
		25_000, 60, ResearchUnlock{Type: UnlockUpgrade, UpgradeID: "unlock_van"})
	add("advanced_logistics", "Advanced Logistics",
		"Develop advanced routing algorithms to unlock the Box Truck for purchase.",
		75_000, 180, ResearchUnlock{Type: UnlockUpgrade, UpgradeID: "unlock_boxtruck"})
	add("global_supply_chain", "Global Supply Chain",
		"Master global logistics to unlock the powerful Semi-Truck for purchase.",
		200_000, 300, ResearchUnlock{Type: UnlockUpgrade, UpgradeID: "unlock_semitruck"})
	add("advanced_automation", "Advanced Automation",
		"Further enhance automation for another 10% factory-wide efficiency boost.",
		500_000, 600, ResearchUnlock{Type: UnlockGlobalEfficiency, Modifier: 0.10})
	add("advanced_circuit_design", "Advanced Circuit Design",
		"Research multi-layer circuit boards and more efficient transistors, enabling production of high-performance electronics.",
		250_000, 400, ResearchUnlock{Type: UnlockTechnology, Technology: "Advanced_Circuits"})
	add("power_electronics", "Power Electronics",
		"Master high-voltage components for power supplies and inverters, opening up a new market for industrial-grade electronics.",
		400_000, 600, ResearchUnlock{Type: UnlockTechnology, Technology: "Power_Electronics"})
	add("photonics_integration", "Photonics Integration",
		"Integrate light-based components into your products, unlocking orders for fiber optic transceivers and laser diodes.",
		750_000, 800, ResearchUnlock{Type: UnlockTechnology, Technology: "Photonics"})
	return out
}

var workerNamePool = []string{
	"Charlie", "Dana", "Eli", "Frankie", "Gabi", "Harper",
	"Izzy", "Jordan", "Kai", "Leo", "Bob",
}
