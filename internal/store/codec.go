package store

import (
	"encoding/json"
	"fmt"

	"foundry/internal/game"
)

// EncodeState serializes a snapshot for persistence.
func EncodeState(s game.State) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeState merges a stored snapshot over a fresh initial state, so saves
// written before a field existed pick up its default. Container fields
// present in the snapshot replace the defaults wholesale: json.Unmarshal
// would otherwise merge map keys and recycle slice elements, resurrecting
// entries the player had already consumed.
func DecodeState(data []byte) (game.State, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return game.State{}, fmt.Errorf("scan snapshot: %w", err)
	}

	s := game.NewInitialState()
	resets := map[string]func(*game.State){
		"pallets":               func(s *game.State) { s.Pallets = nil },
		"raw_materials":         func(s *game.State) { s.RawMaterials = nil },
		"production_lines":      func(s *game.State) { s.Lines = nil },
		"available_orders":      func(s *game.State) { s.AvailableOrders = nil },
		"production_queue":      func(s *game.State) { s.ProductionQueue = nil },
		"active_orders":         func(s *game.State) { s.ActiveOrders = nil },
		"upgrades":              func(s *game.State) { s.Upgrades = nil },
		"workers":               func(s *game.State) { s.Workers = nil },
		"vehicles":              func(s *game.State) { s.Vehicles = nil },
		"active_shipments":      func(s *game.State) { s.Shipments = nil },
		"invoices":              func(s *game.State) { s.Invoices = nil },
		"achievements":          func(s *game.State) { s.Achievements = nil },
		"research":              func(s *game.State) { s.Research.Projects = nil },
		"unlocked_technologies": func(s *game.State) { s.UnlockedTechnologies = nil },
		"headlines":             func(s *game.State) { s.Headlines = nil },
	}
	for key, reset := range resets {
		if _, ok := keys[key]; ok {
			reset(&s)
		}
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return game.State{}, fmt.Errorf("decode snapshot: %w", err)
	}

	// Null containers in old saves come back nil; normalize them.
	if s.Pallets == nil {
		s.Pallets = map[string]game.StoredPallet{}
	}
	if s.RawMaterials == nil {
		s.RawMaterials = map[string]int{}
	}
	if s.Upgrades == nil {
		s.Upgrades = map[string]game.Upgrade{}
	}
	if s.Vehicles == nil {
		s.Vehicles = map[string]game.Vehicle{}
	}
	if s.Achievements == nil {
		s.Achievements = map[string]game.Achievement{}
	}
	if s.Research.Projects == nil {
		s.Research.Projects = map[string]game.ResearchProject{}
	}
	return s, nil
}
