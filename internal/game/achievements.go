package game

// achievementChecks maps achievement ids to their completion predicates.
// Predicates are monotonic over normal play; once marked completed an
// achievement never reverts.
var achievementChecks = map[string]func(*State) bool{
	"first_million": func(s *State) bool { return s.MoneyMicros >= 1_000_000*MicrosPerCredit },
	"billionaire":   func(s *State) bool { return s.MoneyMicros >= 1_000_000_000*MicrosPerCredit },
	"first_pallet":  func(s *State) bool { return s.TotalPalletsShipped >= 1 },
	"ship_1000_pallets": func(s *State) bool {
		return s.TotalPalletsShipped >= 1000
	},
	"max_lines": func(s *State) bool { return len(s.Lines) >= MaxProductionLines },
	"master_logistician": func(s *State) bool {
		_, ok := s.Vehicles["semitruck"]
		return ok
	},
	"logistics_expert": func(s *State) bool { return len(s.Vehicles) >= 3 },
	"expert_certified": func(s *State) bool { return s.CertificationLevel >= MaxCertification },
	"innovator":        func(s *State) bool { return completedResearchCount(s) >= 1 },
	"master_researcher": func(s *State) bool {
		return completedResearchCount(s) >= 5
	},
	"first_contract":  func(s *State) bool { return s.TotalContractsCompleted >= 1 },
	"team_builder":    func(s *State) bool { return len(s.Workers) >= 5 },
	"power_surplus":   func(s *State) bool { return s.PowerCapacityMW >= 50 },
	"crisis_averted":  func(s *State) bool { return s.StrikesResolved >= 1 },
	"reputation_mogul": func(s *State) bool {
		return s.Reputation >= 100
	},
}

func completedResearchCount(s *State) int {
	n := 0
	for _, p := range s.Research.Projects {
		if p.Status == ResearchCompleted {
			n++
		}
	}
	return n
}

func evaluateAchievements(s *State) {
	for id, a := range s.Achievements {
		if a.Completed {
			continue
		}
		if check, ok := achievementChecks[id]; ok && check(s) {
			a.Completed = true
			s.Achievements[id] = a
		}
	}
}
