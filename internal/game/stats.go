package game

// Stats tracks per-session counters surfaced in every snapshot. A decision
// counts as correct when it matches the advisor's recommendation at the time
// it was made.
type Stats struct {
	RoundsPlayed           int `json:"rounds_played"`
	PlayerWins             int `json:"player_wins"`
	DealerWins             int `json:"dealer_wins"`
	Pushes                 int `json:"pushes"`
	AIDecisionsTotal       int `json:"ai_decisions_total"`
	AIDecisionsCorrect     int `json:"ai_decisions_correct"`
	PlayerDecisionsTotal   int `json:"player_decisions_total"`
	PlayerDecisionsCorrect int `json:"player_decisions_correct"`
}

func (s *Stats) recordOutcome(outcome Outcome) {
	switch outcome {
	case PlayerWin:
		s.PlayerWins++
	case DealerWin:
		s.DealerWins++
	case Push:
		s.Pushes++
	}
}

func (s *Stats) recordDecision(kind SeatKind, correct bool) {
	if kind == AI {
		s.AIDecisionsTotal++
		if correct {
			s.AIDecisionsCorrect++
		}
		return
	}
	s.PlayerDecisionsTotal++
	if correct {
		s.PlayerDecisionsCorrect++
	}
}
