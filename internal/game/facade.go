package game

import "fmt"

// The identity-keyed methods below are the engine facade: external
// collaborators (the room manager, the HTTP API) speak in connection or
// session identities, which are resolved to seats and checked before any
// intent reaches the orchestrator. An intent from a non-owning identity
// never mutates state.

// seatIndexByPlayerID resolves an identity to its seat index.
func (t *Table) seatIndexByPlayerID(playerID string) (int, error) {
	for idx, seat := range t.seats {
		if seat.PlayerID == playerID && playerID != "" {
			return idx, nil
		}
	}
	return 0, fmt.Errorf("%w: no seat for identity", ErrUnauthorized)
}

// PlaceBetAs stakes a bet on behalf of the identity's seat.
func (t *Table) PlaceBetAs(playerID string, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx, err := t.seatIndexByPlayerID(playerID)
	if err != nil {
		return err
	}
	return t.placeBetLocked(idx, amount)
}

// ActAs applies an action on behalf of the identity's seat. An identity
// that owns no seat is rejected with ErrUnauthorized; an identity whose
// seat is not on turn is rejected with ErrNotYourTurn. Both rejections
// leave state unchanged.
func (t *Table) ActAs(playerID string, action Action) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx, err := t.seatIndexByPlayerID(playerID)
	if err != nil {
		return err
	}
	return t.actLocked(idx, action)
}

// StartRoundAs begins a new round on behalf of an identity. In host-gated
// tables only the seat 0 identity may trigger it. Every live seat is staked
// the table minimum and the round is dealt immediately.
func (t *Table) StartRoundAs(playerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.seatIndexByPlayerID(playerID); err != nil {
		return err
	}
	if t.cfg.HostGated && (len(t.seats) == 0 || t.seats[0].PlayerID != playerID) {
		return fmt.Errorf("%w: only the host starts a round", ErrUnauthorized)
	}
	if err := t.startRoundLocked(); err != nil {
		return err
	}
	t.autoBetAllLocked()
	return nil
}

// autoBetAllLocked stakes the table minimum for every seat, used by the
// multiplayer flow where rounds start without explicit bet intents. Broke
// AI seats are refilled; broke human seats sit the round out.
func (t *Table) autoBetAllLocked() {
	for i, seat := range t.seats {
		if seat.Withdrawn || seat.HasBet {
			continue
		}
		if seat.Balance < t.cfg.MinBet {
			if seat.Kind == AI {
				seat.Balance = t.cfg.StartingBalance
			} else {
				t.logger.Info("seat cannot cover minimum bet, sitting out", "seat", seat.Name)
				seat.Withdrawn = true
				continue
			}
		}
		if err := t.placeBetLocked(i, t.cfg.MinBet); err != nil {
			t.logger.Error("auto bet failed", "seat", seat.Name, "error", err)
		}
	}
}

// TurnOwner reports who is on turn: the seat index, its identity and kind.
// ok is false outside the PLAYING phase.
func (t *Table) TurnOwner() (idx int, playerID string, kind SeatKind, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != Playing || t.turn < 0 {
		return 0, "", Human, false
	}
	seat := t.seats[t.turn]
	return t.turn, seat.PlayerID, seat.Kind, true
}

// Phase returns the table's current phase.
func (t *Table) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.phase
}

// HostID returns the identity of seat 0, the designated host.
func (t *Table) HostID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.seats) == 0 {
		return ""
	}
	return t.seats[0].PlayerID
}

// ConnectedHumans counts seats held by live human identities.
func (t *Table) ConnectedHumans() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, seat := range t.seats {
		if seat.Kind != AI && !seat.Disconnected {
			n++
		}
	}
	return n
}

// AdviceForTurn computes a recommendation for the seat on turn. It is
// read-only: the request carries copies of the hand and shoe, so it may run
// concurrently with other sessions.
func (t *Table) AdviceForTurn() (Advice, error) {
	t.mu.Lock()
	if t.phase != Playing || t.turn < 0 || t.advisor == nil {
		t.mu.Unlock()
		return Advice{}, fmt.Errorf("%w: no hand to advise on", ErrInvalidAction)
	}
	seat := t.seats[t.turn]
	hand := seat.CurrentHand()
	if hand == nil {
		t.mu.Unlock()
		return Advice{}, fmt.Errorf("%w: no hand to advise on", ErrInvalidAction)
	}
	req := t.adviceRequestLocked(seat, hand, Hard)
	advisor := t.advisor
	t.mu.Unlock()

	// The advisory call runs outside the lock against its snapshot.
	return advisor.Recommend(req), nil
}

// StateForTurn returns the discretised state key inputs for the seat on
// turn, used by the learned-value endpoint.
func (t *Table) StateForTurn() (playerTotal int, upcard int, trueCount float64, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != Playing || t.turn < 0 {
		return 0, 0, 0, fmt.Errorf("%w: no hand in play", ErrInvalidAction)
	}
	seat := t.seats[t.turn]
	hand := seat.CurrentHand()
	if hand == nil {
		return 0, 0, 0, fmt.Errorf("%w: no hand in play", ErrInvalidAction)
	}
	return hand.Value(), t.dealer.Cards[0].Value(), t.shoe.TrueCount(), nil
}

// RefillAs resets the identity's balance to the starting bankroll.
func (t *Table) RefillAs(playerID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx, err := t.seatIndexByPlayerID(playerID)
	if err != nil {
		return err
	}
	t.seats[idx].Balance = t.cfg.StartingBalance
	return nil
}
