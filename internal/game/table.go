package game

import (
	"fmt"
	rand "math/rand/v2"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/twentyone/internal/deck"
)

// Phase represents the table's position in the round cycle.
type Phase int

const (
	WaitingForBets Phase = iota
	Playing
	RoundOver
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case WaitingForBets:
		return "waiting_for_bets"
	case Playing:
		return "playing"
	case RoundOver:
		return "round_over"
	default:
		return "unknown"
	}
}

// Config holds per-table rules and sizing.
type Config struct {
	Decks           int
	Penetration     int // remaining-card threshold that schedules a reshuffle
	StartingBalance int
	MinBet          int
	MaxSeats        int
	DecisionLogSize int
	Difficulty      Difficulty
	// SingleDriver makes the human seat's bet trigger AI bets and the deal,
	// the single-player API flow. Multiplayer rooms deal once every seat
	// has bet.
	SingleDriver bool
	// HostGated restricts StartRoundAs to the seat 0 identity.
	HostGated bool
}

// DefaultConfig returns the house rules used when a table is created without
// explicit configuration.
func DefaultConfig() Config {
	return Config{
		Decks:           6,
		Penetration:     60,
		StartingBalance: 1000,
		MinBet:          10,
		MaxSeats:        6,
		DecisionLogSize: 50,
		Difficulty:      Hard,
	}
}

// Table is one authoritative game session: the state machine, turn
// orchestrator and payout resolver for a single shoe. All mutation is
// serialised through its mutex; snapshots are the only thing that escapes.
type Table struct {
	mu          sync.Mutex
	cfg         Config
	logger      *log.Logger
	rng         *rand.Rand
	shoe        *deck.Shoe
	seats       []*Seat
	dealer      *Hand
	phase       Phase
	turn        int
	roundsDealt int
	advisor     Advisor
	decisions   *DecisionLog
	stats       Stats
	message     string
}

// NewTable creates a table in WAITING_FOR_BETS with a freshly shuffled shoe.
func NewTable(cfg Config, advisor Advisor, logger *log.Logger, rng *rand.Rand) *Table {
	if cfg.Decks <= 0 {
		cfg = DefaultConfig()
	}
	return &Table{
		cfg:       cfg,
		logger:    logger.WithPrefix("table"),
		rng:       rng,
		shoe:      deck.NewShoe(cfg.Decks, cfg.Penetration, rng),
		phase:     WaitingForBets,
		turn:      -1,
		advisor:   advisor,
		decisions: NewDecisionLog(cfg.DecisionLogSize),
	}
}

// AddSeat appends a participant. Joins are only accepted before the room's
// first deal.
func (t *Table) AddSeat(name, playerID string, kind SeatKind) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.roundsDealt > 0 || t.phase != WaitingForBets {
		return 0, ErrRoundInProgress
	}
	if len(t.seats) >= t.cfg.MaxSeats {
		return 0, ErrRoomFull
	}
	seat := NewSeat(name, playerID, kind, t.cfg.StartingBalance)
	if kind == AI {
		seat.Difficulty = t.cfg.Difficulty
	}
	t.seats = append(t.seats, seat)
	t.logger.Debug("seat added", "name", name, "kind", kind, "idx", len(t.seats)-1)
	return len(t.seats) - 1, nil
}

// AddAISeats appends n computer seats.
func (t *Table) AddAISeats(n int) error {
	for i := 0; i < n; i++ {
		if _, err := t.AddSeat(fmt.Sprintf("AI-%d", i+1), "", AI); err != nil {
			return err
		}
	}
	return nil
}

// PlaceBet stakes a bet for the seat at idx. The bet is deducted
// immediately; all later settlement is a credit. When the deal condition is
// met the round is dealt and AI turns run to the next human decision point.
func (t *Table) PlaceBet(idx, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.placeBetLocked(idx, amount)
}

func (t *Table) placeBetLocked(idx, amount int) error {
	if t.phase != WaitingForBets {
		return fmt.Errorf("%w: bets are closed", ErrInvalidBet)
	}
	if idx < 0 || idx >= len(t.seats) {
		return ErrUnauthorized
	}
	seat := t.seats[idx]
	if seat.HasBet {
		return fmt.Errorf("%w: bet already placed", ErrInvalidBet)
	}
	if amount <= 0 || amount > seat.Balance {
		return fmt.Errorf("%w: amount %d with balance %d", ErrInvalidBet, amount, seat.Balance)
	}

	seat.Balance -= amount
	seat.Hands = []*Hand{NewHand(amount)}
	seat.HandIdx = 0
	seat.HasBet = true
	t.logger.Debug("bet placed", "seat", seat.Name, "amount", amount)

	if t.cfg.SingleDriver && seat.Kind == Human {
		t.autoBetAILocked()
	}
	// Auto-betting may already have dealt the round from a nested call.
	if t.phase == WaitingForBets && t.allSeatsBetLocked() {
		t.dealLocked()
	}
	return nil
}

func (t *Table) allSeatsBetLocked() bool {
	if len(t.seats) == 0 {
		return false
	}
	for _, seat := range t.seats {
		if !seat.HasBet && !seat.Withdrawn {
			return false
		}
	}
	return true
}

// autoBetAILocked places the minimum bet for every AI seat, topping the
// bankroll back up when an AI seat has gone broke so rooms never stall.
func (t *Table) autoBetAILocked() {
	for i, seat := range t.seats {
		if seat.Kind != AI || seat.HasBet {
			continue
		}
		if seat.Balance < t.cfg.MinBet {
			t.logger.Debug("refilling broke AI seat", "seat", seat.Name)
			seat.Balance = t.cfg.StartingBalance
		}
		if err := t.placeBetLocked(i, t.cfg.MinBet); err != nil {
			t.logger.Error("AI bet failed", "seat", seat.Name, "error", err)
		}
	}
}

// dealLocked deals two cards to every betting seat and two to the dealer,
// transitions to PLAYING and hands the turn to the first live seat. A
// penetration-scheduled reshuffle happens here, at the round boundary,
// never mid-hand.
func (t *Table) dealLocked() {
	if t.shoe.NeedsReshuffle() {
		t.logger.Info("reshuffling shoe", "remaining", t.shoe.Remaining())
		t.shoe.Reshuffle()
	}

	t.dealer = NewHand(0)
	for _, seat := range t.seats {
		if seat.HasBet {
			seat.CurrentHand().Add(t.drawLocked())
		}
	}
	t.dealer.Add(t.drawLocked()) // upcard
	for _, seat := range t.seats {
		if seat.HasBet {
			seat.CurrentHand().Add(t.drawLocked())
		}
	}
	t.dealer.Add(t.drawLocked()) // hole card

	t.phase = Playing
	t.roundsDealt++
	t.message = ""
	t.logger.Info("round dealt", "round", t.roundsDealt, "upcard", t.dealer.Cards[0], "count", t.shoe.RunningCount())

	t.turn = -1
	t.nextSeatLocked()
	t.runAITurnsLocked()
}

// drawLocked draws from the shoe. Exhaustion mid-hand means the penetration
// threshold was misconfigured; the shoe reshuffles rather than surfacing
// ErrShoeExhausted to a caller.
func (t *Table) drawLocked() deck.Card {
	card, err := t.shoe.Draw()
	if err != nil {
		t.logger.Warn("shoe exhausted mid-hand, reshuffling")
		t.shoe.Reshuffle()
		card, _ = t.shoe.Draw()
	}
	return card
}

// Act applies an action for the seat at idx. The seat must be on turn.
func (t *Table) Act(idx int, action Action) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.actLocked(idx, action)
}

func (t *Table) actLocked(idx int, action Action) error {
	if t.phase != Playing {
		return fmt.Errorf("%w: no round in progress", ErrInvalidAction)
	}
	if idx != t.turn {
		return ErrNotYourTurn
	}
	seat := t.seats[idx]
	hand := seat.CurrentHand()
	if hand == nil {
		return fmt.Errorf("%w: no hand in play", ErrInvalidAction)
	}

	if err := t.applyActionLocked(seat, hand, action); err != nil {
		return err
	}
	t.runAITurnsLocked()
	return nil
}

func (t *Table) applyActionLocked(seat *Seat, hand *Hand, action Action) error {
	switch action {
	case Hit:
		t.recordDecisionLocked(seat, hand, action)
		hand.Add(t.drawLocked())
		t.logger.Debug("hit", "seat", seat.Name, "value", hand.Value())
		t.advanceIfTerminalLocked(seat)

	case Stand:
		t.recordDecisionLocked(seat, hand, action)
		hand.Standing = true
		t.logger.Debug("stand", "seat", seat.Name, "value", hand.Value())
		t.advanceLocked(seat)

	case Double:
		if !hand.CanDouble() {
			return fmt.Errorf("%w: double only as first action on a two-card hand", ErrInvalidAction)
		}
		if seat.Balance < hand.Bet {
			return fmt.Errorf("%w: cannot cover doubled bet", ErrInsufficientBalance)
		}
		t.recordDecisionLocked(seat, hand, action)
		seat.Balance -= hand.Bet
		hand.Bet *= 2
		hand.Doubled = true
		hand.Add(t.drawLocked())
		hand.Standing = true
		t.logger.Debug("double", "seat", seat.Name, "value", hand.Value())
		t.advanceLocked(seat)

	case Split:
		if !hand.CanSplit() || len(seat.Hands) > 1 {
			return fmt.Errorf("%w: split requires an unsplit two-card pair", ErrInvalidAction)
		}
		if seat.Balance < hand.Bet {
			return fmt.Errorf("%w: cannot cover second bet", ErrInsufficientBalance)
		}
		t.recordDecisionLocked(seat, hand, action)
		seat.Balance -= hand.Bet
		second := NewHand(hand.Bet)
		second.FromSplit = true
		second.Add(hand.Cards[1])
		hand.Cards = hand.Cards[:1]
		hand.FromSplit = true
		hand.Add(t.drawLocked())
		second.Add(t.drawLocked())
		seat.Hands = append(seat.Hands, second)
		t.logger.Debug("split", "seat", seat.Name)
		t.advanceIfTerminalLocked(seat)

	case Insurance:
		if t.dealer == nil || len(t.dealer.Cards) == 0 || !t.dealer.Cards[0].IsAce() {
			return fmt.Errorf("%w: insurance requires a dealer Ace", ErrInvalidAction)
		}
		if len(hand.Cards) != 2 || seat.Insurance > 0 {
			return fmt.Errorf("%w: insurance unavailable", ErrInvalidAction)
		}
		stake := hand.Bet / 2
		if seat.Balance < stake {
			return fmt.Errorf("%w: cannot cover insurance stake", ErrInsufficientBalance)
		}
		seat.Balance -= stake
		seat.Insurance = stake
		t.logger.Debug("insurance", "seat", seat.Name, "stake", stake)
		// Insurance is a side bet; the turn stays with the seat.

	case Withdraw:
		for _, h := range seat.Hands {
			if !h.IsBusted() {
				seat.Balance += SurrenderRefund(h.Bet)
			}
		}
		seat.Withdrawn = true
		t.logger.Debug("withdraw", "seat", seat.Name)
		t.nextSeatLocked()

	default:
		return fmt.Errorf("%w: %s", ErrInvalidAction, action)
	}
	return nil
}

// recordDecisionLocked scores the action against the optimal recommendation
// and appends it to the decision history. The advisory call runs against a
// snapshot of the hand and shoe; it never sees live state.
func (t *Table) recordDecisionLocked(seat *Seat, hand *Hand, action Action) {
	if t.advisor == nil {
		return
	}
	optimal := t.advisor.Recommend(t.adviceRequestLocked(seat, hand, Hard))
	t.stats.recordDecision(seat.Kind, action == optimal.Action)
	t.decisions.Append(DecisionLogEntry{
		Player:  seat.Name,
		Action:  action.String(),
		Reason:  optimal.Reason,
		ProbHit: optimal.HitWinRate,
		Count:   t.shoe.RunningCount(),
	})
}

func (t *Table) adviceRequestLocked(seat *Seat, hand *Hand, difficulty Difficulty) AdviceRequest {
	cards := make([]deck.Card, len(hand.Cards))
	copy(cards, hand.Cards)
	return AdviceRequest{
		Cards:      cards,
		Upcard:     t.dealer.Cards[0],
		TrueCount:  t.shoe.TrueCount(),
		ShoeCards:  t.shoe.Composition(),
		Difficulty: difficulty,
		CanDouble:  hand.CanDouble() && seat.Balance >= hand.Bet,
		CanSplit:   hand.CanSplit() && len(seat.Hands) == 1 && seat.Balance >= hand.Bet,
	}
}

func (t *Table) advanceIfTerminalLocked(seat *Seat) {
	if hand := seat.CurrentHand(); hand != nil && hand.IsTerminal() {
		t.advanceLocked(seat)
	}
}

// advanceLocked moves play past the seat's finished hand: first through the
// seat's remaining split hands, then to the next live seat.
func (t *Table) advanceLocked(seat *Seat) {
	if seat.AdvanceHand() {
		return
	}
	t.nextSeatLocked()
}

// nextSeatLocked hands the turn to the next non-terminal seat, applying
// deferred withdrawals for disconnected seats on the way. When no live seat
// remains the round finishes.
func (t *Table) nextSeatLocked() {
	if t.phase != Playing {
		return
	}
	start := t.turn
	for idx := start + 1; idx < len(t.seats); idx++ {
		seat := t.seats[idx]
		if seat.Disconnected && !seat.Withdrawn && !seat.IsTerminal() {
			for _, h := range seat.Hands {
				if !h.IsBusted() {
					seat.Balance += SurrenderRefund(h.Bet)
				}
			}
			seat.Withdrawn = true
			t.logger.Info("disconnected seat withdrawn", "seat", seat.Name)
			continue
		}
		if !seat.IsTerminal() {
			t.turn = idx
			seat.HandIdx = 0
			if seat.Hands[0].IsTerminal() {
				seat.AdvanceHand()
			}
			return
		}
	}
	t.finishRoundLocked()
}

// runAITurnsLocked plays every consecutive AI turn to completion so that
// control always rests with a human seat (or the round ends).
func (t *Table) runAITurnsLocked() {
	for t.phase == Playing {
		seat := t.seats[t.turn]
		if seat.Kind != AI {
			return
		}
		hand := seat.CurrentHand()
		if hand == nil {
			t.advanceLocked(seat)
			continue
		}
		action := t.aiActionLocked(seat, hand)
		if err := t.applyActionLocked(seat, hand, action); err != nil {
			// The advisor proposed something inapplicable; stand to keep the
			// round moving.
			t.logger.Warn("AI action rejected, standing", "seat", seat.Name, "action", action, "error", err)
			hand.Standing = true
			t.advanceLocked(seat)
		}
	}
}

func (t *Table) aiActionLocked(seat *Seat, hand *Hand) Action {
	if t.advisor == nil {
		if hand.Value() < 17 {
			return Hit
		}
		return Stand
	}
	advice := t.advisor.Recommend(t.adviceRequestLocked(seat, hand, seat.Difficulty))
	return advice.Action
}

// finishRoundLocked reveals the hole card, plays the dealer per the fixed
// rule, settles every seat and transitions to ROUND_OVER.
func (t *Table) finishRoundLocked() {
	t.turn = -1
	t.phase = RoundOver
	t.stats.RoundsPlayed++

	for DealerShouldHit(t.dealer) {
		t.dealer.Add(t.drawLocked())
	}
	t.logger.Info("dealer finished", "value", t.dealer.Value(), "busted", t.dealer.IsBusted())

	var parts []string
	dealerBJ := t.dealer.IsBlackjack()
	for _, seat := range t.seats {
		if len(seat.Hands) == 0 {
			continue
		}
		seat.Balance += SettleInsurance(seat.Insurance, dealerBJ)
		if seat.Withdrawn {
			parts = append(parts, fmt.Sprintf("%s: Withdrew", seat.Name))
			continue
		}
		for _, hand := range seat.Hands {
			credit, outcome := SettleHand(hand, t.dealer)
			seat.Balance += credit
			t.stats.recordOutcome(outcome)
			parts = append(parts, fmt.Sprintf("%s: %s", seat.Name, outcome))
		}
	}
	t.message = strings.Join(parts, ", ")
	t.logger.Info("round settled", "message", t.message)
}

// StartRound resets hands for a new round and reopens betting. Valid from
// ROUND_OVER (or a never-dealt WAITING_FOR_BETS room, where it is a no-op).
func (t *Table) StartRound() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startRoundLocked()
}

func (t *Table) startRoundLocked() error {
	if t.phase == Playing {
		return fmt.Errorf("%w: round still in progress", ErrInvalidAction)
	}
	for _, seat := range t.seats {
		seat.ResetRound()
		if seat.Disconnected {
			seat.Withdrawn = true
		}
	}
	t.dealer = nil
	t.message = ""
	t.phase = WaitingForBets
	t.turn = -1
	if t.shoe.NeedsReshuffle() {
		t.logger.Info("reshuffling shoe", "remaining", t.shoe.Remaining())
		t.shoe.Reshuffle()
	}
	return nil
}

// ForfeitTurn auto-stands the seat at idx if it is on turn. Used when a
// remote seat times out.
func (t *Table) ForfeitTurn(idx int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.phase != Playing || t.turn != idx {
		return
	}
	seat := t.seats[idx]
	if hand := seat.CurrentHand(); hand != nil {
		hand.Standing = true
	}
	t.logger.Info("turn forfeited", "seat", seat.Name)
	t.advanceLocked(seat)
	t.runAITurnsLocked()
}

// MarkDisconnected flags the seat owned by playerID. Outside a live round
// the seat withdraws immediately; mid-round it is withdrawn at its next
// decision point so other seats' turns are never disrupted.
func (t *Table) MarkDisconnected(playerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for idx, seat := range t.seats {
		if seat.PlayerID != playerID {
			continue
		}
		seat.Disconnected = true
		if t.phase != Playing {
			seat.Withdrawn = true
			return
		}
		if t.turn == idx {
			for _, h := range seat.Hands {
				if !h.IsBusted() {
					seat.Balance += SurrenderRefund(h.Bet)
				}
			}
			seat.Withdrawn = true
			t.nextSeatLocked()
			t.runAITurnsLocked()
		}
		return
	}
}

// Snapshot returns the immutable observable state of the table.
func (t *Table) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Table) snapshotLocked() Snapshot {
	snap := Snapshot{
		WaitingForBets:   t.phase == WaitingForBets,
		GameOver:         t.phase == RoundOver,
		Message:          t.message,
		Count:            t.shoe.RunningCount(),
		CurrentPlayerIdx: t.turn,
		DealerHand:       dealerState(t.dealer, t.phase == Playing),
		Players:          make([]PlayerState, 0, len(t.seats)),
		Stats:            t.stats,
		DecisionHistory:  t.decisions.Entries(),
	}
	for _, seat := range t.seats {
		snap.Players = append(snap.Players, seatState(seat))
	}
	return snap
}
