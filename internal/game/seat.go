package game

import "fmt"

// SeatKind tags how a seat is controlled. It is resolved once at creation;
// nothing in the engine infers it from names.
type SeatKind int

const (
	// Human is the local human seat driving a single-player session.
	Human SeatKind = iota
	// AI is a computer-controlled seat played by the advisory engine.
	AI
	// RemoteHuman is a seat driven by a remote connection in a multiplayer room.
	RemoteHuman
)

// String returns the string representation of a seat kind
func (k SeatKind) String() string {
	switch k {
	case Human:
		return "Human"
	case AI:
		return "AI"
	case RemoteHuman:
		return "RemoteHuman"
	default:
		return "Unknown"
	}
}

// Seat represents one participant slot at the table. Balance persists across
// rounds within a session; hands reset each round.
type Seat struct {
	Name       string
	PlayerID   string // connection or session identity that owns the seat
	Kind       SeatKind
	Difficulty Difficulty // advisory path for AI seats
	Balance    int
	Hands      []*Hand
	HandIdx    int // split hand currently being played
	Insurance    int // insurance stake, 0 when not taken
	Withdrawn    bool
	Disconnected bool
	HasBet       bool
}

// NewSeat creates a seat with the given starting balance.
func NewSeat(name, playerID string, kind SeatKind, balance int) *Seat {
	return &Seat{
		Name:     name,
		PlayerID: playerID,
		Kind:     kind,
		Balance:  balance,
	}
}

// CurrentHand returns the hand the seat is currently playing, or nil when
// the seat has no live hand.
func (s *Seat) CurrentHand() *Hand {
	if s.HandIdx < 0 || s.HandIdx >= len(s.Hands) {
		return nil
	}
	return s.Hands[s.HandIdx]
}

// AdvanceHand moves to the seat's next split hand. It returns false when no
// further hand remains to play.
func (s *Seat) AdvanceHand() bool {
	for s.HandIdx+1 < len(s.Hands) {
		s.HandIdx++
		if !s.Hands[s.HandIdx].IsTerminal() {
			return true
		}
	}
	s.HandIdx = len(s.Hands)
	return false
}

// IsTerminal reports whether the seat takes no further actions this round:
// withdrawn, no hands, or every hand finished.
func (s *Seat) IsTerminal() bool {
	if s.Withdrawn || len(s.Hands) == 0 {
		return true
	}
	for _, hand := range s.Hands {
		if !hand.IsTerminal() {
			return false
		}
	}
	return true
}

// TotalBet returns the sum of bets across the seat's hands.
func (s *Seat) TotalBet() int {
	total := 0
	for _, hand := range s.Hands {
		total += hand.Bet
	}
	return total
}

// ResetRound clears per-round state ahead of a new deal. Balance and
// identity are preserved.
func (s *Seat) ResetRound() {
	s.Hands = nil
	s.HandIdx = 0
	s.Insurance = 0
	s.Withdrawn = false
	s.HasBet = false
}

func (s *Seat) String() string {
	return fmt.Sprintf("%s(%s)", s.Name, s.Kind)
}
