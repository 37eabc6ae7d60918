package game

import (
	"fmt"

	"github.com/lox/twentyone/internal/deck"
)

// Difficulty selects the advisory path AI seats play with. It never changes
// dealer rules or payouts.
type Difficulty string

const (
	Easy   Difficulty = "EASY"
	Medium Difficulty = "MEDIUM"
	Hard   Difficulty = "HARD"
)

// ParseDifficulty normalises a client-supplied difficulty, defaulting to Hard.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s)
	default:
		return Hard
	}
}

// Action represents a player intent against the current hand.
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
	Insurance
	Withdraw
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Hit:
		return "Hit"
	case Stand:
		return "Stand"
	case Double:
		return "Double"
	case Split:
		return "Split"
	case Insurance:
		return "Insurance"
	case Withdraw:
		return "Withdraw"
	default:
		return "Unknown"
	}
}

// ParseAction maps a wire action name to an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "hit":
		return Hit, nil
	case "stand":
		return Stand, nil
	case "double":
		return Double, nil
	case "split":
		return Split, nil
	case "insurance":
		return Insurance, nil
	case "withdraw":
		return Withdraw, nil
	default:
		return 0, fmt.Errorf("%w: unknown action %q", ErrInvalidAction, s)
	}
}

// ReasonTag labels which advisory layer produced a recommendation.
type ReasonTag string

const (
	ReasonBasicStrategy ReasonTag = "BasicStrategy"
	ReasonCardCounting  ReasonTag = "CardCounting"
	ReasonMonteCarlo    ReasonTag = "MonteCarlo"
	ReasonQLearning     ReasonTag = "QLearning"
)

// AdviceRequest is a consistent snapshot of the state an advisory call
// reasons about. It carries copies; the advisor never holds a live reference
// into mutable session state.
type AdviceRequest struct {
	Cards      []deck.Card
	Upcard     deck.Card
	TrueCount  float64
	ShoeCards  []deck.Card // remaining shoe composition
	Difficulty Difficulty
	CanDouble  bool
	CanSplit   bool
}

// Advice is the advisory engine's recommendation for a hand.
type Advice struct {
	Action       Action
	HitWinRate   float64
	StandWinRate float64
	Reason       ReasonTag
}

// Advisor computes recommendations for the seat on turn. Implementations
// must be read-only with respect to game state and safe for concurrent use.
type Advisor interface {
	Recommend(req AdviceRequest) Advice
}
