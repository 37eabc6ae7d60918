package deck

import (
	"errors"
	rand "math/rand/v2"
)

// ErrShoeExhausted is returned by Draw when no cards remain. It must never
// reach a client; callers reshuffle at round boundaries before it can occur.
var ErrShoeExhausted = errors.New("shoe exhausted")

// Shoe is the multi-deck draw pile for one session. It owns every card that
// has not yet been dealt and maintains the Hi-Lo running count over the
// cards it has released.
type Shoe struct {
	cards        []Card
	rng          *rand.Rand
	deckCount    int
	penetration  int
	runningCount int
	drawn        int
}

// NewShoe builds a shuffled shoe of deckCount standard decks. penetration is
// the remaining-card threshold below which NeedsReshuffle reports true; the
// orchestrator acts on it at the next round boundary, never mid-hand.
func NewShoe(deckCount, penetration int, rng *rand.Rand) *Shoe {
	s := &Shoe{
		cards:       make([]Card, 0, deckCount*52),
		rng:         rng,
		deckCount:   deckCount,
		penetration: penetration,
	}
	s.load()
	return s
}

func (s *Shoe) load() {
	s.cards = s.cards[:0]
	for d := 0; d < s.deckCount; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				s.cards = append(s.cards, NewCard(rank, suit))
			}
		}
	}
	s.shuffle()
}

// shuffle performs a Fisher-Yates shuffle over the remaining cards.
func (s *Shoe) shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the top card, updating the running count.
func (s *Shoe) Draw() (Card, error) {
	if len(s.cards) == 0 {
		return Card{}, ErrShoeExhausted
	}
	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	s.runningCount += card.CountWeight()
	s.drawn++
	return card, nil
}

// Reshuffle reloads the shoe with a fresh set of decks and resets the
// running count. The count resets here and only here.
func (s *Shoe) Reshuffle() {
	s.load()
	s.runningCount = 0
	s.drawn = 0
}

// NeedsReshuffle reports whether the shoe has passed its penetration
// threshold.
func (s *Shoe) NeedsReshuffle() bool {
	return len(s.cards) < s.penetration
}

// Remaining returns the number of undealt cards.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// DeckCount returns the number of decks the shoe was loaded with.
func (s *Shoe) DeckCount() int {
	return s.deckCount
}

// RunningCount returns the Hi-Lo running count over all dealt cards.
func (s *Shoe) RunningCount() int {
	return s.runningCount
}

// TrueCount returns the running count normalised by estimated decks
// remaining. Below half a deck the running count is returned as-is to
// avoid division blow-up.
func (s *Shoe) TrueCount() float64 {
	decksRemaining := float64(len(s.cards)) / 52.0
	if decksRemaining < 0.5 {
		return float64(s.runningCount)
	}
	return float64(s.runningCount) / decksRemaining
}

// Composition returns a copy of the remaining cards. The Monte Carlo
// simulator snapshots the shoe through this; it must never hold a live
// reference into the session's shoe.
func (s *Shoe) Composition() []Card {
	out := make([]Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Stack places the given cards on top of the shoe in order, so that the
// first card in the slice is drawn first. Used by tests to rig deals.
func (s *Shoe) Stack(cards ...Card) {
	for i := len(cards) - 1; i >= 0; i-- {
		s.cards = append(s.cards, cards[i])
	}
}
