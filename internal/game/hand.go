package game

import "github.com/lox/twentyone/internal/deck"

// Hand represents one seat's (or the dealer's) cards for a round. Derived
// properties are always recomputed from the cards, never cached.
type Hand struct {
	Cards     []deck.Card
	Bet       int
	Standing  bool
	Doubled   bool
	FromSplit bool
}

// NewHand creates an empty hand carrying the given bet.
func NewHand(bet int) *Hand {
	return &Hand{Bet: bet}
}

// Add appends a card to the hand.
func (h *Hand) Add(card deck.Card) {
	h.Cards = append(h.Cards, card)
}

// Value returns the best blackjack value of the hand. Aces count 11, demoted
// to 1 one at a time while the total exceeds 21.
func (h *Hand) Value() int {
	value, _ := h.valueAndSoft()
	return value
}

// IsSoft reports whether the hand contains an Ace still counted as 11.
func (h *Hand) IsSoft() bool {
	_, soft := h.valueAndSoft()
	return soft
}

func (h *Hand) valueAndSoft() (int, bool) {
	value := 0
	aces := 0
	for _, card := range h.Cards {
		value += card.Value()
		if card.IsAce() {
			aces++
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value, aces > 0
}

// IsBusted reports whether the hand value exceeds 21.
func (h *Hand) IsBusted() bool {
	return h.Value() > 21
}

// IsBlackjack reports whether the hand is a natural: exactly two cards
// totalling 21 on the initial deal. Split hands never qualify.
func (h *Hand) IsBlackjack() bool {
	return len(h.Cards) == 2 && !h.FromSplit && h.Value() == 21
}

// CanSplit reports whether the hand is a splittable pair: exactly two cards
// of equal rank.
func (h *Hand) CanSplit() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

// CanDouble reports whether doubling is still available: the first action on
// a two-card hand.
func (h *Hand) CanDouble() bool {
	return len(h.Cards) == 2 && !h.Doubled
}

// IsTerminal reports whether the hand takes no further actions this round.
func (h *Hand) IsTerminal() bool {
	return h.Standing || h.Value() >= 21
}
