package advisor

import (
	"testing"

	"github.com/lox/twentyone/internal/deck"
	"github.com/lox/twentyone/internal/game"
)

func freshDecks(n int) []deck.Card {
	cards := make([]deck.Card, 0, n*52)
	for d := 0; d < n; d++ {
		for suit := deck.Spades; suit <= deck.Clubs; suit++ {
			for rank := deck.Two; rank <= deck.Ace; rank++ {
				cards = append(cards, deck.NewCard(rank, suit))
			}
		}
	}
	return cards
}

func TestWinRatesPreferStandingOnTwenty(t *testing.T) {
	sim := NewSimulator(2000, 4, 7)
	r := game.AdviceRequest{
		Cards:     []deck.Card{c(deck.Ten), c2(deck.Queen)},
		Upcard:    deck.NewCard(deck.Six, deck.Diamonds),
		ShoeCards: freshDecks(2),
	}

	hit, stand := sim.WinRates(r)
	if stand <= hit {
		t.Errorf("standing on 20 must beat hitting: hit=%.3f stand=%.3f", hit, stand)
	}
	if hit < 0 || hit > 1 || stand < 0 || stand > 1 {
		t.Errorf("rates out of range: hit=%.3f stand=%.3f", hit, stand)
	}
	if stand < 0.6 {
		t.Errorf("20 vs 6 stand rate %.3f implausibly low", stand)
	}
}

func TestWinRatesPreferHittingLowTotals(t *testing.T) {
	sim := NewSimulator(2000, 4, 7)
	r := game.AdviceRequest{
		Cards:     []deck.Card{c(deck.Three), c2(deck.Four)},
		Upcard:    deck.NewCard(deck.Ten, deck.Diamonds),
		ShoeCards: freshDecks(2),
	}

	hit, stand := sim.WinRates(r)
	if hit <= stand {
		t.Errorf("hitting 7 must beat standing: hit=%.3f stand=%.3f", hit, stand)
	}
}

func TestWinRatesSurviveTinyComposition(t *testing.T) {
	sim := NewSimulator(200, 2, 7)
	r := game.AdviceRequest{
		Cards:     []deck.Card{c(deck.Ten), c2(deck.Six)},
		Upcard:    deck.NewCard(deck.Ten, deck.Diamonds),
		ShoeCards: []deck.Card{c(deck.Two)},
	}

	hit, stand := sim.WinRates(r)
	if hit < 0 || hit > 1 || stand < 0 || stand > 1 {
		t.Errorf("rates out of range: hit=%.3f stand=%.3f", hit, stand)
	}
}

func TestWinRatesLeaveRequestUntouched(t *testing.T) {
	sim := NewSimulator(200, 2, 7)
	shoe := freshDecks(1)
	r := game.AdviceRequest{
		Cards:     []deck.Card{c(deck.Ten), c2(deck.Six)},
		Upcard:    deck.NewCard(deck.Ten, deck.Diamonds),
		ShoeCards: shoe,
	}
	sim.WinRates(r)

	if len(r.Cards) != 2 {
		t.Errorf("player cards mutated: %v", r.Cards)
	}
	if len(shoe) != 52 {
		t.Errorf("shoe composition mutated: %d cards", len(shoe))
	}
}
