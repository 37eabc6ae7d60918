package advisor

import (
	"testing"

	"github.com/lox/twentyone/internal/deck"
	"github.com/lox/twentyone/internal/game"
)

func req(upcard deck.Rank, cards ...deck.Card) game.AdviceRequest {
	return game.AdviceRequest{
		Cards:     cards,
		Upcard:    deck.NewCard(upcard, deck.Diamonds),
		CanDouble: len(cards) == 2,
		CanSplit:  len(cards) == 2 && cards[0].Rank == cards[1].Rank,
	}
}

func c(rank deck.Rank) deck.Card {
	return deck.NewCard(rank, deck.Spades)
}

func c2(rank deck.Rank) deck.Card {
	return deck.NewCard(rank, deck.Hearts)
}

func TestBasicStrategyPairs(t *testing.T) {
	tests := []struct {
		name   string
		rank   deck.Rank
		upcard deck.Rank
		want   game.Action
	}{
		{"aces always split", deck.Ace, deck.Ten, game.Split},
		{"eights always split", deck.Eight, deck.Six, game.Split},
		{"eights split even against ten", deck.Eight, deck.Ten, game.Split},
		{"nines split against six", deck.Nine, deck.Six, game.Split},
		{"nines stand against seven", deck.Nine, deck.Seven, game.Stand},
		{"nines stand against ace", deck.Nine, deck.Ace, game.Stand},
		{"tens never split", deck.Ten, deck.Six, game.Stand},
		{"fives play as hard ten", deck.Five, deck.Six, game.Double},
		{"sevens split against seven", deck.Seven, deck.Seven, game.Split},
		{"sevens hit against eight", deck.Seven, deck.Eight, game.Hit},
		{"twos split against seven", deck.Two, deck.Seven, game.Split},
		{"twos hit against eight", deck.Two, deck.Eight, game.Hit},
		{"fours split against five", deck.Four, deck.Five, game.Split},
		{"fours hit against four", deck.Four, deck.Four, game.Hit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := req(tt.upcard, c(tt.rank), c2(tt.rank))
			if got := BasicStrategy(r); got != tt.want {
				t.Errorf("BasicStrategy(%s-%s vs %s) = %s, want %s", tt.rank, tt.rank, tt.upcard, got, tt.want)
			}
		})
	}
}

func TestBasicStrategySoftTotals(t *testing.T) {
	tests := []struct {
		name   string
		kicker deck.Rank
		upcard deck.Rank
		want   game.Action
	}{
		{"soft twenty stands", deck.Nine, deck.Six, game.Stand},
		{"soft nineteen stands", deck.Eight, deck.Six, game.Stand},
		{"soft eighteen doubles against small", deck.Seven, deck.Three, game.Double},
		{"soft eighteen stands against eight", deck.Seven, deck.Eight, game.Stand},
		{"soft eighteen hits against nine", deck.Seven, deck.Nine, game.Hit},
		{"soft eighteen hits against ace", deck.Seven, deck.Ace, game.Hit},
		{"soft seventeen doubles against four", deck.Six, deck.Four, game.Double},
		{"soft seventeen hits against two", deck.Six, deck.Two, game.Hit},
		{"soft sixteen doubles against five", deck.Five, deck.Five, game.Double},
		{"soft fourteen hits against three", deck.Three, deck.Three, game.Hit},
		{"soft thirteen doubles against six", deck.Two, deck.Six, game.Double},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := req(tt.upcard, c(deck.Ace), c2(tt.kicker))
			if got := BasicStrategy(r); got != tt.want {
				t.Errorf("BasicStrategy(A-%s vs %s) = %s, want %s", tt.kicker, tt.upcard, got, tt.want)
			}
		})
	}
}

func TestBasicStrategyHardTotals(t *testing.T) {
	tests := []struct {
		name   string
		cards  []deck.Card
		upcard deck.Rank
		want   game.Action
	}{
		{"seventeen stands", []deck.Card{c(deck.Ten), c2(deck.Seven)}, deck.Ace, game.Stand},
		{"sixteen stands against six", []deck.Card{c(deck.Ten), c2(deck.Six)}, deck.Six, game.Stand},
		{"sixteen hits against ten", []deck.Card{c(deck.Ten), c2(deck.Six)}, deck.Ten, game.Hit},
		{"thirteen stands against two", []deck.Card{c(deck.Ten), c2(deck.Three)}, deck.Two, game.Stand},
		{"twelve hits against three", []deck.Card{c(deck.Ten), c2(deck.Two)}, deck.Three, game.Hit},
		{"twelve stands against four", []deck.Card{c(deck.Ten), c2(deck.Two)}, deck.Four, game.Stand},
		{"eleven doubles", []deck.Card{c(deck.Six), c2(deck.Five)}, deck.Ten, game.Double},
		{"ten doubles against nine", []deck.Card{c(deck.Six), c2(deck.Four)}, deck.Nine, game.Double},
		{"ten hits against ten", []deck.Card{c(deck.Six), c2(deck.Four)}, deck.Ten, game.Hit},
		{"nine doubles against four", []deck.Card{c(deck.Five), c2(deck.Four)}, deck.Four, game.Double},
		{"nine hits against two", []deck.Card{c(deck.Five), c2(deck.Four)}, deck.Two, game.Hit},
		{"eight always hits", []deck.Card{c(deck.Five), c2(deck.Three)}, deck.Six, game.Hit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := req(tt.upcard, tt.cards...)
			if got := BasicStrategy(r); got != tt.want {
				t.Errorf("BasicStrategy(%v vs %s) = %s, want %s", tt.cards, tt.upcard, got, tt.want)
			}
		})
	}
}

func TestBasicStrategyDegradesWithoutDouble(t *testing.T) {
	// Eleven with three cards cannot double; it hits instead.
	r := req(deck.Ten, c(deck.Six), c2(deck.Three), c(deck.Two))
	r.CanDouble = false
	if got := BasicStrategy(r); got != game.Hit {
		t.Errorf("three-card eleven = %s, want Hit", got)
	}

	// Soft eighteen without double stands against small upcards.
	r = req(deck.Three, c(deck.Ace), c2(deck.Seven))
	r.CanDouble = false
	if got := BasicStrategy(r); got != game.Stand {
		t.Errorf("A-7 without double vs 3 = %s, want Stand", got)
	}
}

func TestBasicStrategySplitPairAfterSplitPlaysAsTotal(t *testing.T) {
	// A re-paired split hand cannot split again; 8-8 plays as hard 16.
	r := req(deck.Ten, c(deck.Eight), c2(deck.Eight))
	r.CanSplit = false
	if got := BasicStrategy(r); got != game.Hit {
		t.Errorf("unsplittable 8-8 vs 10 = %s, want Hit", got)
	}
}
