package deck

import (
	"testing"

	"github.com/lox/twentyone/internal/randutil"
)

func TestShoeContainsFullDecks(t *testing.T) {
	for _, decks := range []int{1, 2, 6} {
		shoe := NewShoe(decks, 20, randutil.New(1))
		if got, want := shoe.Remaining(), decks*52; got != want {
			t.Errorf("decks=%d: expected %d cards, got %d", decks, want, got)
		}

		// Every identity appears exactly decks times.
		seen := make(map[Card]int)
		for shoe.Remaining() > 0 {
			card, err := shoe.Draw()
			if err != nil {
				t.Fatalf("unexpected draw error: %v", err)
			}
			seen[card]++
		}
		if len(seen) != 52 {
			t.Errorf("decks=%d: expected 52 distinct cards, got %d", decks, len(seen))
		}
		for card, n := range seen {
			if n != decks {
				t.Errorf("decks=%d: card %s appeared %d times", decks, card, n)
			}
		}
	}
}

func TestShoeDrawReducesRemaining(t *testing.T) {
	shoe := NewShoe(6, 60, randutil.New(42))
	total := shoe.Remaining()
	for i := 1; i <= 20; i++ {
		if _, err := shoe.Draw(); err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if got := shoe.Remaining(); got != total-i {
			t.Fatalf("after %d draws expected %d remaining, got %d", i, total-i, got)
		}
	}
}

func TestShoeExhausted(t *testing.T) {
	shoe := NewShoe(1, 0, randutil.New(7))
	for shoe.Remaining() > 0 {
		if _, err := shoe.Draw(); err != nil {
			t.Fatalf("unexpected error mid-shoe: %v", err)
		}
	}
	if _, err := shoe.Draw(); err != ErrShoeExhausted {
		t.Errorf("expected ErrShoeExhausted, got %v", err)
	}
}

func TestRunningCountMatchesHiLoSum(t *testing.T) {
	shoe := NewShoe(1, 0, randutil.New(99))
	sum := 0
	for shoe.Remaining() > 0 {
		card, err := shoe.Draw()
		if err != nil {
			t.Fatal(err)
		}
		sum += card.CountWeight()
	}
	if shoe.RunningCount() != sum {
		t.Errorf("running count %d != Hi-Lo sum %d", shoe.RunningCount(), sum)
	}
	// A full single deck is count-balanced.
	if sum != 0 {
		t.Errorf("full deck Hi-Lo sum should be 0, got %d", sum)
	}
}

func TestReshuffleResetsCount(t *testing.T) {
	shoe := NewShoe(2, 80, randutil.New(3))
	for i := 0; i < 30; i++ {
		if _, err := shoe.Draw(); err != nil {
			t.Fatal(err)
		}
	}
	if !shoe.NeedsReshuffle() {
		t.Fatal("expected shoe below penetration threshold")
	}
	shoe.Reshuffle()
	if shoe.RunningCount() != 0 {
		t.Errorf("expected count reset to 0, got %d", shoe.RunningCount())
	}
	if shoe.Remaining() != 104 {
		t.Errorf("expected full reload of 104 cards, got %d", shoe.Remaining())
	}
}

func TestStackRigsDrawOrder(t *testing.T) {
	shoe := NewShoe(1, 0, randutil.New(5))
	shoe.Stack(NewCard(Ace, Spades), NewCard(King, Hearts))

	first, _ := shoe.Draw()
	second, _ := shoe.Draw()
	if first != NewCard(Ace, Spades) || second != NewCard(King, Hearts) {
		t.Errorf("stacked cards drawn out of order: %s, %s", first, second)
	}
}

func TestCountWeights(t *testing.T) {
	cases := []struct {
		rank   Rank
		weight int
	}{
		{Two, 1}, {Three, 1}, {Four, 1}, {Five, 1}, {Six, 1},
		{Seven, 0}, {Eight, 0}, {Nine, 0},
		{Ten, -1}, {Jack, -1}, {Queen, -1}, {King, -1}, {Ace, -1},
	}
	for _, tc := range cases {
		card := NewCard(tc.rank, Clubs)
		if got := card.CountWeight(); got != tc.weight {
			t.Errorf("%s: expected weight %d, got %d", card, tc.weight, got)
		}
	}
}

func TestCardValues(t *testing.T) {
	if got := NewCard(Ace, Spades).Value(); got != 11 {
		t.Errorf("ace value = %d, want 11", got)
	}
	for _, r := range []Rank{Ten, Jack, Queen, King} {
		if got := NewCard(r, Hearts).Value(); got != 10 {
			t.Errorf("%s value = %d, want 10", r, got)
		}
	}
	if got := NewCard(Seven, Diamonds).Value(); got != 7 {
		t.Errorf("seven value = %d, want 7", got)
	}
}
