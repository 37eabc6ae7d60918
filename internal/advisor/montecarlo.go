package advisor

import (
	rand "math/rand/v2"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/lox/twentyone/internal/deck"
	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/randutil"
)

// Simulator estimates hit and stand win rates by playing random completions
// of the remaining shoe composition. Playouts run fanned out across workers;
// every call derives fresh deterministic generators from the base seed so
// concurrent sessions never contend on shared randomness.
type Simulator struct {
	rounds  int
	workers int
	seed    int64
	calls   atomic.Int64
}

// NewSimulator creates a simulator running the given number of playouts per
// estimate.
func NewSimulator(rounds, workers int, seed int64) *Simulator {
	if rounds <= 0 {
		rounds = 1000
	}
	if workers <= 0 {
		workers = 4
	}
	return &Simulator{rounds: rounds, workers: workers, seed: seed}
}

// WinRates returns empirical win fractions for hitting exactly once then
// standing, and for standing now. A push scores half a win. The dealer's
// hole card is unknown at advisory time, so the dealer hand is completed
// from the sampled shoe starting from the upcard alone.
func (s *Simulator) WinRates(req game.AdviceRequest) (hitRate, standRate float64) {
	base := s.seed + s.calls.Add(1)<<16
	perWorker := (s.rounds + s.workers - 1) / s.workers

	hitScores := make([]float64, s.workers)
	standScores := make([]float64, s.workers)

	var g errgroup.Group
	for w := 0; w < s.workers; w++ {
		g.Go(func() error {
			rng := randutil.New(base + int64(w))
			for i := 0; i < perWorker; i++ {
				hitScores[w] += playout(req, rng, true)
				standScores[w] += playout(req, rng, false)
			}
			return nil
		})
	}
	_ = g.Wait() // workers never fail

	total := float64(perWorker * s.workers)
	for w := 0; w < s.workers; w++ {
		hitRate += hitScores[w]
		standRate += standScores[w]
	}
	return hitRate / total, standRate / total
}

// playout plays one random completion and scores it: 1 for a win, 0.5 for a
// push, 0 for a loss.
func playout(req game.AdviceRequest, rng *rand.Rand, hitFirst bool) float64 {
	shoe := newSimShoe(req.ShoeCards, rng)

	player := game.Hand{Cards: append([]deck.Card(nil), req.Cards...)}
	if hitFirst {
		player.Add(shoe.draw())
		if player.IsBusted() {
			return 0
		}
	}

	dealer := game.Hand{Cards: []deck.Card{req.Upcard}}
	for game.DealerShouldHit(&dealer) {
		dealer.Add(shoe.draw())
	}

	switch game.CompareHands(player.Value(), dealer.Value()) {
	case game.PlayerWin:
		return 1
	case game.Push:
		return 0.5
	default:
		return 0
	}
}

// simShoe samples without replacement from a private copy of the session
// shoe's composition.
type simShoe struct {
	cards []deck.Card
	rng   *rand.Rand
}

func newSimShoe(composition []deck.Card, rng *rand.Rand) *simShoe {
	cards := make([]deck.Card, len(composition), len(composition)+52)
	copy(cards, composition)
	s := &simShoe{cards: cards, rng: rng}
	// A nearly-empty composition cannot complete a playout.
	if len(s.cards) < 16 {
		s.refill()
	}
	return s
}

func (s *simShoe) refill() {
	for suit := deck.Spades; suit <= deck.Clubs; suit++ {
		for rank := deck.Two; rank <= deck.Ace; rank++ {
			s.cards = append(s.cards, deck.NewCard(rank, suit))
		}
	}
}

func (s *simShoe) draw() deck.Card {
	if len(s.cards) == 0 {
		s.refill()
	}
	i := s.rng.IntN(len(s.cards))
	last := len(s.cards) - 1
	s.cards[i], s.cards[last] = s.cards[last], s.cards[i]
	card := s.cards[last]
	s.cards = s.cards[:last]
	return card
}
