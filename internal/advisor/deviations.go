package advisor

import "github.com/lox/twentyone/internal/game"

// deviation is one index play: once the true count reaches the threshold,
// the keyed (hard total, upcard) state overrides basic strategy.
type deviation struct {
	threshold float64
	action    game.Action
}

// indexPlays holds the high-value subset of the standard index plays. Keys
// are (hard player total, dealer upcard value).
var indexPlays = map[[2]int]deviation{
	{16, 10}: {threshold: 0, action: game.Stand},
	{15, 10}: {threshold: 4, action: game.Stand},
	{12, 3}:  {threshold: 2, action: game.Stand},
	{12, 2}:  {threshold: 3, action: game.Stand},
	{10, 10}: {threshold: 4, action: game.Double},
	{10, 11}: {threshold: 4, action: game.Double},
	{11, 11}: {threshold: 1, action: game.Double},
	{9, 2}:   {threshold: 1, action: game.Double},
	{9, 7}:   {threshold: 3, action: game.Double},
}

// DeviationAction reports whether the true count triggers an index play for
// the request's state. Soft hands never deviate, and a double the seat
// cannot afford does not fire.
func DeviationAction(req game.AdviceRequest) (game.Action, bool) {
	hand := game.Hand{Cards: req.Cards}
	if hand.IsSoft() {
		return 0, false
	}
	dev, ok := indexPlays[[2]int{hand.Value(), req.Upcard.Value()}]
	if !ok || req.TrueCount < dev.threshold {
		return 0, false
	}
	if dev.action == game.Double && !req.CanDouble {
		return 0, false
	}
	return dev.action, true
}
