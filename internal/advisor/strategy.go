package advisor

import (
	"github.com/lox/twentyone/internal/deck"
	"github.com/lox/twentyone/internal/game"
)

// BasicStrategy returns the statistically optimal action for the hand under
// the infinite-deck assumption and the house rules (dealer stands on all
// 17s). Pairs are consulted first, then soft totals, then hard totals. When
// the table calls for a double or split the request can no longer afford,
// the action degrades to the best remaining play.
func BasicStrategy(req game.AdviceRequest) game.Action {
	hand := game.Hand{Cards: req.Cards}
	up := req.Upcard.Value()

	if req.CanSplit && len(req.Cards) == 2 && req.Cards[0].Rank == req.Cards[1].Rank {
		if action, ok := pairAction(req.Cards[0], up); ok {
			return action
		}
	}
	if hand.IsSoft() {
		return softAction(hand.Value(), up, req.CanDouble)
	}
	return hardAction(hand.Value(), up, req.CanDouble)
}

// pairAction resolves splittable pairs. Tens and fives report !ok: they play
// as their hard total.
func pairAction(c deck.Card, up int) (game.Action, bool) {
	switch c.Rank {
	case deck.Ace, deck.Eight:
		return game.Split, true
	case deck.Nine:
		if up == 7 || up >= 10 {
			return game.Stand, true
		}
		return game.Split, true
	case deck.Seven:
		if up <= 7 {
			return game.Split, true
		}
		return game.Hit, true
	case deck.Six:
		if up <= 6 {
			return game.Split, true
		}
		return game.Hit, true
	case deck.Four:
		if up == 5 || up == 6 {
			return game.Split, true
		}
		return game.Hit, true
	case deck.Two, deck.Three:
		if up <= 7 {
			return game.Split, true
		}
		return game.Hit, true
	}
	return 0, false
}

func softAction(total, up int, canDouble bool) game.Action {
	switch {
	case total >= 19:
		return game.Stand
	case total == 18:
		if up <= 6 {
			if canDouble {
				return game.Double
			}
			return game.Stand
		}
		if up <= 8 {
			return game.Stand
		}
		return game.Hit
	case total == 17:
		if up >= 3 && up <= 6 && canDouble {
			return game.Double
		}
		return game.Hit
	case total >= 15:
		if up >= 4 && up <= 6 && canDouble {
			return game.Double
		}
		return game.Hit
	default:
		if (up == 5 || up == 6) && canDouble {
			return game.Double
		}
		return game.Hit
	}
}

func hardAction(total, up int, canDouble bool) game.Action {
	switch {
	case total >= 17:
		return game.Stand
	case total >= 13:
		if up <= 6 {
			return game.Stand
		}
		return game.Hit
	case total == 12:
		if up >= 4 && up <= 6 {
			return game.Stand
		}
		return game.Hit
	case total == 11:
		if canDouble {
			return game.Double
		}
		return game.Hit
	case total == 10:
		if up <= 9 && canDouble {
			return game.Double
		}
		return game.Hit
	case total == 9:
		if up >= 3 && up <= 6 && canDouble {
			return game.Double
		}
		return game.Hit
	default:
		return game.Hit
	}
}
