package game

// Outcome represents the result of comparing a player hand to the dealer.
type Outcome int

const (
	PlayerWin Outcome = iota
	DealerWin
	Push
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case PlayerWin:
		return "Player Wins"
	case DealerWin:
		return "Dealer Wins"
	case Push:
		return "Push"
	default:
		return "Unknown"
	}
}

// DealerShouldHit implements the house drawing rule: hit while the best hand
// value is below 17, stand on all 17s including soft 17. The S17 variant is
// applied uniformly regardless of difficulty.
func DealerShouldHit(dealer *Hand) bool {
	return dealer.Value() < 17
}

// CompareHands resolves a non-busted, non-blackjack player hand against the
// completed dealer hand.
func CompareHands(playerValue, dealerValue int) Outcome {
	switch {
	case playerValue > 21:
		return DealerWin
	case dealerValue > 21:
		return PlayerWin
	case playerValue > dealerValue:
		return PlayerWin
	case dealerValue > playerValue:
		return DealerWin
	default:
		return Push
	}
}

// SettleHand returns the chips credited back to the seat for one hand. The
// bet was already deducted at bet time, so a loss credits nothing, a push
// credits the bet, a win credits double the bet, and a natural blackjack
// pays 3:2 on top of the returned bet. Split hands settle independently
// through repeated calls, each against the same dealer hand.
func SettleHand(hand *Hand, dealer *Hand) (credit int, outcome Outcome) {
	playerBJ := hand.IsBlackjack()
	dealerBJ := dealer.IsBlackjack()

	switch {
	case playerBJ && dealerBJ:
		return hand.Bet, Push
	case playerBJ:
		return hand.Bet + hand.Bet*3/2, PlayerWin
	case dealerBJ:
		return 0, DealerWin
	case hand.IsBusted():
		return 0, DealerWin
	}

	outcome = CompareHands(hand.Value(), dealer.Value())
	switch outcome {
	case PlayerWin:
		return hand.Bet * 2, PlayerWin
	case Push:
		return hand.Bet, Push
	default:
		return 0, DealerWin
	}
}

// SettleInsurance returns the chips credited for an insurance stake. The
// stake was deducted when taken; a dealer blackjack returns the stake plus a
// 2:1 payout, otherwise the stake is lost.
func SettleInsurance(stake int, dealerBlackjack bool) int {
	if stake == 0 {
		return 0
	}
	if dealerBlackjack {
		return stake * 3
	}
	return 0
}

// SurrenderRefund returns the chips credited back when a seat withdraws
// before its hand resolves: half the bet, rounded down.
func SurrenderRefund(bet int) int {
	return bet / 2
}
