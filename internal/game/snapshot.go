package game

import "github.com/lox/twentyone/internal/deck"

// CardState is the wire representation of a card.
type CardState struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// HandState is the wire representation of a hand.
type HandState struct {
	Cards  []CardState `json:"cards"`
	Value  int         `json:"value"`
	Busted bool        `json:"busted"`
	Bet    int         `json:"bet"`
}

// PlayerState is the wire representation of a seat. Cards, value and busted
// mirror the hand currently in play so simple clients can ignore splits;
// Hands carries the full picture.
type PlayerState struct {
	Owner       string      `json:"owner"`
	Kind        string      `json:"kind"`
	PlayerID    string      `json:"player_id"`
	Balance     int         `json:"balance"`
	Bet         int         `json:"bet"`
	Cards       []CardState `json:"cards"`
	Value       int         `json:"value"`
	Busted      bool        `json:"busted"`
	Standing    bool        `json:"standing"`
	IsInsurance bool        `json:"is_insurance"`
	Withdrawn   bool        `json:"withdrawn"`
	Hands       []HandState `json:"hands"`
}

// Snapshot is the full observable game state broadcast after every
// successful mutation. It is immutable: every field is a copy, no deltas.
type Snapshot struct {
	WaitingForBets   bool               `json:"waiting_for_bets"`
	GameOver         bool               `json:"game_over"`
	Message          string             `json:"message"`
	Count            int                `json:"count"`
	CurrentPlayerIdx int                `json:"current_player_idx"`
	DealerHand       HandState          `json:"dealer_hand"`
	Players          []PlayerState      `json:"players"`
	Stats            Stats              `json:"stats"`
	DecisionHistory  []DecisionLogEntry `json:"decision_history"`
}

func cardState(c deck.Card) CardState {
	return CardState{Rank: c.Rank.String(), Suit: c.Suit.Name()}
}

func handState(h *Hand) HandState {
	if h == nil {
		return HandState{Cards: []CardState{}}
	}
	cards := make([]CardState, len(h.Cards))
	for i, c := range h.Cards {
		cards[i] = cardState(c)
	}
	return HandState{
		Cards:  cards,
		Value:  h.Value(),
		Busted: h.IsBusted(),
		Bet:    h.Bet,
	}
}

// dealerState hides the hole card while the round is still being played;
// clients only ever observe what a player at the table could see.
func dealerState(dealer *Hand, hideHole bool) HandState {
	if dealer == nil {
		return HandState{Cards: []CardState{}}
	}
	if !hideHole || len(dealer.Cards) < 2 {
		return handState(dealer)
	}
	visible := &Hand{Cards: dealer.Cards[:1]}
	return handState(visible)
}

func seatState(s *Seat) PlayerState {
	ps := PlayerState{
		Owner:       s.Name,
		Kind:        s.Kind.String(),
		PlayerID:    s.PlayerID,
		Balance:     s.Balance,
		Bet:         s.TotalBet(),
		Cards:       []CardState{},
		IsInsurance: s.Insurance > 0,
		Withdrawn:   s.Withdrawn,
		Hands:       make([]HandState, 0, len(s.Hands)),
	}
	for _, hand := range s.Hands {
		ps.Hands = append(ps.Hands, handState(hand))
	}

	display := s.CurrentHand()
	if display == nil && len(s.Hands) > 0 {
		display = s.Hands[0]
	}
	if display != nil {
		state := handState(display)
		ps.Cards = state.Cards
		ps.Value = state.Value
		ps.Busted = state.Busted
		ps.Standing = display.Standing
	}
	return ps
}
