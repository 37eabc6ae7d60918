package game

import "errors"

// Validation failures leave the session state untouched and are returned to
// the caller; none of them is fatal to the process.
var (
	// ErrInvalidBet indicates a bet amount out of range for the seat.
	ErrInvalidBet = errors.New("invalid bet")

	// ErrInsufficientBalance indicates the seat cannot cover the required stake.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrNotYourTurn indicates an action from a seat that is not on turn.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrUnauthorized indicates an intent whose identity does not match the
	// seat it targets. It is rejected before reaching the orchestrator.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidAction indicates an action that is not legal for the current
	// phase or hand shape (e.g. Double on a three-card hand).
	ErrInvalidAction = errors.New("invalid action")

	// ErrRoomFull indicates a join against a room with no free seats.
	ErrRoomFull = errors.New("room full")

	// ErrRoundInProgress indicates a join or start against a round that has
	// already been dealt.
	ErrRoundInProgress = errors.New("round in progress")
)
