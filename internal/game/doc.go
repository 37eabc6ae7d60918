// Package game implements the authoritative blackjack engine: the round
// state machine, turn orchestration, payout settlement and session state.
//
// The main type is Table, which owns one session's shoe, seats, dealer hand
// and phase. All mutation is serialised through the table's mutex; the only
// thing that leaves the table is an immutable Snapshot.
//
// # Basic Usage
//
// Create a table, seat participants, and drive it with intents:
//
//	t := game.NewTable(game.DefaultConfig(), advisor, logger, rng)
//	t.AddSeat("Alice", sessionID, game.Human)
//	t.AddAISeats(2)
//	t.PlaceBetAs(sessionID, 50)
//	t.ActAs(sessionID, game.Hit)
//	snap := t.Snapshot()
//
// # Deterministic Testing
//
// Tables accept an injected *rand.Rand; tests build one from
// randutil.New(seed) and may rig the shoe with deck.Shoe.Stack to force
// exact deals.
//
// # Architecture
//
// Table delegates to specialized components:
//   - Hand: value computation, soft-ace tracking, split/double eligibility
//   - rules: dealer drawing rule and the settlement table
//   - deck.Shoe: multi-deck draw pile with Hi-Lo running count
//   - Advisor: read-only recommendations, consulted for AI turns and
//     decision scoring
//
// Sessions never share mutable state; concurrency across tables needs no
// coordination.
package game
