// Package advisor implements the advisory engine: basic strategy, true-count
// index deviations, Monte Carlo win-rate estimation and learned action-value
// lookup, composed behind the game.Advisor interface.
//
// Every call is read-only against the request's snapshot; an Engine is safe
// to share across sessions.
package advisor

import (
	"github.com/charmbracelet/log"

	"github.com/lox/twentyone/internal/game"
)

// Options configure an Engine.
type Options struct {
	Simulations int    // playouts per win-rate estimate
	Workers     int    // Monte Carlo fan-out
	Seed        int64  // base seed for simulation randomness
	QTablePath  string // learned action-value file, "" or missing for none
}

// Engine composes the advisory layers. Difficulty on the request selects the
// path: EASY follows the Monte Carlo estimate, MEDIUM plays the basic
// strategy table, HARD layers index deviations and learned values over it.
type Engine struct {
	logger *log.Logger
	sim    *Simulator
	qtable *QTable
}

// NewEngine creates an engine, loading the learned table when configured.
func NewEngine(opts Options, logger *log.Logger) (*Engine, error) {
	qt, err := LoadQTable(opts.QTablePath)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		logger: logger.WithPrefix("advisor"),
		sim:    NewSimulator(opts.Simulations, opts.Workers, opts.Seed),
		qtable: qt,
	}
	if qt.Len() > 0 {
		e.logger.Info("loaded learned action values", "path", opts.QTablePath, "states", qt.Len())
	}
	return e, nil
}

// Recommend implements game.Advisor. The win rates are always the Monte
// Carlo estimate; only the recommended action varies with difficulty.
func (e *Engine) Recommend(req game.AdviceRequest) game.Advice {
	hitRate, standRate := e.sim.WinRates(req)
	advice := game.Advice{HitWinRate: hitRate, StandWinRate: standRate}

	switch req.Difficulty {
	case game.Easy:
		advice.Reason = game.ReasonMonteCarlo
		advice.Action = game.Stand
		if hitRate > standRate {
			advice.Action = game.Hit
		}
	case game.Medium:
		advice.Reason = game.ReasonBasicStrategy
		advice.Action = BasicStrategy(req)
	default:
		advice.Action, advice.Reason = e.hardAction(req)
	}
	return advice
}

func (e *Engine) hardAction(req game.AdviceRequest) (game.Action, game.ReasonTag) {
	if action, ok := DeviationAction(req); ok {
		return action, game.ReasonCardCounting
	}
	base := BasicStrategy(req)
	// The learned table only distinguishes hit from stand; richer plays
	// stay with basic strategy.
	if base == game.Hit || base == game.Stand {
		hand := game.Hand{Cards: req.Cards}
		key := StateKey{
			PlayerTotal: hand.Value(),
			Upcard:      req.Upcard.Value(),
			CountBucket: CountBucket(req.TrueCount),
		}
		if q, ok := e.qtable.Lookup(key); ok {
			return q.Optimal(), game.ReasonQLearning
		}
	}
	return base, game.ReasonBasicStrategy
}

// LookupLearnedValue exposes the raw learned values for the discretised
// state, used by the learned-value API endpoint.
func (e *Engine) LookupLearnedValue(playerTotal, upcard int, trueCount float64) (StateKey, QValues, bool) {
	key := StateKey{
		PlayerTotal: playerTotal,
		Upcard:      upcard,
		CountBucket: CountBucket(trueCount),
	}
	q, ok := e.qtable.Lookup(key)
	return key, q, ok
}
