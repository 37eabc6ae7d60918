package main

import (
	"fmt"
	"time"

	"github.com/lox/twentyone/cmd/twentyone/shared"
	"github.com/lox/twentyone/internal/advisor"
	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/randutil"
)

// SimulateCmd plays rounds offline with every seat following the advisor,
// reporting outcome rates and bankroll drift. Useful for sanity-checking
// strategy changes and Q-table files before deploying them.
type SimulateCmd struct {
	Rounds      int    `kong:"default='1000',help='Number of rounds to play'"`
	AISeats     int    `kong:"default='2',help='Computer seats alongside the driver'"`
	Difficulty  string `kong:"default='HARD',help='Advisory difficulty: EASY, MEDIUM or HARD'"`
	QTable      string `kong:"help='Path to a learned-value table (optional)'"`
	Simulations int    `kong:"default='200',help='Monte Carlo playouts per decision'"`
	Seed        int64  `kong:"default='0',help='RNG seed (0 for random)'"`
	Debug       bool   `kong:"help='Enable debug logging'"`
}

const driverID = "driver"

func (c *SimulateCmd) Run() error {
	logger := shared.SetupLogger(c.Debug, "warn")

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	engine, err := advisor.NewEngine(advisor.Options{
		Simulations: c.Simulations,
		Seed:        seed,
		QTablePath:  c.QTable,
	}, logger)
	if err != nil {
		return err
	}

	cfg := game.DefaultConfig()
	cfg.SingleDriver = true
	cfg.Difficulty = game.ParseDifficulty(c.Difficulty)

	table := game.NewTable(cfg, engine, logger, randutil.New(seed))
	if _, err := table.AddSeat("Driver", driverID, game.Human); err != nil {
		return err
	}
	if err := table.AddAISeats(c.AISeats); err != nil {
		return err
	}

	refills := 0
	start := time.Now()
	for i := 0; i < c.Rounds; i++ {
		if err := table.PlaceBetAs(driverID, cfg.MinBet); err != nil {
			if refillErr := table.RefillAs(driverID); refillErr != nil {
				return refillErr
			}
			refills++
			if err := table.PlaceBetAs(driverID, cfg.MinBet); err != nil {
				return fmt.Errorf("bet after refill: %w", err)
			}
		}

		// The driver plays the advisor's recommendation at every decision.
		for table.Phase() == game.Playing {
			advice, err := table.AdviceForTurn()
			if err != nil {
				break
			}
			if err := table.ActAs(driverID, advice.Action); err != nil {
				return fmt.Errorf("round %d: %s rejected: %w", i+1, advice.Action, err)
			}
		}

		if err := table.StartRound(); err != nil {
			return err
		}
	}
	elapsed := time.Since(start)

	snap := table.Snapshot()
	stats := snap.Stats
	resolved := stats.PlayerWins + stats.DealerWins + stats.Pushes

	fmt.Printf("Simulated %d rounds in %s (%.0f rounds/sec)\n",
		stats.RoundsPlayed, elapsed.Round(time.Millisecond), float64(stats.RoundsPlayed)/elapsed.Seconds())
	fmt.Printf("Difficulty: %s  seats: %d  seed: %d\n", cfg.Difficulty, c.AISeats+1, seed)
	fmt.Println()
	if resolved > 0 {
		fmt.Printf("Hands won:    %6d (%.1f%%)\n", stats.PlayerWins, pct(stats.PlayerWins, resolved))
		fmt.Printf("Hands lost:   %6d (%.1f%%)\n", stats.DealerWins, pct(stats.DealerWins, resolved))
		fmt.Printf("Pushes:       %6d (%.1f%%)\n", stats.Pushes, pct(stats.Pushes, resolved))
	}
	if stats.PlayerDecisionsTotal > 0 {
		fmt.Printf("Driver decisions matching advisor: %d/%d\n",
			stats.PlayerDecisionsCorrect, stats.PlayerDecisionsTotal)
	}

	driverBalance := 0
	for _, p := range snap.Players {
		if p.PlayerID == driverID {
			driverBalance = p.Balance
		}
	}
	fmt.Printf("Driver balance: %d chips (started with %d, %d refills)\n",
		driverBalance, cfg.StartingBalance, refills)

	return nil
}

func pct(n, total int) float64 {
	return 100 * float64(n) / float64(total)
}
