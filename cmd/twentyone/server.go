package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/twentyone/cmd/twentyone/shared"
	"github.com/lox/twentyone/internal/advisor"
	"github.com/lox/twentyone/internal/server"
)

// ServerCmd runs the game server: WebSocket rooms plus the REST API.
type ServerCmd struct {
	Config string `kong:"default='twentyone.hcl',help='Path to HCL config file'"`
	Addr   string `kong:"help='Listen address, overrides the config file'"`
	Debug  bool   `kong:"help='Enable debug logging'"`
	Seed   *int64 `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := shared.SetupLogger(c.Debug, cfg.Server.LogLevel)

	var seed int64
	if c.Seed != nil {
		seed = *c.Seed
		logger.Info("Using deterministic seed", "seed", seed)
	} else {
		seed = time.Now().UnixNano()
	}

	engine, err := advisor.NewEngine(advisor.Options{
		Simulations: cfg.Advisor.Simulations,
		Workers:     cfg.Advisor.Workers,
		Seed:        seed,
		QTablePath:  cfg.Advisor.QTablePath,
	}, logger)
	if err != nil {
		return err
	}

	tableCfg := cfg.TableConfig()
	turnTimeout := time.Duration(cfg.Game.TurnTimeoutSeconds) * time.Second

	sessions := server.NewSessionManager(tableCfg, engine, seed, logger)
	rooms := server.NewRoomService(tableCfg, engine, turnTimeout, seed, quartz.NewReal(), logger)
	api := server.NewAPI(sessions, engine, logger)

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}
	s := server.NewServer(addr, rooms, api.Router(), logger)

	logger.Info("Starting twentyone server",
		"addr", addr,
		"decks", cfg.Game.Decks,
		"min_bet", cfg.Game.MinBet,
		"starting_balance", cfg.Game.StartingBalance,
		"difficulty", cfg.Game.Difficulty,
		"turn_timeout", turnTimeout,
		"simulations", cfg.Advisor.Simulations,
	)

	ctx := shared.SetupSignalHandler(logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server")
		return s.Stop()
	case err := <-serverErr:
		return err
	}
}
