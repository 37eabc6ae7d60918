package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/twentyone/internal/game"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server  ServerSettings  `hcl:"server,block"`
	Game    GameSettings    `hcl:"game,block"`
	Advisor AdvisorSettings `hcl:"advisor,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// GameSettings contains the house rules applied to every table
type GameSettings struct {
	Decks              int    `hcl:"decks,optional"`
	Penetration        int    `hcl:"penetration,optional"`
	StartingBalance    int    `hcl:"starting_balance,optional"`
	MinBet             int    `hcl:"min_bet,optional"`
	MaxSeats           int    `hcl:"max_seats,optional"`
	Difficulty         string `hcl:"difficulty,optional"`
	TurnTimeoutSeconds int    `hcl:"turn_timeout_seconds,optional"`
}

// AdvisorSettings configures the advisory engine
type AdvisorSettings struct {
	Simulations int    `hcl:"simulations,optional"`
	Workers     int    `hcl:"workers,optional"`
	QTablePath  string `hcl:"q_table,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	defaults := game.DefaultConfig()
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Game: GameSettings{
			Decks:              defaults.Decks,
			Penetration:        defaults.Penetration,
			StartingBalance:    defaults.StartingBalance,
			MinBet:             defaults.MinBet,
			MaxSeats:           defaults.MaxSeats,
			Difficulty:         string(defaults.Difficulty),
			TurnTimeoutSeconds: 30,
		},
		Advisor: AdvisorSettings{
			Simulations: 1000,
			Workers:     4,
			QTablePath:  "q_table.json",
		},
	}
}

// LoadServerConfig loads server configuration from an HCL file. A missing
// file yields the defaults.
func LoadServerConfig(filename string) (*ServerConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(config *ServerConfig) {
	defaults := DefaultServerConfig()

	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}

	if config.Game.Decks == 0 {
		config.Game.Decks = defaults.Game.Decks
	}
	if config.Game.Penetration == 0 {
		config.Game.Penetration = defaults.Game.Penetration
	}
	if config.Game.StartingBalance == 0 {
		config.Game.StartingBalance = defaults.Game.StartingBalance
	}
	if config.Game.MinBet == 0 {
		config.Game.MinBet = defaults.Game.MinBet
	}
	if config.Game.MaxSeats == 0 {
		config.Game.MaxSeats = defaults.Game.MaxSeats
	}
	if config.Game.Difficulty == "" {
		config.Game.Difficulty = defaults.Game.Difficulty
	}
	if config.Game.TurnTimeoutSeconds == 0 {
		config.Game.TurnTimeoutSeconds = defaults.Game.TurnTimeoutSeconds
	}

	if config.Advisor.Simulations == 0 {
		config.Advisor.Simulations = defaults.Advisor.Simulations
	}
	if config.Advisor.Workers == 0 {
		config.Advisor.Workers = defaults.Advisor.Workers
	}
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Game.Decks < 1 || c.Game.Decks > 8 {
		return fmt.Errorf("decks must be between 1 and 8, got %d", c.Game.Decks)
	}
	if c.Game.Penetration < 0 || c.Game.Penetration >= c.Game.Decks*52 {
		return fmt.Errorf("penetration %d out of range for %d decks", c.Game.Penetration, c.Game.Decks)
	}
	if c.Game.MinBet <= 0 {
		return fmt.Errorf("min bet must be positive, got %d", c.Game.MinBet)
	}
	if c.Game.StartingBalance < c.Game.MinBet {
		return fmt.Errorf("starting balance %d cannot cover the minimum bet %d", c.Game.StartingBalance, c.Game.MinBet)
	}
	if c.Game.MaxSeats < 1 || c.Game.MaxSeats > 7 {
		return fmt.Errorf("max seats must be between 1 and 7, got %d", c.Game.MaxSeats)
	}
	switch c.Game.Difficulty {
	case string(game.Easy), string(game.Medium), string(game.Hard):
	default:
		return fmt.Errorf("invalid difficulty: %s", c.Game.Difficulty)
	}
	if c.Advisor.Simulations < 1 {
		return fmt.Errorf("simulations must be positive, got %d", c.Advisor.Simulations)
	}
	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TableConfig maps the game settings onto the engine's table configuration.
func (c *ServerConfig) TableConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.Decks = c.Game.Decks
	cfg.Penetration = c.Game.Penetration
	cfg.StartingBalance = c.Game.StartingBalance
	cfg.MinBet = c.Game.MinBet
	cfg.MaxSeats = c.Game.MaxSeats
	cfg.Difficulty = game.ParseDifficulty(c.Game.Difficulty)
	return cfg
}
