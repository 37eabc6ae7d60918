package server

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/randutil"
)

// SessionManager owns the single-player tables, one per session token. A
// session's table holds the human seat plus its AI seats; balance persists
// across rounds until the session starts over.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*game.Table
	advisor  game.Advisor
	logger   *log.Logger
	cfg      game.Config
	seed     int64
	created  int64
}

// NewSessionManager creates the manager with the table defaults applied to
// every new session.
func NewSessionManager(cfg game.Config, advisor game.Advisor, seed int64, logger *log.Logger) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*game.Table),
		advisor:  advisor,
		logger:   logger.WithPrefix("sessions"),
		cfg:      cfg,
		seed:     seed,
	}
}

// Start creates or replaces the token's table with one human seat and the
// requested AI seats. The human seat drives the round: its bet stakes the AI
// seats and deals.
func (m *SessionManager) Start(token string, numAI int, difficulty string) (*game.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfg := m.cfg
	cfg.SingleDriver = true
	cfg.HostGated = false
	cfg.Difficulty = game.ParseDifficulty(difficulty)

	m.created++
	table := game.NewTable(cfg, m.advisor, m.logger.With("session", short(token)), randutil.New(m.seed+m.created))
	if _, err := table.AddSeat("You", token, game.Human); err != nil {
		return nil, err
	}
	if err := table.AddAISeats(numAI); err != nil {
		return nil, err
	}

	m.sessions[token] = table
	m.logger.Info("session started", "session", short(token), "ai", numAI, "difficulty", cfg.Difficulty)
	return table, nil
}

// Get returns the token's table, if the session has started.
func (m *SessionManager) Get(token string) (*game.Table, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table, ok := m.sessions[token]
	return table, ok
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func short(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}
