package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lox/twentyone/internal/advisor"
	"github.com/lox/twentyone/internal/game"
)

const sessionCookie = "session_id"

// API serves the single-player REST surface. Sessions are identified by a
// generated cookie token; the token doubles as the seat identity on the
// session's table.
type API struct {
	sessions *SessionManager
	engine   *advisor.Engine
	logger   *log.Logger
}

// NewAPI creates the REST layer.
func NewAPI(sessions *SessionManager, engine *advisor.Engine, logger *log.Logger) *API {
	return &API{
		sessions: sessions,
		engine:   engine,
		logger:   logger.WithPrefix("api"),
	}
}

// Router builds the gin handler for the /api surface.
func (a *API) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/start", a.handleStart)
	api.POST("/bet", a.handleBet)
	api.POST("/hit", a.handleAction(game.Hit))
	api.POST("/stand", a.handleAction(game.Stand))
	api.POST("/double", a.handleAction(game.Double))
	api.POST("/split", a.handleAction(game.Split))
	api.POST("/insurance", a.handleAction(game.Insurance))
	api.POST("/withdraw", a.handleAction(game.Withdraw))
	api.POST("/refill", a.handleRefill)
	api.POST("/new-round", a.handleNewRound)
	api.GET("/probability", a.handleProbability)
	api.GET("/qvalues", a.handleQValues)

	return r
}

// token resolves the caller's session token, issuing a cookie on first
// contact.
func (a *API) token(c *gin.Context) string {
	if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
		return token
	}
	token := uuid.NewString()
	c.SetCookie(sessionCookie, token, 0, "/", "", false, true)
	return token
}

// table resolves the caller's started session, writing the error response
// itself when none exists.
func (a *API) table(c *gin.Context) (*game.Table, string, bool) {
	token := a.token(c)
	table, ok := a.sessions.Get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no game in progress, start one first"})
		return nil, token, false
	}
	return table, token, true
}

func (a *API) handleStart(c *gin.Context) {
	var req struct {
		NumAI      *int   `json:"num_ai"`
		Difficulty string `json:"difficulty"`
	}
	_ = c.ShouldBindJSON(&req)

	numAI := 2
	if req.NumAI != nil && *req.NumAI >= 0 && *req.NumAI <= 5 {
		numAI = *req.NumAI
	}

	token := a.token(c)
	table, err := a.sessions.Start(token, numAI, req.Difficulty)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, table.Snapshot())
}

func (a *API) handleBet(c *gin.Context) {
	var req struct {
		Amount int `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	table, token, ok := a.table(c)
	if !ok {
		return
	}
	if err := table.PlaceBetAs(token, req.Amount); err != nil {
		a.writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, table.Snapshot())
}

func (a *API) handleAction(action game.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		table, token, ok := a.table(c)
		if !ok {
			return
		}
		if err := table.ActAs(token, action); err != nil {
			a.writeGameError(c, err)
			return
		}
		c.JSON(http.StatusOK, table.Snapshot())
	}
}

func (a *API) handleRefill(c *gin.Context) {
	table, token, ok := a.table(c)
	if !ok {
		return
	}
	if err := table.RefillAs(token); err != nil {
		a.writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, table.Snapshot())
}

func (a *API) handleNewRound(c *gin.Context) {
	table, _, ok := a.table(c)
	if !ok {
		return
	}
	if err := table.StartRound(); err != nil {
		a.writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, table.Snapshot())
}

func (a *API) handleProbability(c *gin.Context) {
	table, _, ok := a.table(c)
	if !ok {
		return
	}

	advice, err := table.AdviceForTurn()
	if err != nil {
		// No hand in play; the client polls this between rounds.
		c.JSON(http.StatusOK, gin.H{"hit_win_rate": 0, "stand_win_rate": 0})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recommendation": advice.Action.String(),
		"hit_win_rate":   advice.HitWinRate,
		"stand_win_rate": advice.StandWinRate,
		"reason":         advice.Reason,
	})
}

func (a *API) handleQValues(c *gin.Context) {
	table, _, ok := a.table(c)
	if !ok {
		return
	}

	total, upcard, trueCount, err := table.StateForTurn()
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"q_stand": 0, "q_hit": 0, "state": nil})
		return
	}

	key, q, trained := a.engine.LookupLearnedValue(total, upcard, trueCount)
	c.JSON(http.StatusOK, gin.H{
		"q_stand":        q.Stand,
		"q_hit":          q.Hit,
		"state":          key.String(),
		"trained":        trained,
		"optimal_action": q.Optimal().String(),
	})
}

// writeGameError maps the engine's error taxonomy onto HTTP statuses.
func (a *API) writeGameError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, game.ErrUnauthorized), errors.Is(err, game.ErrNotYourTurn):
		status = http.StatusForbidden
	case errors.Is(err, game.ErrInsufficientBalance):
		status = http.StatusPaymentRequired
	case errors.Is(err, game.ErrRoomFull), errors.Is(err, game.ErrRoundInProgress):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
