package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/twentyone/internal/advisor"
	"github.com/lox/twentyone/internal/game"
)

// apiClient drives the REST surface like a browser would, carrying the
// session cookie between calls.
type apiClient struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func newAPIClient(t *testing.T) (*apiClient, *SessionManager) {
	t.Helper()
	logger := log.New(io.Discard)

	engine, err := advisor.NewEngine(advisor.Options{Simulations: 50, Workers: 2, Seed: 1}, logger)
	require.NoError(t, err)

	sessions := NewSessionManager(game.DefaultConfig(), engine, 42, logger)
	api := NewAPI(sessions, engine, logger)
	return &apiClient{t: t, router: api.Router()}, sessions
}

func (c *apiClient) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return w
}

func (c *apiClient) snapshot(w *httptest.ResponseRecorder) game.Snapshot {
	c.t.Helper()
	var snap game.Snapshot
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &snap))
	return snap
}

// dealRound bets the minimum, retrying through rounds that resolve on a
// natural, until a hand is live. Returns the snapshot mid-round.
func (c *apiClient) dealRound(t *testing.T) game.Snapshot {
	t.Helper()
	for i := 0; i < 10; i++ {
		w := c.do(http.MethodPost, "/api/bet", gin.H{"amount": 10})
		require.Equal(t, http.StatusOK, w.Code)
		snap := c.snapshot(w)
		if !snap.GameOver {
			return snap
		}
		w = c.do(http.MethodPost, "/api/new-round", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	t.Fatal("no playable round after 10 deals")
	return game.Snapshot{}
}

func TestStartCreatesSession(t *testing.T) {
	client, sessions := newAPIClient(t)

	w := client.do(http.MethodPost, "/api/start", gin.H{"num_ai": 2})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, client.cookie, "start should issue a session cookie")

	snap := client.snapshot(w)
	require.Len(t, snap.Players, 3)
	assert.Equal(t, "You", snap.Players[0].Owner)
	assert.True(t, snap.WaitingForBets)
	assert.Equal(t, 1, sessions.Len())
}

func TestStartDefaultsToTwoAISeats(t *testing.T) {
	client, _ := newAPIClient(t)

	w := client.do(http.MethodPost, "/api/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, client.snapshot(w).Players, 3)
}

func TestActionsRequireStartedSession(t *testing.T) {
	client, _ := newAPIClient(t)

	for _, path := range []string{"/api/hit", "/api/stand", "/api/bet", "/api/new-round"} {
		w := client.do(http.MethodPost, path, gin.H{"amount": 10})
		assert.Equal(t, http.StatusNotFound, w.Code, "path %s", path)
	}
	w := client.do(http.MethodGet, "/api/probability", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBetDealsTheRound(t *testing.T) {
	client, _ := newAPIClient(t)
	client.do(http.MethodPost, "/api/start", gin.H{"num_ai": 0})

	w := client.do(http.MethodPost, "/api/bet", gin.H{"amount": 10})
	require.Equal(t, http.StatusOK, w.Code)

	snap := client.snapshot(w)
	assert.False(t, snap.WaitingForBets)
	assert.Len(t, snap.Players[0].Cards, 2)
	if !snap.GameOver {
		// Stake deducted up front; settlement credits only at round end.
		assert.Equal(t, 990, snap.Players[0].Balance)
	}
}

func TestBetErrorStatuses(t *testing.T) {
	client, _ := newAPIClient(t)
	client.do(http.MethodPost, "/api/start", gin.H{"num_ai": 0})

	w := client.do(http.MethodPost, "/api/bet", gin.H{"amount": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = client.do(http.MethodPost, "/api/bet", gin.H{"amount": 100000})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStandResolvesHeadsUpRound(t *testing.T) {
	client, _ := newAPIClient(t)
	client.do(http.MethodPost, "/api/start", gin.H{"num_ai": 0})
	client.dealRound(t)

	w := client.do(http.MethodPost, "/api/stand", nil)
	require.Equal(t, http.StatusOK, w.Code)

	snap := client.snapshot(w)
	assert.True(t, snap.GameOver)
	assert.NotEmpty(t, snap.Message)
	// Dealer's hole card is revealed once the round resolves.
	assert.GreaterOrEqual(t, len(snap.DealerHand.Cards), 2)
}

func TestActionOutsideRoundIsBadRequest(t *testing.T) {
	client, _ := newAPIClient(t)
	client.do(http.MethodPost, "/api/start", gin.H{"num_ai": 0})

	w := client.do(http.MethodPost, "/api/stand", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "invalid action")
}

func TestRefillRestoresBankroll(t *testing.T) {
	client, _ := newAPIClient(t)
	client.do(http.MethodPost, "/api/start", gin.H{"num_ai": 0})
	client.dealRound(t)

	w := client.do(http.MethodPost, "/api/refill", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1000, client.snapshot(w).Players[0].Balance)
}

func TestNewRoundReopensBetting(t *testing.T) {
	client, _ := newAPIClient(t)
	client.do(http.MethodPost, "/api/start", gin.H{"num_ai": 0})
	client.dealRound(t)
	client.do(http.MethodPost, "/api/stand", nil)

	w := client.do(http.MethodPost, "/api/new-round", nil)
	require.Equal(t, http.StatusOK, w.Code)

	snap := client.snapshot(w)
	assert.True(t, snap.WaitingForBets)
	assert.Empty(t, snap.Players[0].Cards)
}

func TestProbabilityBetweenRounds(t *testing.T) {
	client, _ := newAPIClient(t)
	client.do(http.MethodPost, "/api/start", gin.H{"num_ai": 0})

	w := client.do(http.MethodGet, "/api/probability", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 0, body["hit_win_rate"])
	assert.EqualValues(t, 0, body["stand_win_rate"])
}

func TestProbabilityDuringTurn(t *testing.T) {
	client, _ := newAPIClient(t)
	client.do(http.MethodPost, "/api/start", gin.H{"num_ai": 0})
	client.dealRound(t)

	w := client.do(http.MethodGet, "/api/probability", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Recommendation string  `json:"recommendation"`
		HitWinRate     float64 `json:"hit_win_rate"`
		StandWinRate   float64 `json:"stand_win_rate"`
		Reason         string  `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Recommendation)
	assert.NotEmpty(t, body.Reason)
	assert.GreaterOrEqual(t, body.HitWinRate, 0.0)
	assert.LessOrEqual(t, body.StandWinRate, 1.0)
}

func TestQValuesDuringTurn(t *testing.T) {
	client, _ := newAPIClient(t)
	client.do(http.MethodPost, "/api/start", gin.H{"num_ai": 0})
	client.dealRound(t)

	w := client.do(http.MethodGet, "/api/qvalues", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		QStand  float64 `json:"q_stand"`
		QHit    float64 `json:"q_hit"`
		State   string  `json:"state"`
		Trained bool    `json:"trained"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	// No table file was loaded, so every state is untrained.
	assert.False(t, body.Trained)
	assert.NotEmpty(t, body.State)
}

func TestSessionsAreIsolated(t *testing.T) {
	clientA, sessions := newAPIClient(t)
	clientA.do(http.MethodPost, "/api/start", gin.H{"num_ai": 0})

	clientB := &apiClient{t: t, router: clientA.router}
	clientB.do(http.MethodPost, "/api/start", gin.H{"num_ai": 3})

	require.Equal(t, 2, sessions.Len())

	wA := clientA.do(http.MethodPost, "/api/bet", gin.H{"amount": 10})
	require.Equal(t, http.StatusOK, wA.Code)
	snapA := clientA.snapshot(wA)
	require.Len(t, snapA.Players, 1)

	// The other session is still waiting for its own bet.
	tableB, ok := sessions.Get(clientB.cookie.Value)
	require.True(t, ok)
	assert.Equal(t, game.WaitingForBets, tableB.Phase())
}
