package advisor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/twentyone/internal/game"
)

func TestLoadQTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q_table.json")
	content := `{
		"(16, 10, 0)": [0.12, -0.38],
		"(12, 4, 1)": [-0.05, 0.21],
		"test_state": [1, 2],
		"(9, 9, 0)": [0.1]
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	qt, err := LoadQTable(path)
	require.NoError(t, err)
	assert.Equal(t, 2, qt.Len(), "probe keys and short value lists are skipped")

	q, ok := qt.Lookup(StateKey{PlayerTotal: 16, Upcard: 10, CountBucket: 0})
	require.True(t, ok)
	assert.Equal(t, 0.12, q.Stand)
	assert.Equal(t, -0.38, q.Hit)
	assert.Equal(t, game.Stand, q.Optimal())

	q, ok = qt.Lookup(StateKey{PlayerTotal: 12, Upcard: 4, CountBucket: 1})
	require.True(t, ok)
	assert.Equal(t, game.Hit, q.Optimal())

	_, ok = qt.Lookup(StateKey{PlayerTotal: 20, Upcard: 5, CountBucket: 0})
	assert.False(t, ok)
}

func TestLoadQTableMissingFile(t *testing.T) {
	qt, err := LoadQTable(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Zero(t, qt.Len())

	qt, err = LoadQTable("")
	require.NoError(t, err)
	assert.Zero(t, qt.Len())
}

func TestLoadQTableMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q_table.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err := LoadQTable(path)
	require.Error(t, err)
}

func TestCountBucket(t *testing.T) {
	tests := []struct {
		trueCount float64
		bucket    int
	}{
		{-5, -1},
		{-2, -1},
		{-1.9, 0},
		{0, 0},
		{1.9, 0},
		{2, 1},
		{6, 1},
	}
	for _, tt := range tests {
		if got := CountBucket(tt.trueCount); got != tt.bucket {
			t.Errorf("CountBucket(%v) = %d, want %d", tt.trueCount, got, tt.bucket)
		}
	}
}

func TestStateKeyString(t *testing.T) {
	key := StateKey{PlayerTotal: 16, Upcard: 10, CountBucket: -1}
	assert.Equal(t, "(16, 10, -1)", key.String())
}
