package advisor

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lox/twentyone/internal/game"
)

// StateKey is the discretised game state the learned table is indexed by.
type StateKey struct {
	PlayerTotal int
	Upcard      int
	CountBucket int
}

// String renders the key in the trainer's serialisation format.
func (k StateKey) String() string {
	return fmt.Sprintf("(%d, %d, %d)", k.PlayerTotal, k.Upcard, k.CountBucket)
}

// CountBucket discretises a true count into the trainer's three buckets:
// -1 at or below -2, +1 at or above +2, 0 between.
func CountBucket(trueCount float64) int {
	switch {
	case trueCount <= -2:
		return -1
	case trueCount >= 2:
		return 1
	default:
		return 0
	}
}

// QValues holds the learned action values for one state.
type QValues struct {
	Stand float64
	Hit   float64
}

// Optimal returns the argmax action, standing on ties.
func (q QValues) Optimal() game.Action {
	if q.Stand >= q.Hit {
		return game.Stand
	}
	return game.Hit
}

// QTable is a read-only learned action-value table. The training pipeline
// lives outside this process; the engine only loads its output.
type QTable struct {
	values map[StateKey]QValues
}

// LoadQTable reads a table from the trainer's JSON output: an object mapping
// "(playerTotal, upcard, countBucket)" keys to [qStand, qHit] pairs. A
// missing file yields an empty table; lookups then miss and the caller falls
// back to its other advisory layers.
func LoadQTable(path string) (*QTable, error) {
	t := &QTable{values: make(map[StateKey]QValues)}
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("reading q-table: %w", err)
	}
	var raw map[string][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing q-table %s: %w", path, err)
	}
	for key, vals := range raw {
		var k StateKey
		if _, err := fmt.Sscanf(key, "(%d, %d, %d)", &k.PlayerTotal, &k.Upcard, &k.CountBucket); err != nil {
			// The trainer's file occasionally carries probe keys; skip them.
			continue
		}
		if len(vals) != 2 {
			continue
		}
		t.values[k] = QValues{Stand: vals[0], Hit: vals[1]}
	}
	return t, nil
}

// Lookup returns the learned values for a state, if the trainer visited it.
func (t *QTable) Lookup(key StateKey) (QValues, bool) {
	q, ok := t.values[key]
	return q, ok
}

// Len returns the number of trained states.
func (t *QTable) Len() int {
	return len(t.values)
}
