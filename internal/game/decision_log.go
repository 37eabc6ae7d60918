package game

// DecisionLogEntry records one advisory-backed decision for the history the
// clients render.
type DecisionLogEntry struct {
	Player  string    `json:"player"`
	Action  string    `json:"action"`
	Reason  ReasonTag `json:"reason"`
	ProbHit float64   `json:"prob_hit"`
	Count   int       `json:"count"`
}

// DecisionLog is a bounded ring of decision entries; the oldest entry is
// evicted once capacity is reached.
type DecisionLog struct {
	entries []DecisionLogEntry
	cap     int
}

// NewDecisionLog creates a log bounded to the given capacity.
func NewDecisionLog(capacity int) *DecisionLog {
	if capacity <= 0 {
		capacity = 50
	}
	return &DecisionLog{cap: capacity}
}

// Append records an entry, evicting the oldest when full.
func (l *DecisionLog) Append(entry DecisionLogEntry) {
	if len(l.entries) >= l.cap {
		copy(l.entries, l.entries[1:])
		l.entries[len(l.entries)-1] = entry
		return
	}
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the logged entries, oldest first.
func (l *DecisionLog) Entries() []DecisionLogEntry {
	out := make([]DecisionLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries currently held.
func (l *DecisionLog) Len() int {
	return len(l.entries)
}
