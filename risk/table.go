package risk

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Table is a read-only RiskScore lookup keyed by trip_id.
type Table struct {
	rows  []RiskScore
	index map[string]int
}

// NewTable builds a table from scores. Later duplicates of a trip_id win.
func NewTable(scores []RiskScore) *Table {
	t := &Table{
		rows:  make([]RiskScore, len(scores)),
		index: make(map[string]int, len(scores)),
	}
	copy(t.rows, scores)
	for i, s := range t.rows {
		t.index[s.TripID] = i
	}
	return t
}

// Lookup returns the score for tripID.
func (t *Table) Lookup(tripID string) (RiskScore, bool) {
	i, ok := t.index[tripID]
	if !ok {
		return RiskScore{}, false
	}
	return t.rows[i], true
}

// Len returns the number of distinct trips.
func (t *Table) Len() int { return len(t.index) }

// All returns a copy of the rows in file order.
func (t *Table) All() []RiskScore {
	out := make([]RiskScore, len(t.rows))
	copy(out, t.rows)
	return out
}

// ByTrip returns a trip_id -> score map.
func (t *Table) ByTrip() map[string]RiskScore {
	out := make(map[string]RiskScore, len(t.index))
	for id, i := range t.index {
		out[id] = t.rows[i]
	}
	return out
}

// LoadTable reads a JSON array of scores from path.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read risk table: %w", err)
	}
	var scores []RiskScore
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, fmt.Errorf("parse risk table %s: %w", path, err)
	}
	return NewTable(scores), nil
}

// WriteTable writes scores to path as an indented JSON array.
func WriteTable(path string, scores []RiskScore) error {
	if scores == nil {
		scores = []RiskScore{}
	}
	data, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal risk table: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write risk table: %w", err)
	}
	return nil
}
