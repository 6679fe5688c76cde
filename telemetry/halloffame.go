package telemetry

import (
	"encoding/json"
	"sort"
)

// HallOfFame keeps the most productive finished ant lives: most deliveries,
// then shortest life for the same haul.
type HallOfFame struct {
	entries []LifeRecord
	maxSize int
}

// NewHallOfFame creates a hall holding at most maxSize lives.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]LifeRecord, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider evaluates a finished life for entry. Lives without a delivery never
// qualify. Returns true if the life was added.
func (hof *HallOfFame) Consider(rec LifeRecord) bool {
	if rec.Deliveries < 1 {
		return false
	}
	if len(hof.entries) == hof.maxSize && !better(rec, hof.entries[len(hof.entries)-1]) {
		return false
	}

	i := sort.Search(len(hof.entries), func(i int) bool {
		return better(rec, hof.entries[i])
	})
	hof.entries = append(hof.entries, LifeRecord{})
	copy(hof.entries[i+1:], hof.entries[i:])
	hof.entries[i] = rec
	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return true
}

func better(a, b LifeRecord) bool {
	if a.Deliveries != b.Deliveries {
		return a.Deliveries > b.Deliveries
	}
	return a.SurvivalTimeSec < b.SurvivalTimeSec
}

// Entries returns the hall in rank order.
func (hof *HallOfFame) Entries() []LifeRecord {
	return hof.entries
}

// Len returns the number of lives in the hall.
func (hof *HallOfFame) Len() int {
	return len(hof.entries)
}

// MarshalJSON encodes the hall as a ranked list.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	return json.Marshal(hof.entries)
}
