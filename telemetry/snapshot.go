package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/antfarm/components"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete colony state at one tick.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	WorldWidth  float32 `json:"world_width"`
	WorldHeight float32 `json:"world_height"`

	Tick int32 `json:"tick"`

	Ants   []AntState   `json:"ants"`
	Food   []FoodState  `json:"food"`
	Fields []FieldLayer `json:"fields"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// AntState holds one ant's complete state.
type AntState struct {
	ID           int     `json:"id"`
	X            float32 `json:"x"`
	Y            float32 `json:"y"`
	HeadingX     float32 `json:"heading_x"`
	HeadingY     float32 `json:"heading_y"`
	CarryingFood bool    `json:"carrying_food"`
	Lifetime     float32 `json:"lifetime"`

	Life *AntLife `json:"life,omitempty"`
}

// NewAntState converts an ant for a snapshot.
func NewAntState(a components.Ant, life *AntLife) AntState {
	s := AntState{
		ID:           a.ID,
		X:            a.Pos.X,
		Y:            a.Pos.Y,
		HeadingX:     a.Heading.X,
		HeadingY:     a.Heading.Y,
		CarryingFood: a.CarryingFood,
		Lifetime:     a.Lifetime,
	}
	if life != nil {
		l := *life
		s.Life = &l
	}
	return s
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}
