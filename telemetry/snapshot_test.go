package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/antfarm/components"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	ant := components.Ant{
		ID:           7,
		Pos:          components.Vec2{X: 150, Y: 250},
		Heading:      components.Vec2{X: 0.6, Y: -0.8},
		CarryingFood: true,
		Lifetime:     30.5,
	}
	snapshot := &Snapshot{
		Version:     SnapshotVersion,
		RNGSeed:     42,
		WorldWidth:  1280,
		WorldHeight: 720,
		Tick:        1000,
		Ants:        []AntState{NewAntState(ant, &AntLife{BirthTick: 100, Pickups: 2, Deliveries: 1})},
		Food:        []FoodState{{ID: 0, X: 640, Y: 360}},
		Fields: []FieldLayer{
			NewFieldLayer(components.CategoryNest, 2, 2, components.RGB{B: 255}, []byte{0, 64, 128, 255}),
		},
		Bookmark: &Bookmark{
			Type:        BookmarkFirstDelivery,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	loaded := readSnapshot(t, path)

	if loaded.RNGSeed != snapshot.RNGSeed || loaded.Tick != snapshot.Tick {
		t.Errorf("header mismatch: got seed %d tick %d", loaded.RNGSeed, loaded.Tick)
	}
	if len(loaded.Ants) != 1 {
		t.Fatalf("Ants count mismatch: got %d, want 1", len(loaded.Ants))
	}
	if got := stateAnt(loaded.Ants[0]); got != ant {
		t.Errorf("ant mismatch: got %+v, want %+v", got, ant)
	}
	if loaded.Ants[0].Life == nil || loaded.Ants[0].Life.Deliveries != 1 {
		t.Errorf("life stats not loaded: %+v", loaded.Ants[0].Life)
	}
	if len(loaded.Fields) != 1 || string(loaded.Fields[0].Cells) != string([]byte{0, 64, 128, 255}) {
		t.Errorf("field cells mismatch: %+v", loaded.Fields)
	}
	if loaded.Fields[0].Category != "nest" || loaded.Fields[0].Color != [3]uint8{0, 0, 255} {
		t.Errorf("field header mismatch: %+v", loaded.Fields[0])
	}
	if loaded.Bookmark == nil || loaded.Bookmark.Type != snapshot.Bookmark.Type {
		t.Errorf("Bookmark mismatch: %+v", loaded.Bookmark)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Tick:    5000,
		Bookmark: &Bookmark{
			Type: BookmarkTrailCollapse,
			Tick: 5000,
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_5000_trail_collapse.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	path, err = SaveSnapshot(&Snapshot{Version: SnapshotVersion, Tick: 3000}, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected = filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestAntStateCopiesLife(t *testing.T) {
	life := &AntLife{Deliveries: 1}
	s := NewAntState(components.Ant{}, life)
	life.Deliveries = 5
	if s.Life.Deliveries != 1 {
		t.Error("snapshot life should not alias the tracker")
	}
}

func readSnapshot(t *testing.T, path string) *Snapshot {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if s.Version != SnapshotVersion {
		t.Fatalf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	return &s
}

func stateAnt(s AntState) components.Ant {
	return components.Ant{
		ID:           s.ID,
		Pos:          components.Vec2{X: s.X, Y: s.Y},
		Heading:      components.Vec2{X: s.HeadingX, Y: s.HeadingY},
		CarryingFood: s.CarryingFood,
		Lifetime:     s.Lifetime,
	}
}
