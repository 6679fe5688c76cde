package systems

import (
	"testing"

	"github.com/pthm-cable/antfarm/components"
	"github.com/pthm-cable/antfarm/config"
)

func TestPlaceFoodCenter(t *testing.T) {
	world := World{W: 1280, H: 720}
	src, err := PlaceFood(config.FoodConfig{Layout: config.LayoutCenter}, world, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(src) != 1 || src[0].Pos != (components.Vec2{X: 640, Y: 360}) {
		t.Errorf("expected one source at the centre, got %+v", src)
	}
}

func TestPlaceFoodCorners(t *testing.T) {
	world := World{W: 400, H: 200}
	src, err := PlaceFood(config.FoodConfig{Layout: config.LayoutCorners}, world, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []components.Vec2{{X: 100, Y: 50}, {X: 300, Y: 50}, {X: 300, Y: 150}, {X: 100, Y: 150}}
	if len(src) != len(want) {
		t.Fatalf("expected %d sources, got %d", len(want), len(src))
	}
	for i, w := range want {
		if src[i].Pos != w || src[i].ID != i {
			t.Errorf("source %d: got %+v, want pos %+v", i, src[i], w)
		}
	}
}

func TestPlaceFoodExplicitWraps(t *testing.T) {
	world := World{W: 100, H: 100}
	fc := config.FoodConfig{Layout: config.LayoutExplicit, Positions: [][2]float64{{10, 20}, {-5, 105}}}
	src, err := PlaceFood(fc, world, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(src) != 2 || src[1].Pos != (components.Vec2{X: 95, Y: 5}) {
		t.Errorf("expected explicit sources wrapped into the world, got %+v", src)
	}
}

func TestPlaceFoodScatter(t *testing.T) {
	world := World{W: 1280, H: 720}
	fc := config.FoodConfig{Layout: config.LayoutScatter, Count: 6, NoiseScale: 4, MinSpacing: 120}

	a, err := PlaceFood(fc, world, 99)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != fc.Count {
		t.Fatalf("expected %d sources, got %d", fc.Count, len(a))
	}
	for i := range a {
		if !world.Contains(a[i].Pos) {
			t.Errorf("source %d outside world: %+v", i, a[i].Pos)
		}
		if d := world.Dist(a[i].Pos, Nest); d < float32(fc.MinSpacing) {
			t.Errorf("source %d only %f from the nest", i, d)
		}
		for j := i + 1; j < len(a); j++ {
			if d := world.Dist(a[i].Pos, a[j].Pos); d < float32(fc.MinSpacing) {
				t.Errorf("sources %d and %d only %f apart", i, j, d)
			}
		}
	}

	b, err := PlaceFood(fc, world, 99)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("same seed placed source %d differently: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPlaceFoodScatterFallsBackWhenCrowded(t *testing.T) {
	world := World{W: 64, H: 64}
	fc := config.FoodConfig{Layout: config.LayoutScatter, Count: 5, NoiseScale: 2, MinSpacing: 1000}
	src, err := PlaceFood(fc, world, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(src) != 5 {
		t.Errorf("expected fallback to fill 5 sources, got %d", len(src))
	}
}

func TestPlaceFoodUnknownLayout(t *testing.T) {
	if _, err := PlaceFood(config.FoodConfig{Layout: "spiral"}, World{W: 10, H: 10}, 1); err == nil {
		t.Error("expected error for unknown layout")
	}
}
