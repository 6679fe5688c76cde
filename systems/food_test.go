package systems

import (
	"testing"

	"github.com/pthm-cable/antfarm/components"
)

func TestFoodIndexNear(t *testing.T) {
	world := World{W: 200, H: 100}
	idx := NewFoodIndex(world, []components.FoodSource{
		{ID: 0, Pos: components.Vec2{X: 100, Y: 50}},
		{ID: 1, Pos: components.Vec2{X: 1, Y: 1}},
	})

	tests := []struct {
		name string
		pos  components.Vec2
		r    float32
		want bool
	}{
		{"inside", components.Vec2{X: 103, Y: 50}, 5, true},
		{"on radius", components.Vec2{X: 105, Y: 50}, 5, false},
		{"outside", components.Vec2{X: 120, Y: 60}, 5, false},
		{"wrap x", components.Vec2{X: 198, Y: 1}, 5, true},
		{"wrap y", components.Vec2{X: 1, Y: 98}, 5, true},
		{"wrap corner", components.Vec2{X: 199, Y: 99}, 5, true},
		{"zero radius", components.Vec2{X: 100, Y: 50}, 0, false},
		{"unwrapped query", components.Vec2{X: 300, Y: -50}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := idx.Near(tt.pos, tt.r); got != tt.want {
				t.Errorf("Near(%+v, %v) = %v, want %v", tt.pos, tt.r, got, tt.want)
			}
		})
	}
}

func TestFoodIndexWrapsSources(t *testing.T) {
	world := World{W: 100, H: 100}
	idx := NewFoodIndex(world, []components.FoodSource{{Pos: components.Vec2{X: 150, Y: -10}}})
	if got := idx.Sources()[0].Pos; got != (components.Vec2{X: 50, Y: 90}) {
		t.Errorf("expected source wrapped to (50, 90), got %+v", got)
	}
	if idx.Len() != 1 {
		t.Errorf("expected 1 source, got %d", idx.Len())
	}
}
