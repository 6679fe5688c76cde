package systems

import (
	"testing"

	"github.com/pthm-cable/antfarm/components"
)

var testGoalParams = GoalParams{PickupRadius: 5, NestRadius: 10, ResetLifetimeOnPickup: true}

func TestUpdateGoalsPickupWithinRadius(t *testing.T) {
	world := World{W: 100, H: 100}
	food := NewFoodIndex(world, []components.FoodSource{{ID: 0, Pos: components.Vec2{X: 50, Y: 50}}})
	ants := []components.Ant{
		{ID: 0, Pos: components.Vec2{X: 53, Y: 50}},     // distance 3
		{ID: 1, Pos: components.Vec2{X: 50, Y: 55}},     // distance 5, not strictly inside
		{ID: 2, Pos: components.Vec2{X: 20, Y: 20}},     // far away
		{ID: 3, Pos: components.Vec2{X: 48.5, Y: 48.5}}, // diagonal, ~2.1
	}

	var ev GoalEvents
	UpdateGoals(ants, food, world, testGoalParams, &ev)

	want := []bool{true, false, false, true}
	for i, w := range want {
		if ants[i].CarryingFood != w {
			t.Errorf("ant %d: carrying = %v, want %v", i, ants[i].CarryingFood, w)
		}
	}
	if ev.Pickups != 2 || ev.Deliveries != 0 {
		t.Errorf("expected 2 pickups and 0 deliveries, got %+v", ev)
	}
	if len(ev.ResetLifetime) != 2 || ev.ResetLifetime[0] != 0 || ev.ResetLifetime[1] != 3 {
		t.Errorf("expected lifetime resets for ants [0 3], got %v", ev.ResetLifetime)
	}
}

func TestUpdateGoalsDeliveryWithinNestRadius(t *testing.T) {
	world := World{W: 100, H: 100}
	food := NewFoodIndex(world, []components.FoodSource{{Pos: components.Vec2{X: 50, Y: 50}}})
	ants := []components.Ant{
		{Pos: components.Vec2{X: 8, Y: 0}, CarryingFood: true},  // distance 8
		{Pos: components.Vec2{X: 6, Y: 6}, CarryingFood: true},  // ~8.49
		{Pos: components.Vec2{X: 10, Y: 0}, CarryingFood: true}, // on the boundary
		{Pos: components.Vec2{X: 30, Y: 30}, CarryingFood: true},
	}

	var ev GoalEvents
	UpdateGoals(ants, food, world, testGoalParams, &ev)

	want := []bool{false, false, true, true}
	for i, w := range want {
		if ants[i].CarryingFood != w {
			t.Errorf("ant %d: carrying = %v, want %v", i, ants[i].CarryingFood, w)
		}
	}
	if ev.Deliveries != 2 {
		t.Errorf("expected 2 deliveries, got %d", ev.Deliveries)
	}
	if len(ev.ResetLifetime) != 0 {
		t.Errorf("deliveries should not reset lifetimes, got %v", ev.ResetLifetime)
	}
}

func TestUpdateGoalsNestDistanceWraps(t *testing.T) {
	world := World{W: 100, H: 100}
	ants := []components.Ant{
		{Pos: components.Vec2{X: 96, Y: 97}, CarryingFood: true}, // 5 from origin across the corner
	}

	var ev GoalEvents
	UpdateGoals(ants, NewFoodIndex(world, nil), world, testGoalParams, &ev)

	if ants[0].CarryingFood || ev.Deliveries != 1 {
		t.Errorf("expected delivery across the wrap edge, got carrying=%v events=%+v", ants[0].CarryingFood, ev)
	}
}

func TestUpdateGoalsAtMostOneFlipPerTick(t *testing.T) {
	world := World{W: 100, H: 100}
	// Food inside the nest radius: an ant there could flip twice if the
	// checks chained.
	food := NewFoodIndex(world, []components.FoodSource{{Pos: components.Vec2{X: 2, Y: 2}}})
	ants := []components.Ant{
		{Pos: components.Vec2{X: 2, Y: 3}},
		{Pos: components.Vec2{X: 2, Y: 3}, CarryingFood: true},
	}

	var ev GoalEvents
	UpdateGoals(ants, food, world, testGoalParams, &ev)
	if !ants[0].CarryingFood {
		t.Error("searching ant should pick up and keep the food this tick")
	}
	if ants[1].CarryingFood {
		t.Error("carrying ant should deliver and not pick up again this tick")
	}
	if ev.Pickups != 1 || ev.Deliveries != 1 {
		t.Errorf("expected one pickup and one delivery, got %+v", ev)
	}

	UpdateGoals(ants, food, world, testGoalParams, &ev)
	if ants[0].CarryingFood || !ants[1].CarryingFood {
		t.Error("flags should flip back on the next tick")
	}
	if ev.Pickups != 1 || ev.Deliveries != 1 {
		t.Errorf("expected one pickup and one delivery on the second tick, got %+v", ev)
	}
}

func TestUpdateGoalsReusesEventBuffers(t *testing.T) {
	world := World{W: 100, H: 100}
	food := NewFoodIndex(world, []components.FoodSource{{Pos: components.Vec2{X: 50, Y: 50}}})
	ants := []components.Ant{
		{Pos: components.Vec2{X: 50, Y: 51}},
		{Pos: components.Vec2{X: 1, Y: 1}, CarryingFood: true},
	}

	ev := GoalEvents{ResetLifetime: make([]int, 3, 8)}
	backing := &ev.ResetLifetime[:1][0]
	UpdateGoals(ants, food, world, testGoalParams, &ev)
	if len(ev.ResetLifetime) != 1 || ev.ResetLifetime[0] != 0 {
		t.Fatalf("expected reset list [0], got %v", ev.ResetLifetime)
	}
	if &ev.ResetLifetime[0] != backing {
		t.Error("expected the reset list to reuse its backing array")
	}
	if len(ev.PickedUp) != 1 || ev.PickedUp[0] != 0 || len(ev.Delivered) != 1 || ev.Delivered[0] != 1 {
		t.Errorf("unexpected event lists: picked %v delivered %v", ev.PickedUp, ev.Delivered)
	}

	p := testGoalParams
	p.ResetLifetimeOnPickup = false
	ants[0].CarryingFood = false
	UpdateGoals(ants, food, world, p, &ev)
	if len(ev.ResetLifetime) != 0 {
		t.Errorf("expected no resets with the policy off, got %v", ev.ResetLifetime)
	}
	if ev.Pickups != 1 || ev.Deliveries != 0 || len(ev.Delivered) != 0 {
		t.Errorf("expected counters cleared between calls, got %+v", ev)
	}
}

func TestUpdateGoalsWithoutFood(t *testing.T) {
	ants := []components.Ant{{Pos: components.Vec2{X: 1, Y: 1}}}
	var ev GoalEvents
	UpdateGoals(ants, nil, World{W: 10, H: 10}, testGoalParams, &ev)
	if ants[0].CarryingFood || ev.Pickups != 0 {
		t.Errorf("no food sources should mean no pickups, got %+v", ev)
	}
}
