package systems

import "github.com/pthm-cable/antfarm/components"

// Nest is the fixed nest location.
var Nest = components.Vec2{}

// GoalParams holds the goal transition radii.
type GoalParams struct {
	PickupRadius          float32
	NestRadius            float32
	ResetLifetimeOnPickup bool
}

// GoalEvents records the flag flips of one goal transition step. Slices hold
// ant indices and are reused across ticks.
type GoalEvents struct {
	Pickups    int
	Deliveries int

	PickedUp  []int
	Delivered []int
	// ResetLifetime lists ants that found food and need a fresh lifetime.
	ResetLifetime []int
}

func (ev *GoalEvents) reset() {
	ev.Pickups = 0
	ev.Deliveries = 0
	ev.PickedUp = ev.PickedUp[:0]
	ev.Delivered = ev.Delivered[:0]
	ev.ResetLifetime = ev.ResetLifetime[:0]
}

// UpdateGoals flips each ant's carrying flag at most once: searching ants
// within PickupRadius of a food source start carrying, carrying ants within
// NestRadius of the nest drop their load. ev is cleared and refilled.
func UpdateGoals(ants []components.Ant, food *FoodIndex, world World, p GoalParams, ev *GoalEvents) {
	ev.reset()

	for i := range ants {
		a := &ants[i]
		if !a.CarryingFood {
			if food != nil && food.Near(a.Pos, p.PickupRadius) {
				a.CarryingFood = true
				ev.Pickups++
				ev.PickedUp = append(ev.PickedUp, i)
				if p.ResetLifetimeOnPickup {
					ev.ResetLifetime = append(ev.ResetLifetime, i)
				}
			}
			continue
		}
		if world.Dist(a.Pos, Nest) < p.NestRadius {
			a.CarryingFood = false
			ev.Deliveries++
			ev.Delivered = append(ev.Delivered, i)
		}
	}
}
