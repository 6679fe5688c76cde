package systems

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/antfarm/components"
)

// LifetimeParams bounds the random lifetime drawn at spawn and on reset.
type LifetimeParams struct {
	Min, Max float32 // seconds
}

// DrawLifetime returns a lifetime uniform in [Min, Max].
func DrawLifetime(p LifetimeParams, rng *rand.Rand) float32 {
	if p.Max <= p.Min {
		return p.Min
	}
	return p.Min + rng.Float32()*(p.Max-p.Min)
}

// RandomHeading returns a uniformly distributed unit vector.
func RandomHeading(rng *rand.Rand) components.Vec2 {
	return components.FromAngle(rng.Float64() * 2 * math.Pi)
}

// Respawn returns the ant to the nest with a fresh lifetime and heading.
func Respawn(a *components.Ant, p LifetimeParams, rng *rand.Rand) {
	a.Pos = Nest
	a.CarryingFood = false
	a.Heading = RandomHeading(rng)
	a.Lifetime = DrawLifetime(p, rng)
}

// AgeAnts counts every ant's lifetime down by dt. Ants reaching zero are
// respawned at the nest. rngFor returns the random stream owned by ant i.
// The indices of respawned ants are appended to respawned[:0] and returned.
func AgeAnts(ants []components.Ant, dt float32, p LifetimeParams, rngFor func(i int) *rand.Rand, respawned []int) []int {
	respawned = respawned[:0]
	for i := range ants {
		a := &ants[i]
		a.Lifetime -= dt
		if a.Lifetime <= 0 {
			Respawn(a, p, rngFor(i))
			respawned = append(respawned, i)
		}
	}
	return respawned
}
