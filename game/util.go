package game

import (
	"math/rand/v2"

	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/systems"
)

// antRNG returns the random stream for ant i. Streams depend only on the seed
// and the ant, so results do not depend on how steering is split across workers.
func antRNG(seed int64, i int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(i)))
}

func steerParams(cfg *config.Config) systems.SteerParams {
	s := cfg.Steering
	return systems.SteerParams{
		ScanAngle:    s.ScanAngle,
		ScanStep:     s.ScanStep,
		SenseRadius:  s.SenseRadius,
		Cutoff:       float32(s.Cutoff),
		ExploreAngle: s.ExploreAngle,
		JitterMin:    float32(s.JitterMin),
		JitterMax:    float32(s.JitterMax),
		WanderOffset: float32(s.WanderOffset),
		StepLength:   float32(s.StepLength),
	}
}

func goalParams(cfg *config.Config) systems.GoalParams {
	return systems.GoalParams{
		PickupRadius:          float32(cfg.Colony.PickupRadius),
		NestRadius:            float32(cfg.Colony.NestRadius),
		ResetLifetimeOnPickup: cfg.Colony.ResetLifetimeOnPickup,
	}
}

func lifetimeParams(cfg *config.Config) systems.LifetimeParams {
	return systems.LifetimeParams{
		Min: float32(cfg.Colony.MinLifetime),
		Max: float32(cfg.Colony.MaxLifetime),
	}
}
