// Package main tunes pheromone and steering constants with CMA-ES so that
// colonies deliver as much food per ant as possible.
package main

import (
	"math"

	"github.com/pthm-cable/antfarm/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Pheromones
			{Name: "nest_increment", Path: "pheromones.nest.increment", Min: 0.005, Max: 0.3, Default: 0.05},
			{Name: "nest_decay", Path: "pheromones.nest.decay", Min: 0.98, Max: 0.9999, Default: 0.999},
			{Name: "food_increment", Path: "pheromones.food.increment", Min: 0.005, Max: 0.3, Default: 0.05},
			{Name: "food_decay", Path: "pheromones.food.decay", Min: 0.98, Max: 0.9999, Default: 0.999},
			// Steering
			{Name: "scan_angle", Path: "steering.scan_angle", Min: 10, Max: 90, Default: 45},
			{Name: "sense_radius", Path: "steering.sense_radius", Min: 1, Max: 12, Default: 6},
			{Name: "cutoff", Path: "steering.cutoff", Min: 0.001, Max: 0.2, Default: 0.01},
			{Name: "explore_angle", Path: "steering.explore_angle", Min: 2, Max: 60, Default: 22.5},
			{Name: "jitter_min", Path: "steering.jitter_min", Min: 0, Max: 0.5, Default: 0.05},
			{Name: "jitter_max", Path: "steering.jitter_max", Min: 0.05, Max: 0.95, Default: 0.45},
			{Name: "wander_offset", Path: "steering.wander_offset", Min: 0, Max: 0.95, Default: 0.8},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct. The jitter
// bounds are swapped if the optimizer crossed them.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	// Order must match Specs order
	cfg.Pheromones.Nest.Increment = c[0]
	cfg.Pheromones.Nest.Decay = c[1]
	cfg.Pheromones.Food.Increment = c[2]
	cfg.Pheromones.Food.Decay = c[3]

	cfg.Steering.ScanAngle = c[4]
	cfg.Steering.SenseRadius = int(math.Round(c[5]))
	cfg.Steering.Cutoff = c[6]
	cfg.Steering.ExploreAngle = c[7]
	cfg.Steering.JitterMin = c[8]
	cfg.Steering.JitterMax = c[9]
	if cfg.Steering.JitterMin > cfg.Steering.JitterMax {
		cfg.Steering.JitterMin, cfg.Steering.JitterMax = cfg.Steering.JitterMax, cfg.Steering.JitterMin
	}
	cfg.Steering.WanderOffset = c[10]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Pheromones.Nest.Increment,
		cfg.Pheromones.Nest.Decay,
		cfg.Pheromones.Food.Increment,
		cfg.Pheromones.Food.Decay,
		cfg.Steering.ScanAngle,
		float64(cfg.Steering.SenseRadius),
		cfg.Steering.Cutoff,
		cfg.Steering.ExploreAngle,
		cfg.Steering.JitterMin,
		cfg.Steering.JitterMax,
		cfg.Steering.WanderOffset,
	}
}
