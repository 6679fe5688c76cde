package systems

import (
	"fmt"
	"sort"

	perlin "github.com/aquilax/go-perlin"

	"github.com/pthm-cable/antfarm/components"
	"github.com/pthm-cable/antfarm/config"
)

// Perlin noise parameters for the scatter layout.
const (
	scatterAlpha   = 2.0
	scatterBeta    = 2.0
	scatterOctaves = 3
	scatterStride  = 8 // world units between sampled candidates
)

// PlaceFood returns the food sources for the configured layout.
func PlaceFood(fc config.FoodConfig, world World, seed int64) ([]components.FoodSource, error) {
	var positions []components.Vec2

	switch fc.Layout {
	case config.LayoutCenter:
		positions = []components.Vec2{{X: world.W / 2, Y: world.H / 2}}
	case config.LayoutCorners:
		positions = []components.Vec2{
			{X: world.W / 4, Y: world.H / 4},
			{X: 3 * world.W / 4, Y: world.H / 4},
			{X: 3 * world.W / 4, Y: 3 * world.H / 4},
			{X: world.W / 4, Y: 3 * world.H / 4},
		}
	case config.LayoutScatter:
		positions = scatterFood(fc, world, seed)
	case config.LayoutExplicit:
		for _, p := range fc.Positions {
			positions = append(positions, components.Vec2{X: float32(p[0]), Y: float32(p[1])})
		}
	default:
		return nil, fmt.Errorf("unknown food layout %q", fc.Layout)
	}

	sources := make([]components.FoodSource, len(positions))
	for i, p := range positions {
		sources[i] = components.FoodSource{ID: i, Pos: world.Wrap(p)}
	}
	return sources, nil
}

type scatterCandidate struct {
	pos   components.Vec2
	value float64
}

// scatterFood picks up to fc.Count sources at the highest noise values,
// keeping them fc.MinSpacing apart and away from the nest.
func scatterFood(fc config.FoodConfig, world World, seed int64) []components.Vec2 {
	noise := perlin.NewPerlin(scatterAlpha, scatterBeta, scatterOctaves, seed)

	var candidates []scatterCandidate
	for y := float32(scatterStride / 2); y < world.H; y += scatterStride {
		for x := float32(scatterStride / 2); x < world.W; x += scatterStride {
			u := float64(x/world.W) * fc.NoiseScale
			v := float64(y/world.H) * fc.NoiseScale
			candidates = append(candidates, scatterCandidate{
				pos:   components.Vec2{X: x, Y: y},
				value: noise.Noise2D(u, v),
			})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].value > candidates[j].value
	})

	spacing := float32(fc.MinSpacing)
	nest := components.Vec2{}
	var picked []components.Vec2
	for _, c := range candidates {
		if len(picked) >= fc.Count {
			break
		}
		if world.Dist(c.pos, nest) < spacing {
			continue
		}
		ok := true
		for _, p := range picked {
			if world.Dist(c.pos, p) < spacing {
				ok = false
				break
			}
		}
		if ok {
			picked = append(picked, c.pos)
		}
	}

	// Spacing too strict for the world: fall back to the best remaining peaks
	for _, c := range candidates {
		if len(picked) >= fc.Count {
			break
		}
		if !containsVec(picked, c.pos) {
			picked = append(picked, c.pos)
		}
	}
	return picked
}

func containsVec(vs []components.Vec2, p components.Vec2) bool {
	for _, v := range vs {
		if v == p {
			return true
		}
	}
	return false
}
