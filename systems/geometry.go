package systems

import (
	"math"

	"github.com/pthm-cable/antfarm/components"
)

// World is the toroidal simulation area.
type World struct {
	W, H float32
}

// Wrap maps p into [0, W) x [0, H) with floor-modulo.
func (w World) Wrap(p components.Vec2) components.Vec2 {
	return components.Vec2{X: wrapCoord(p.X, w.W), Y: wrapCoord(p.Y, w.H)}
}

// Contains reports whether p already lies inside the area.
func (w World) Contains(p components.Vec2) bool {
	return p.X >= 0 && p.X < w.W && p.Y >= 0 && p.Y < w.H
}

// Dist returns the shortest toroidal distance between a and b.
func (w World) Dist(a, b components.Vec2) float32 {
	dx := torusDelta(a.X-b.X, w.W)
	dy := torusDelta(a.Y-b.Y, w.H)
	return float32(math.Hypot(float64(dx), float64(dy)))
}

// wrapCoord returns v floor-mod n. Non-finite input maps to 0.
func wrapCoord(v, n float32) float32 {
	r := math.Mod(float64(v), float64(n))
	if math.IsNaN(r) {
		return 0
	}
	if r < 0 {
		r += float64(n)
	}
	out := float32(r)
	// r slightly below n can round up to n in float32
	if out >= n {
		out = 0
	}
	return out
}

// torusDelta folds a coordinate difference into [-n/2, n/2].
func torusDelta(d, n float32) float32 {
	d = float32(math.Abs(float64(d)))
	if n > 0 {
		d = float32(math.Mod(float64(d), float64(n)))
		if d > n/2 {
			d = n - d
		}
	}
	return d
}
