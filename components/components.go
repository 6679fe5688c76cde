// Package components defines the plain data records of the simulation.
// Ants live in a contiguous slice indexed by ID; there is no entity machinery.
package components

import "math"

// Vec2 is a 2D point or direction in world units.
type Vec2 struct {
	X, Y float32
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dist returns the Euclidean distance between v and o, ignoring wrap.
func (v Vec2) Dist(o Vec2) float32 { return v.Sub(o).Len() }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// Normalize returns v scaled to unit length.
// A zero vector normalizes to +X so headings are never zero-length.
func (v Vec2) Normalize() Vec2 {
	l := math.Hypot(float64(v.X), float64(v.Y))
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec2{1, 0}
	}
	return Vec2{float32(float64(v.X) / l), float32(float64(v.Y) / l)}
}

// Rotate returns v rotated counter-clockwise by deg degrees.
func (v Vec2) Rotate(deg float64) Vec2 {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	x, y := float64(v.X), float64(v.Y)
	return Vec2{float32(x*cos - y*sin), float32(x*sin + y*cos)}
}

// FromAngle returns the unit vector at angle rad.
func FromAngle(rad float64) Vec2 {
	sin, cos := math.Sincos(rad)
	return Vec2{float32(cos), float32(sin)}
}

// Category selects a pheromone field.
type Category uint8

const (
	CategoryNest Category = iota // laid by ants carrying food, followed home
	CategoryFood                 // laid by searching ants, followed by searchers
	NumCategories
)

// String returns the category name used in config keys and exports.
func (c Category) String() string {
	switch c {
	case CategoryNest:
		return "nest"
	case CategoryFood:
		return "food"
	default:
		return "unknown"
	}
}

// Categories lists every pheromone category in field order.
func Categories() []Category {
	return []Category{CategoryNest, CategoryFood}
}

// RGB is a display color handed to external renderers.
type RGB struct {
	R, G, B uint8
}

// PheromoneParams holds the per-category deposit and decay settings.
type PheromoneParams struct {
	Increment float32
	Decay     float32
	Color     RGB
}

// Ant is one agent of the colony.
type Ant struct {
	ID           int
	Pos          Vec2
	Heading      Vec2 // unit length
	CarryingFood bool
	Lifetime     float32 // seconds remaining
}

// DepositCategory returns the field this ant marks: searching ants lay food
// trail, ants carrying food lay nest trail.
func (a *Ant) DepositCategory() Category {
	if a.CarryingFood {
		return CategoryNest
	}
	return CategoryFood
}

// FollowCategory returns the field this ant steers by.
func (a *Ant) FollowCategory() Category {
	if a.CarryingFood {
		return CategoryNest
	}
	return CategoryFood
}

// FoodSource is a static food location.
type FoodSource struct {
	ID  int
	Pos Vec2
}
