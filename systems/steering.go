package systems

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/antfarm/components"
)

// SteerParams holds the trail-following policy. Angles are in degrees.
type SteerParams struct {
	ScanAngle    float64 // candidates span ±ScanAngle around the heading
	ScanStep     float64
	SenseRadius  int     // cells sensed ahead along each candidate
	Cutoff       float32 // best intensity at or below this means no usable trail
	ExploreAngle float64 // random turn bound when no trail is found
	JitterMin    float32 // perturbation radius on a saturated trail
	JitterMax    float32 // perturbation radius on a trail just above Cutoff
	WanderOffset float32 // max length of the random offset added to each step
	StepLength   float32
}

// SteerResult is the outcome of one steering step for one ant.
type SteerResult struct {
	Pos      components.Vec2
	Heading  components.Vec2
	Explored bool    // true when the random-walk fallback was taken
	Signal   float32 // best intensity sensed
}

// rotation is a precomputed candidate turn.
type rotation struct {
	cos, sin float32
}

// Steerer applies the steering policy. It is read-only after construction
// and safe for concurrent use by many goroutines.
type Steerer struct {
	p          SteerParams
	candidates []rotation
}

// NewSteerer precomputes the candidate rotations for p. Candidates are
// ordered by increasing turn (0, +s, -s, +2s, ...) so ties favour going straight.
func NewSteerer(p SteerParams) *Steerer {
	if p.SenseRadius < 1 {
		p.SenseRadius = 1
	}
	if p.StepLength <= 0 {
		p.StepLength = 1
	}
	s := &Steerer{p: p}

	n := 0
	if p.ScanStep > 0 && p.ScanAngle > 0 {
		n = int(math.Floor(p.ScanAngle/p.ScanStep + 1e-9))
	}
	s.candidates = append(s.candidates, newRotation(0))
	for k := 1; k <= n; k++ {
		deg := float64(k) * p.ScanStep
		s.candidates = append(s.candidates, newRotation(deg), newRotation(-deg))
	}
	return s
}

func newRotation(deg float64) rotation {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return rotation{cos: float32(cos), sin: float32(sin)}
}

func (r rotation) apply(v components.Vec2) components.Vec2 {
	return components.Vec2{X: v.X*r.cos - v.Y*r.sin, Y: v.X*r.sin + v.Y*r.cos}
}

// Params returns the policy parameters.
func (s *Steerer) Params() SteerParams {
	return s.p
}

// Candidates returns the number of headings scanned per step.
func (s *Steerer) Candidates() int {
	return len(s.candidates)
}

// Sense scans the candidate headings and returns the one leading to the
// strongest cell within SenseRadius, with that intensity. When nothing beats
// zero the current heading is returned.
func (s *Steerer) Sense(pos, heading components.Vec2, field *Field) (components.Vec2, float32) {
	best := heading
	var maxV float32
	for _, r := range s.candidates {
		dir := r.apply(heading)
		for d := 1; d <= s.p.SenseRadius; d++ {
			fd := float32(d)
			v := field.At(pos.X+dir.X*fd, pos.Y+dir.Y*fd)
			if v > maxV {
				maxV = v
				best = dir
			}
		}
	}
	return best, maxV
}

// Steer picks a new heading from field and advances one step. field must be
// the field selected by the ant's carrying state; it is only read.
func (s *Steerer) Steer(pos, heading components.Vec2, field *Field, world World, rng *rand.Rand) SteerResult {
	heading = heading.Normalize()
	best, signal := s.Sense(pos, heading, field)

	res := SteerResult{Signal: signal}
	if signal <= s.p.Cutoff {
		// No usable trail: random walk inside the exploration cone
		turn := (rng.Float64()*2 - 1) * s.p.ExploreAngle
		res.Heading = heading.Rotate(turn).Normalize()
		res.Explored = true
	} else {
		r := s.jitterRadius(signal)
		res.Heading = best.Normalize().Add(RandomHeading(rng).Scale(r)).Normalize()
	}

	step := res.Heading
	if s.p.WanderOffset > 0 {
		offset := RandomHeading(rng).Scale(rng.Float32() * s.p.WanderOffset)
		step = step.Add(offset).Normalize()
	}
	res.Pos = world.Wrap(pos.Add(step.Scale(s.p.StepLength)))
	return res
}

// jitterRadius interpolates from JitterMax at the cutoff to JitterMin at saturation.
func (s *Steerer) jitterRadius(signal float32) float32 {
	span := 1 - s.p.Cutoff
	strength := float32(1)
	if span > 0 {
		strength = clamp01((signal - s.p.Cutoff) / span)
	}
	return s.p.JitterMax*(1-strength) + s.p.JitterMin*strength
}

// SteerAnt steers a using the field it follows and writes the result back.
func (s *Steerer) SteerAnt(a *components.Ant, fs *Fields, world World, rng *rand.Rand) SteerResult {
	res := s.Steer(a.Pos, a.Heading, fs[a.FollowCategory()], world, rng)
	a.Pos = res.Pos
	a.Heading = res.Heading
	return res
}
