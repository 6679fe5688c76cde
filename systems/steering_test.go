package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/pthm-cable/antfarm/components"
)

func defaultSteerParams() SteerParams {
	return SteerParams{
		ScanAngle:    45,
		ScanStep:     1,
		SenseRadius:  6,
		Cutoff:       0.01,
		ExploreAngle: 22.5,
		JitterMin:    0.05,
		JitterMax:    0.45,
		WanderOffset: 0.8,
		StepLength:   1,
	}
}

func angleBetween(a, b components.Vec2) float64 {
	dot := float64(a.X*b.X + a.Y*b.Y)
	cross := float64(a.X*b.Y - a.Y*b.X)
	return math.Abs(math.Atan2(cross, dot)) * 180 / math.Pi
}

func TestSteererCandidateCount(t *testing.T) {
	s := NewSteerer(defaultSteerParams())
	if got := s.Candidates(); got != 91 {
		t.Errorf("expected 91 candidates for ±45° at 1°, got %d", got)
	}

	p := defaultSteerParams()
	p.ScanAngle = 0
	if got := NewSteerer(p).Candidates(); got != 1 {
		t.Errorf("expected a single straight-ahead candidate, got %d", got)
	}
}

func TestSteerKeepsHeadingUnitAndPositionInBounds(t *testing.T) {
	fs, err := NewFields(40, 30)
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 400; i++ {
		fs[components.CategoryFood].Deposit(components.Vec2{X: rng.Float32() * 40, Y: rng.Float32() * 30}, rng.Float32())
	}

	world := World{W: 40, H: 30}
	s := NewSteerer(defaultSteerParams())
	ant := components.Ant{Pos: components.Vec2{X: 39.5, Y: 0.2}, Heading: components.Vec2{X: 1, Y: -1}}

	for step := 0; step < 5000; step++ {
		s.SteerAnt(&ant, &fs, world, rng)
		if l := ant.Heading.Len(); math.Abs(float64(l)-1) > 1e-4 {
			t.Fatalf("step %d: heading length %f", step, l)
		}
		if !world.Contains(ant.Pos) {
			t.Fatalf("step %d: position %+v outside world", step, ant.Pos)
		}
	}
}

func TestSteerExploresWhenSignalAtCutoff(t *testing.T) {
	fs, err := NewFields(50, 50)
	if err != nil {
		t.Fatal(err)
	}
	p := defaultSteerParams()
	// Every cell exactly at the cutoff
	cells := make([]float32, 50*50)
	for i := range cells {
		cells[i] = p.Cutoff
	}
	if err := fs[components.CategoryFood].Load(cells); err != nil {
		t.Fatal(err)
	}

	s := NewSteerer(p)
	world := World{W: 50, H: 50}
	rng := rand.New(rand.NewPCG(1, 2))
	heading := components.Vec2{X: 0, Y: 1}

	for i := 0; i < 500; i++ {
		res := s.Steer(components.Vec2{X: 25, Y: 25}, heading, fs[components.CategoryFood], world, rng)
		if !res.Explored {
			t.Fatalf("draw %d: expected exploration branch with signal %f at cutoff", i, res.Signal)
		}
		if a := angleBetween(heading, res.Heading); a > p.ExploreAngle+1e-3 {
			t.Fatalf("draw %d: exploration turned %f°, beyond cone %f°", i, a, p.ExploreAngle)
		}
	}
}

func TestSteerFollowsTrail(t *testing.T) {
	fs, err := NewFields(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	field := fs[components.CategoryFood]

	// Strong cell 30° to the left of +X, 4 cells out
	dir := components.Vec2{X: 1}.Rotate(30)
	origin := components.Vec2{X: 50.5, Y: 50.5}
	target := origin.Add(dir.Scale(4))
	field.Deposit(target, 1)

	p := defaultSteerParams()
	p.WanderOffset = 0
	s := NewSteerer(p)

	best, signal := s.Sense(origin, components.Vec2{X: 1}, field)
	if signal != 1 {
		t.Fatalf("expected to sense the saturated cell, got %f", signal)
	}
	if field.Index(origin.X+best.X*4, origin.Y+best.Y*4) != field.Index(target.X, target.Y) {
		t.Errorf("best heading %+v does not lead to the deposited cell", best)
	}

	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 200; i++ {
		res := s.Steer(origin, components.Vec2{X: 1}, field, World{W: 100, H: 100}, rng)
		if res.Explored {
			t.Fatal("expected trail-following branch")
		}
		// Saturated trail keeps the perturbation at JitterMin
		maxDev := math.Asin(float64(p.JitterMin))*180/math.Pi + 1e-3
		if a := angleBetween(best, res.Heading); a > maxDev {
			t.Fatalf("draw %d: heading deviates %f° from trail, limit %f°", i, a, maxDev)
		}
	}
}

func TestSteerIgnoresTrailsOutsideScanCone(t *testing.T) {
	fs, err := NewFields(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	field := fs[components.CategoryFood]
	origin := components.Vec2{X: 50.5, Y: 50.5}
	// Directly behind the ant
	field.Deposit(origin.Add(components.Vec2{X: -3}), 1)

	s := NewSteerer(defaultSteerParams())
	_, signal := s.Sense(origin, components.Vec2{X: 1}, field)
	if signal != 0 {
		t.Errorf("expected no signal from behind, got %f", signal)
	}
}

func TestSteerReadsFieldMatchingCarryingState(t *testing.T) {
	fs, err := NewFields(60, 60)
	if err != nil {
		t.Fatal(err)
	}
	origin := components.Vec2{X: 30.5, Y: 30.5}
	fs[components.CategoryNest].Deposit(origin.Add(components.Vec2{X: 3}), 1)

	s := NewSteerer(defaultSteerParams())
	rng := rand.New(rand.NewPCG(5, 6))
	world := World{W: 60, H: 60}

	searching := components.Ant{Pos: origin, Heading: components.Vec2{X: 1}}
	if res := s.SteerAnt(&searching, &fs, world, rng); !res.Explored {
		t.Error("searching ant should ignore the nest field")
	}

	carrying := components.Ant{Pos: origin, Heading: components.Vec2{X: 1}, CarryingFood: true}
	if res := s.SteerAnt(&carrying, &fs, world, rng); res.Explored {
		t.Error("carrying ant should follow the nest field")
	}
}

func TestSteerWrapsAcrossEdges(t *testing.T) {
	fs, err := NewFields(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	p := defaultSteerParams()
	p.WanderOffset = 0
	p.ExploreAngle = 0
	s := NewSteerer(p)
	rng := rand.New(rand.NewPCG(9, 9))

	res := s.Steer(components.Vec2{X: 0.5, Y: 5}, components.Vec2{X: -1}, fs[components.CategoryFood], World{W: 10, H: 10}, rng)
	if math.Abs(float64(res.Pos.X)-9.5) > 1e-4 || math.Abs(float64(res.Pos.Y)-5) > 1e-4 {
		t.Errorf("expected wrap to (9.5, 5), got %+v", res.Pos)
	}
}

func TestSteerSameSeedSameResult(t *testing.T) {
	fs, err := NewFields(30, 30)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSteerer(defaultSteerParams())
	world := World{W: 30, H: 30}

	run := func() components.Ant {
		rng := rand.New(rand.NewPCG(42, 42))
		a := components.Ant{Pos: components.Vec2{X: 15, Y: 15}, Heading: components.Vec2{Y: 1}}
		for i := 0; i < 100; i++ {
			s.SteerAnt(&a, &fs, world, rng)
		}
		return a
	}

	if a, b := run(), run(); a != b {
		t.Errorf("expected identical runs, got %+v and %+v", a, b)
	}
}

func TestSteerZeroHeadingIsRepaired(t *testing.T) {
	fs, err := NewFields(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	s := NewSteerer(defaultSteerParams())
	rng := rand.New(rand.NewPCG(1, 1))
	res := s.Steer(components.Vec2{X: 5, Y: 5}, components.Vec2{}, fs[components.CategoryFood], World{W: 10, H: 10}, rng)
	if l := res.Heading.Len(); math.Abs(float64(l)-1) > 1e-4 {
		t.Errorf("expected unit heading from zero input, got length %f", l)
	}
}
