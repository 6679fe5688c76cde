// Package game drives the colony: it owns the ants, the pheromone fields and the
// food index, and advances them one fixed-order tick at a time.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/pthm-cable/antfarm/components"
	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/systems"
	"github.com/pthm-cable/antfarm/telemetry"
)

// FrameSink receives renderer frames. Each frame is freshly allocated and
// owned by the sink after Publish returns.
type FrameSink interface {
	Publish(f *telemetry.Frame)
}

// Options configures a new Game.
type Options struct {
	Seed           int64
	Config         *config.Config // nil uses config.Cfg()
	LogStats       bool
	StatsWindowSec float64 // 0 uses Telemetry.StatsWindow
	SnapshotDir    string
	OutputDir      string
	StepsPerUpdate int // 0 uses Physics.StepsPerUpdate
	StatsCallback  func(telemetry.WindowStats)
	Frames         FrameSink
}

// Game holds the complete colony state.
type Game struct {
	cfg     *config.Config
	rngSeed int64

	world      systems.World
	ants       []components.Ant
	rngs       []*rand.Rand // one stream per ant
	fields     systems.Fields
	pheromones systems.PheromoneTable
	food       *systems.FoodIndex

	steerer    *systems.Steerer
	goalParams systems.GoalParams
	lifeParams systems.LifetimeParams

	// Reused per-tick buffers
	goalEvents    systems.GoalEvents
	respawned     []int
	finishedLives []telemetry.LifeRecord

	parallel *parallelState

	dt             float32 // seconds per Update step
	tick           int32
	stepsPerUpdate int
	frameEvery     int32

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
	hallOfFame       *telemetry.HallOfFame
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	snapshotDir      string
	lastStats        telemetry.WindowStats

	frames FrameSink
}

// NewGameWithOptions creates a colony of Colony.Size ants at the nest.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	// World and fields share one source so grid cells always cover world units.
	world := systems.World{W: float32(cfg.World.Width), H: float32(cfg.World.Height)}
	dt := float32(cfg.Physics.DT)
	fields, err := systems.NewFields(cfg.World.Width, cfg.World.Height)
	if err != nil {
		return nil, fmt.Errorf("creating pheromone fields: %w", err)
	}

	sources, err := systems.PlaceFood(cfg.Food, world, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("placing food: %w", err)
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = cfg.Physics.StepsPerUpdate
	}

	g := &Game{
		cfg:            cfg,
		rngSeed:        opts.Seed,
		world:          world,
		fields:         fields,
		food:           systems.NewFoodIndex(world, sources),
		steerer:        systems.NewSteerer(steerParams(cfg)),
		goalParams:     goalParams(cfg),
		lifeParams:     lifetimeParams(cfg),
		parallel:       newParallelState(cfg.Parallel.Threshold),
		dt:             dt,
		stepsPerUpdate: steps,
		frameEvery:     int32(max(1, cfg.Viz.FrameEvery)),

		collector:        telemetry.NewCollector(statsWindow, dt),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize),
		lifetimeTracker:  telemetry.NewLifetimeTracker(cfg.Colony.Size),
		hallOfFame:       telemetry.NewHallOfFame(cfg.Telemetry.HallOfFameSize),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		frames:           opts.Frames,
	}
	for _, cat := range components.Categories() {
		g.pheromones[cat] = cfg.PheromoneParams(cat)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g.spawnColony(cfg.Colony.Size)

	return g, nil
}

// spawnColony places n ants at the nest with random headings and lifetimes.
func (g *Game) spawnColony(n int) {
	g.ants = make([]components.Ant, n)
	g.rngs = make([]*rand.Rand, n)
	for i := range g.ants {
		g.rngs[i] = antRNG(g.rngSeed, i)
		g.ants[i] = components.Ant{ID: i}
		systems.Respawn(&g.ants[i], g.lifeParams, g.rngs[i])
	}
}

// Update runs StepsPerUpdate ticks of Physics.DT.
func (g *Game) Update() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step(g.dt)
	}
}

// Step advances the colony by one tick of dt seconds.
// Order: goal transitions, steering, lifetime, field update. Steering reads
// the fields as left by the previous tick.
func (g *Game) Step(dt float32) {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseGoals)
	g.updateGoals()

	g.perfCollector.StartPhase(telemetry.PhaseSteering)
	g.updateSteering()

	g.perfCollector.StartPhase(telemetry.PhaseLifetime)
	g.updateLifetime(dt)

	g.perfCollector.StartPhase(telemetry.PhaseFields)
	systems.UpdateFields(&g.fields, g.ants, &g.pheromones)

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	if g.frames != nil && g.tick%g.frameEvery == 0 {
		g.perfCollector.StartPhase(telemetry.PhaseFrame)
		g.frames.Publish(g.Frame(g.cfg.Viz.Downsample))
		g.perfCollector.RecordFrame()
	}

	g.perfCollector.EndTick()
}

// Unload stops the worker pool and closes output files.
func (g *Game) Unload() {
	g.stopParallelWorkers()
	if g.outputManager != nil {
		if err := g.outputManager.WriteHallOfFame(g.hallOfFame); err != nil {
			slog.Error("failed to write hall of fame", "error", err)
		}
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// Ants returns a copy of every ant.
func (g *Game) Ants() []components.Ant {
	out := make([]components.Ant, len(g.ants))
	copy(out, g.ants)
	return out
}

// Field returns the pheromone field for cat. Callers must treat it as read-only.
func (g *Game) Field(cat components.Category) *systems.Field {
	return g.fields.Get(cat)
}

// Food returns the food sources.
func (g *Game) Food() []components.FoodSource {
	return g.food.Sources()
}

// World returns the simulation area.
func (g *Game) World() systems.World {
	return g.world
}

// CarryingCount returns how many ants currently carry food.
func (g *Game) CarryingCount() int {
	n := 0
	for i := range g.ants {
		if g.ants[i].CarryingFood {
			n++
		}
	}
	return n
}

// TotalDeliveries returns the food delivered to the nest since the start.
func (g *Game) TotalDeliveries() int {
	return g.collector.TotalDeliveries()
}

// LastStats returns the most recently flushed window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}

// HallOfFame returns the most productive finished lives so far.
func (g *Game) HallOfFame() *telemetry.HallOfFame {
	return g.hallOfFame
}

// updateGoals flips carrying flags and resets lifetimes of ants that found food.
func (g *Game) updateGoals() {
	ev := &g.goalEvents
	systems.UpdateGoals(g.ants, g.food, g.world, g.goalParams, ev)

	for _, i := range ev.ResetLifetime {
		g.ants[i].Lifetime = systems.DrawLifetime(g.lifeParams, g.rngs[i])
	}
	for _, i := range ev.PickedUp {
		g.lifetimeTracker.RecordPickup(i)
	}
	for _, i := range ev.Delivered {
		g.lifetimeTracker.RecordDelivery(i)
	}

	g.collector.RecordPickups(ev.Pickups)
	g.collector.RecordDeliveries(ev.Deliveries)
}

// updateLifetime ages every ant and closes the lives of those that respawned.
func (g *Game) updateLifetime(dt float32) {
	g.respawned = systems.AgeAnts(g.ants, dt, g.lifeParams, g.antRNG, g.respawned)

	g.finishedLives = g.finishedLives[:0]
	for _, i := range g.respawned {
		rec := g.lifetimeTracker.Finish(i, g.tick, dt)
		g.collector.RecordCompletedLife(rec)
		g.hallOfFame.Consider(rec)
		g.finishedLives = append(g.finishedLives, rec)
	}
	g.collector.RecordRespawns(len(g.respawned))

	if err := g.outputManager.WriteLives(g.finishedLives); err != nil {
		slog.Error("failed to write lives", "error", err)
	}
}

func (g *Game) antRNG(i int) *rand.Rand {
	return g.rngs[i]
}
