package main

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/game"
	"github.com/pthm-cable/antfarm/telemetry"
)

// FitnessEvaluator runs headless colonies and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	// Best run tracking
	mu             sync.Mutex
	bestFitness    float64
	bestHallOfFame *telemetry.HallOfFame
	lastPerAnt     float64 // deliveries per ant from the most recent Evaluate call
	lastQuality    float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
		bestFitness: math.Inf(1),
	}
}

// BestHallOfFame returns the hall of fame from the best evaluation.
func (fe *FitnessEvaluator) BestHallOfFame() *telemetry.HallOfFame {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestHallOfFame
}

// Last returns deliveries per ant and quality from the most recent evaluation.
func (fe *FitnessEvaluator) Last() (perAnt, quality float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastPerAnt, fe.lastQuality
}

// runResult holds the results from a single colony run.
type runResult struct {
	deliveriesPerAnt float64
	windowStats      []telemetry.WindowStats
	hallOfFame       *telemetry.HallOfFame
	err              error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative deliveries per ant, averaged over seeds, with up to a
// 20% bonus for steady delivery across windows.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runColony(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalPerAnt, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedHallOfFame *telemetry.HallOfFame

	for _, r := range results {
		if r.err != nil {
			// Unusable parameters score as badly as possible.
			fe.mu.Lock()
			fe.lastPerAnt, fe.lastQuality = 0, 0
			fe.mu.Unlock()
			return math.Inf(1)
		}
		quality := computeQuality(r.windowStats)
		fitness := computeFitness(r.deliveriesPerAnt, quality)
		totalFitness += fitness
		totalPerAnt += r.deliveriesPerAnt
		totalQuality += quality
		if fitness < bestSeedFitness {
			bestSeedFitness = fitness
			bestSeedHallOfFame = r.hallOfFame
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestHallOfFame = bestSeedHallOfFame
	}
	fe.lastPerAnt = totalPerAnt / n
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runColony executes a single headless run for maxTicks.
func (fe *FitnessEvaluator) runColony(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	if err := cfg.Validate(); err != nil {
		result.err = fmt.Errorf("invalid parameters: %w", err)
		return result
	}

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Config:         cfg,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.err = err
		return result
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.Update()
	}

	if n := len(g.Ants()); n > 0 {
		result.deliveriesPerAnt = float64(g.TotalDeliveries()) / float64(n)
	}
	result.hallOfFame = g.HallOfFame()
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
func computeFitness(deliveriesPerAnt, quality float64) float64 {
	return -(deliveriesPerAnt * (1.0 + 0.2*quality))
}

// qualityWarmupWindows are skipped while the first trails form.
const qualityWarmupWindows = 2

// computeQuality scores delivery steadiness in [0, 1]: the fraction of windows
// with deliveries, scaled down by the coefficient of variation of per-window
// deliveries.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	deliveries := make([]float64, len(valid))
	active := 0
	for i, w := range valid {
		deliveries[i] = float64(w.Deliveries)
		if w.Deliveries > 0 {
			active++
		}
	}
	if active == 0 {
		return 0
	}

	mean, std := stat.MeanStdDev(deliveries, nil)
	steadiness := 1.0
	if mean > 0 && len(deliveries) >= 2 {
		cv := std / mean
		steadiness = math.Exp(-cv * cv)
	}

	return clamp01(float64(active) / float64(len(valid)) * steadiness)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
