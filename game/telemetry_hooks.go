package game

import (
	"log/slog"

	"github.com/pthm-cable/antfarm/components"
	"github.com/pthm-cable/antfarm/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sampleColony())
	perfStats := g.perfCollector.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	bookmarks := g.bookmarkDetector.Check(stats)
	for _, bm := range bookmarks {
		if g.logStats {
			bm.LogBookmark()
		}

		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}

		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// sampleColony collects the colony state at window end.
func (g *Game) sampleColony() telemetry.ColonySample {
	s := telemetry.ColonySample{
		Ants:      len(g.ants),
		Lifetimes: make([]float64, 0, len(g.ants)),
		Nest:      g.sampleField(components.CategoryNest),
		Food:      g.sampleField(components.CategoryFood),
	}
	for i := range g.ants {
		if g.ants[i].CarryingFood {
			s.Carrying++
		}
		s.Lifetimes = append(s.Lifetimes, float64(g.ants[i].Lifetime))
	}
	return s
}

// sampleField summarizes one field. Coverage counts cells above the steering
// cutoff, which are the cells an ant would actually follow.
func (g *Game) sampleField(cat components.Category) telemetry.FieldSample {
	f := g.fields.Get(cat)
	p50, p90 := telemetry.ComputeIntensityStats(f.Snapshot())
	return telemetry.FieldSample{
		Total:    float64(f.Total()),
		Coverage: f.Coverage(g.steerer.Params().Cutoff),
		P50:      p50,
		P90:      p90,
	}
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.CreateSnapshot(bookmark)

	path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// CreateSnapshot builds a snapshot from the current state. bookmark may be nil.
func (g *Game) CreateSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		RNGSeed:     g.rngSeed,
		WorldWidth:  g.world.W,
		WorldHeight: g.world.H,
		Tick:        g.tick,
		Ants:        make([]telemetry.AntState, len(g.ants)),
		Food:        telemetry.FoodStates(g.food.Sources()),
		Fields:      g.fieldLayers(1),
		Bookmark:    bookmark,
	}
	for i := range g.ants {
		snapshot.Ants[i] = telemetry.NewAntState(g.ants[i], g.lifetimeTracker.Get(g.ants[i].ID))
	}
	return snapshot
}

// Frame builds a renderer frame with fields max-pooled by downsample.
func (g *Game) Frame(downsample int) *telemetry.Frame {
	return &telemetry.Frame{
		Tick:        g.tick,
		SimTimeSec:  float64(g.tick) * float64(g.dt),
		WorldWidth:  g.world.W,
		WorldHeight: g.world.H,
		Fields:      g.fieldLayers(downsample),
		Ants:        telemetry.AntMarkers(g.ants),
		Food:        telemetry.FoodStates(g.food.Sources()),
	}
}

func (g *Game) fieldLayers(downsample int) []telemetry.FieldLayer {
	layers := make([]telemetry.FieldLayer, 0, components.NumCategories)
	for _, cat := range components.Categories() {
		w, h, cells := g.fields.Get(cat).Downsample(downsample)
		layers = append(layers, telemetry.NewFieldLayer(cat, w, h, g.pheromones[cat].Color, cells))
	}
	return layers
}
