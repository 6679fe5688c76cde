package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/antfarm/config"
	"github.com/pthm-cable/antfarm/game"
	"github.com/pthm-cable/antfarm/viz"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 0, "Simulation ticks per update call (0 = use config)")
	vizAddr := flag.String("viz-addr", "", "Listen address for the renderer feed (empty = use config)")
	realtime := flag.Bool("realtime", false, "Pace updates to wall-clock time")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	}

	addr := cfg.Viz.Addr
	if *vizAddr != "" {
		addr = *vizAddr
	}
	vizDone := make(chan struct{})
	if addr != "" {
		hub := viz.NewHub()
		opts.Frames = hub
		srv := viz.NewServer(addr, hub, os.Stderr)
		go func() {
			defer close(vizDone)
			if err := srv.ListenAndServe(ctx); err != nil {
				slog.Error("viz feed stopped", "error", err)
				stop()
			}
		}()
	} else {
		close(vizDone)
	}

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to create colony", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	slog.Info("starting simulation",
		"seed", rngSeed,
		"ants", cfg.Colony.Size,
		"world", [2]int{cfg.World.Width, cfg.World.Height},
		"max_ticks", *maxTicks,
		"viz_addr", addr,
	)

	var pace <-chan time.Time
	if *realtime {
		steps := *stepsPerUpdate
		if steps < 1 {
			steps = cfg.Physics.StepsPerUpdate
		}
		ticker := time.NewTicker(time.Duration(cfg.Physics.DT * float64(steps) * float64(time.Second)))
		defer ticker.Stop()
		pace = ticker.C
	}

	run(ctx, g, *maxTicks, pace)

	slog.Info("simulation stopped",
		"tick", g.Tick(),
		"total_deliveries", g.TotalDeliveries(),
	)
	stop()
	<-vizDone
}

// run updates g until ctx is done or maxTicks is reached. A nil pace runs as
// fast as possible.
func run(ctx context.Context, g *game.Game, maxTicks int, pace <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if pace != nil {
			select {
			case <-ctx.Done():
				return
			case <-pace:
			}
		}

		g.Update()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}
	}
}
