package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Colony at window end
	Ants     int `csv:"ants"`
	Carrying int `csv:"carrying"`

	// Events during window
	Pickups          int     `csv:"pickups"`
	Deliveries       int     `csv:"deliveries"`
	TotalDeliveries  int     `csv:"total_deliveries"`
	Respawns         int     `csv:"respawns"`
	DeliveriesPerAnt float64 `csv:"deliveries_per_ant"`

	// Steering decisions (ant-ticks)
	Explored   int     `csv:"explored"`
	Followed   int     `csv:"followed"`
	FollowRate float64 `csv:"follow_rate"`

	// Lives that ended during the window
	CompletedLives    int     `csv:"completed_lives"`
	DeliveriesPerLife float64 `csv:"deliveries_per_life"`

	// Remaining lifetime distribution (sampled at window end)
	LifetimeMean float64 `csv:"lifetime_mean"`
	LifetimeP10  float64 `csv:"lifetime_p10"`
	LifetimeP90  float64 `csv:"lifetime_p90"`

	// Pheromone fields (sampled at window end, percentiles over non-zero cells)
	NestTotal    float64 `csv:"nest_total"`
	NestCoverage float64 `csv:"nest_coverage"`
	NestP50      float64 `csv:"nest_p50"`
	NestP90      float64 `csv:"nest_p90"`
	FoodTotal    float64 `csv:"food_total"`
	FoodCoverage float64 `csv:"food_coverage"`
	FoodP50      float64 `csv:"food_p50"`
	FoodP90      float64 `csv:"food_p90"`
}

// ComputeDistStats calculates mean and percentiles from values.
func ComputeDistStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, p10, p50, p90
}

// ComputeIntensityStats returns the median and 90th percentile over the
// non-zero cells of a field. An empty field reports zeros.
func ComputeIntensityStats(cells []float32) (p50, p90 float64) {
	active := make([]float64, 0, len(cells)/16)
	for _, v := range cells {
		if v > 0 {
			active = append(active, float64(v))
		}
	}
	if len(active) == 0 {
		return 0, 0
	}
	sort.Float64s(active)
	return stat.Quantile(0.50, stat.Empirical, active, nil), stat.Quantile(0.90, stat.Empirical, active, nil)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("ants", s.Ants),
		slog.Int("carrying", s.Carrying),
		slog.Int("pickups", s.Pickups),
		slog.Int("deliveries", s.Deliveries),
		slog.Int("total_deliveries", s.TotalDeliveries),
		slog.Int("respawns", s.Respawns),
		slog.Float64("deliveries_per_ant", s.DeliveriesPerAnt),
		slog.Int("explored", s.Explored),
		slog.Int("followed", s.Followed),
		slog.Float64("follow_rate", s.FollowRate),
		slog.Int("completed_lives", s.CompletedLives),
		slog.Float64("deliveries_per_life", s.DeliveriesPerLife),
		slog.Float64("lifetime_mean", s.LifetimeMean),
		slog.Float64("lifetime_p10", s.LifetimeP10),
		slog.Float64("lifetime_p90", s.LifetimeP90),
		slog.Float64("nest_total", s.NestTotal),
		slog.Float64("nest_coverage", s.NestCoverage),
		slog.Float64("nest_p50", s.NestP50),
		slog.Float64("nest_p90", s.NestP90),
		slog.Float64("food_total", s.FoodTotal),
		slog.Float64("food_coverage", s.FoodCoverage),
		slog.Float64("food_p50", s.FoodP50),
		slog.Float64("food_p90", s.FoodP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"ants", s.Ants,
		"carrying", s.Carrying,
		"pickups", s.Pickups,
		"deliveries", s.Deliveries,
		"total_deliveries", s.TotalDeliveries,
		"respawns", s.Respawns,
		"deliveries_per_ant", s.DeliveriesPerAnt,
		"follow_rate", s.FollowRate,
		"completed_lives", s.CompletedLives,
		"deliveries_per_life", s.DeliveriesPerLife,
		"lifetime_mean", s.LifetimeMean,
		"nest_total", s.NestTotal,
		"nest_coverage", s.NestCoverage,
		"nest_p90", s.NestP90,
		"food_total", s.FoodTotal,
		"food_coverage", s.FoodCoverage,
		"food_p90", s.FoodP90,
	)
}
