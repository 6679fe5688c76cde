// Package telemetry provides colony statistics, bookmarking, snapshots and renderer frames.
package telemetry

// Collector accumulates colony events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	pickups        int
	deliveries     int
	respawns       int
	explored       int
	followed       int
	completedLives int
	lifeDeliveries int

	totalDeliveries int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordPickups records ants that picked up food this tick.
func (c *Collector) RecordPickups(n int) {
	c.pickups += n
}

// RecordDeliveries records ants that dropped food at the nest this tick.
func (c *Collector) RecordDeliveries(n int) {
	c.deliveries += n
	c.totalDeliveries += n
}

// RecordRespawns records ants whose lifetime ran out this tick.
func (c *Collector) RecordRespawns(n int) {
	c.respawns += n
}

// RecordSteering records how many ants wandered and how many followed a trail.
func (c *Collector) RecordSteering(explored, followed int) {
	c.explored += explored
	c.followed += followed
}

// RecordCompletedLife records a finished ant life.
func (c *Collector) RecordCompletedLife(rec LifeRecord) {
	c.completedLives++
	c.lifeDeliveries += rec.Deliveries
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// FieldSample holds one pheromone field's state at window end.
type FieldSample struct {
	Total    float64
	Coverage float64
	P50      float64
	P90      float64
}

// ColonySample holds the colony state sampled at window end.
type ColonySample struct {
	Ants      int
	Carrying  int
	Lifetimes []float64 // remaining lifetime per ant
	Nest      FieldSample
	Food      FieldSample
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, s ColonySample) WindowStats {
	var followRate, perAnt, perLife float64
	if steered := c.explored + c.followed; steered > 0 {
		followRate = float64(c.followed) / float64(steered)
	}
	if s.Ants > 0 {
		perAnt = float64(c.deliveries) / float64(s.Ants)
	}
	if c.completedLives > 0 {
		perLife = float64(c.lifeDeliveries) / float64(c.completedLives)
	}

	lifeMean, lifeP10, _, lifeP90 := ComputeDistStats(s.Lifetimes)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Ants:     s.Ants,
		Carrying: s.Carrying,

		Pickups:          c.pickups,
		Deliveries:       c.deliveries,
		TotalDeliveries:  c.totalDeliveries,
		Respawns:         c.respawns,
		DeliveriesPerAnt: perAnt,

		Explored:   c.explored,
		Followed:   c.followed,
		FollowRate: followRate,

		CompletedLives:    c.completedLives,
		DeliveriesPerLife: perLife,

		LifetimeMean: lifeMean,
		LifetimeP10:  lifeP10,
		LifetimeP90:  lifeP90,

		NestTotal:    s.Nest.Total,
		NestCoverage: s.Nest.Coverage,
		NestP50:      s.Nest.P50,
		NestP90:      s.Nest.P90,

		FoodTotal:    s.Food.Total,
		FoodCoverage: s.Food.Coverage,
		FoodP50:      s.Food.P50,
		FoodP90:      s.Food.P90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.pickups = 0
	c.deliveries = 0
	c.respawns = 0
	c.explored = 0
	c.followed = 0
	c.completedLives = 0
	c.lifeDeliveries = 0

	return stats
}

// TotalDeliveries returns the deliveries recorded since the collector was created.
func (c *Collector) TotalDeliveries() int {
	return c.totalDeliveries
}
