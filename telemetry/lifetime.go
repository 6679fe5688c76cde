package telemetry

// AntLife tracks one ant's current life, from spawn or respawn to expiry.
type AntLife struct {
	BirthTick  int32 `json:"birth_tick"`
	Pickups    int   `json:"pickups"`
	Deliveries int   `json:"deliveries"`
}

// LifeRecord is a finished ant life.
type LifeRecord struct {
	AntID           int     `csv:"ant_id" json:"ant_id"`
	BirthTick       int32   `csv:"birth_tick" json:"birth_tick"`
	SurvivalTimeSec float32 `csv:"survival_time_sec" json:"survival_time_sec"`
	Pickups         int     `csv:"pickups" json:"pickups"`
	Deliveries      int     `csv:"deliveries" json:"deliveries"`
}

// LifetimeTracker manages per-ant life statistics, indexed by ant ID.
type LifetimeTracker struct {
	lives []AntLife
}

// NewLifetimeTracker creates a tracker for n ants born at tick 0.
func NewLifetimeTracker(n int) *LifetimeTracker {
	return &LifetimeTracker{lives: make([]AntLife, n)}
}

// Get returns the current life of ant id, or nil if id is unknown.
func (lt *LifetimeTracker) Get(id int) *AntLife {
	if id < 0 || id >= len(lt.lives) {
		return nil
	}
	return &lt.lives[id]
}

// RecordPickup increments the pickup count of ant id.
func (lt *LifetimeTracker) RecordPickup(id int) {
	if l := lt.Get(id); l != nil {
		l.Pickups++
	}
}

// RecordDelivery increments the delivery count of ant id.
func (lt *LifetimeTracker) RecordDelivery(id int) {
	if l := lt.Get(id); l != nil {
		l.Deliveries++
	}
}

// Finish closes the current life of ant id and starts the next one at currentTick.
func (lt *LifetimeTracker) Finish(id int, currentTick int32, dt float32) LifeRecord {
	l := lt.Get(id)
	if l == nil {
		return LifeRecord{AntID: id}
	}
	rec := LifeRecord{
		AntID:           id,
		BirthTick:       l.BirthTick,
		SurvivalTimeSec: float32(currentTick-l.BirthTick) * dt,
		Pickups:         l.Pickups,
		Deliveries:      l.Deliveries,
	}
	*l = AntLife{BirthTick: currentTick}
	return rec
}

// Count returns the number of tracked ants.
func (lt *LifetimeTracker) Count() int {
	return len(lt.lives)
}
