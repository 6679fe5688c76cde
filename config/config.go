// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/antfarm/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Food layout names accepted by FoodConfig.Layout.
const (
	LayoutCenter   = "center"
	LayoutCorners  = "corners"
	LayoutScatter  = "scatter"
	LayoutExplicit = "explicit"
)

// Config holds all simulation configuration parameters.
type Config struct {
	World      WorldConfig      `yaml:"world"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Colony     ColonyConfig     `yaml:"colony"`
	Pheromones PheromonesConfig `yaml:"pheromones"`
	Steering   SteeringConfig   `yaml:"steering"`
	Food       FoodConfig       `yaml:"food"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Viz        VizConfig        `yaml:"viz"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds the simulation area. Pheromone grids use one cell per world unit.
type WorldConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PhysicsConfig holds the fixed tick duration.
type PhysicsConfig struct {
	DT             float64 `yaml:"dt"`
	StepsPerUpdate int     `yaml:"steps_per_update"`
}

// ColonyConfig holds ant population and goal parameters.
type ColonyConfig struct {
	Size                  int     `yaml:"size"`
	MinLifetime           float64 `yaml:"min_lifetime"`
	MaxLifetime           float64 `yaml:"max_lifetime"`
	PickupRadius          float64 `yaml:"pickup_radius"`
	NestRadius            float64 `yaml:"nest_radius"`
	ResetLifetimeOnPickup bool    `yaml:"reset_lifetime_on_pickup"`
}

// PheromoneConfig holds the parameters of one pheromone category.
type PheromoneConfig struct {
	Increment float64 `yaml:"increment"` // added per depositing ant per tick
	Decay     float64 `yaml:"decay"`     // multiplicative factor per tick, in (0,1)
	Color     []int   `yaml:"color"`     // RGB used by external renderers
}

// PheromonesConfig holds one PheromoneConfig per category.
type PheromonesConfig struct {
	Nest PheromoneConfig `yaml:"nest"`
	Food PheromoneConfig `yaml:"food"`
}

// SteeringConfig holds the trail-following policy parameters.
type SteeringConfig struct {
	ScanAngle    float64 `yaml:"scan_angle"`
	ScanStep     float64 `yaml:"scan_step"`
	SenseRadius  int     `yaml:"sense_radius"`
	Cutoff       float64 `yaml:"cutoff"`
	ExploreAngle float64 `yaml:"explore_angle"`
	JitterMin    float64 `yaml:"jitter_min"`
	JitterMax    float64 `yaml:"jitter_max"`
	WanderOffset float64 `yaml:"wander_offset"`
	StepLength   float64 `yaml:"step_length"`
}

// FoodConfig holds food source placement.
type FoodConfig struct {
	Layout     string       `yaml:"layout"`
	Count      int          `yaml:"count"`
	NoiseScale float64      `yaml:"noise_scale"`
	MinSpacing float64      `yaml:"min_spacing"`
	Positions  [][2]float64 `yaml:"positions"`
}

// ParallelConfig holds worker pool parameters.
type ParallelConfig struct {
	Threshold int `yaml:"threshold"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	HallOfFameSize      int     `yaml:"hall_of_fame_size"`
}

// VizConfig holds the external renderer feed parameters.
type VizConfig struct {
	Addr       string `yaml:"addr"`
	FrameEvery int    `yaml:"frame_every"`
	Downsample int    `yaml:"downsample"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32   float32 // Physics.DT as float32
	WorldW float32 // World.Width as float32
	WorldH float32 // World.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Pheromones.Nest.Color = append([]int(nil), c.Pheromones.Nest.Color...)
	out.Pheromones.Food.Color = append([]int(nil), c.Pheromones.Food.Color...)
	out.Food.Positions = append([][2]float64(nil), c.Food.Positions...)
	return &out
}

// Validate reports every setting the simulation cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.World.Width <= 0 || c.World.Height <= 0 {
		errs = append(errs, fmt.Errorf("world size must be positive, got %dx%d", c.World.Width, c.World.Height))
	}
	if c.Physics.DT <= 0 {
		errs = append(errs, fmt.Errorf("physics.dt must be positive, got %g", c.Physics.DT))
	}
	if c.Colony.Size < 0 {
		errs = append(errs, fmt.Errorf("colony.size must not be negative, got %d", c.Colony.Size))
	}
	if c.Colony.MinLifetime <= 0 || c.Colony.MinLifetime > c.Colony.MaxLifetime {
		errs = append(errs, fmt.Errorf("colony lifetime range [%g, %g] is invalid", c.Colony.MinLifetime, c.Colony.MaxLifetime))
	}

	for name, p := range map[string]PheromoneConfig{"nest": c.Pheromones.Nest, "food": c.Pheromones.Food} {
		if p.Decay <= 0 || p.Decay >= 1 {
			errs = append(errs, fmt.Errorf("pheromones.%s.decay must be in (0,1), got %g", name, p.Decay))
		}
		if p.Increment < 0 {
			errs = append(errs, fmt.Errorf("pheromones.%s.increment must not be negative, got %g", name, p.Increment))
		}
		if len(p.Color) != 3 {
			errs = append(errs, fmt.Errorf("pheromones.%s.color needs 3 channels, got %d", name, len(p.Color)))
		}
	}

	s := c.Steering
	if s.ScanStep <= 0 || s.ScanAngle < 0 {
		errs = append(errs, fmt.Errorf("steering scan angle %g / step %g is invalid", s.ScanAngle, s.ScanStep))
	}
	if s.SenseRadius < 1 {
		errs = append(errs, fmt.Errorf("steering.sense_radius must be at least 1, got %d", s.SenseRadius))
	}
	if s.JitterMin < 0 || s.JitterMax >= 1 || s.JitterMin > s.JitterMax {
		errs = append(errs, fmt.Errorf("steering jitter range [%g, %g] must lie in [0,1)", s.JitterMin, s.JitterMax))
	}
	if s.WanderOffset < 0 || s.WanderOffset >= 1 {
		errs = append(errs, fmt.Errorf("steering.wander_offset must be in [0,1), got %g", s.WanderOffset))
	}
	if s.StepLength <= 0 {
		errs = append(errs, fmt.Errorf("steering.step_length must be positive, got %g", s.StepLength))
	}

	switch c.Food.Layout {
	case LayoutCenter, LayoutCorners:
	case LayoutScatter:
		if c.Food.Count < 1 {
			errs = append(errs, fmt.Errorf("food.count must be at least 1 for the scatter layout"))
		}
	case LayoutExplicit:
		if len(c.Food.Positions) == 0 {
			errs = append(errs, fmt.Errorf("food.positions must not be empty for the explicit layout"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown food layout %q", c.Food.Layout))
	}

	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.WorldW = float32(c.World.Width)
	c.Derived.WorldH = float32(c.World.Height)

	if c.Parallel.Threshold < 1 {
		c.Parallel.Threshold = 1
	}
	if c.Physics.StepsPerUpdate < 1 {
		c.Physics.StepsPerUpdate = 1
	}
	if c.Viz.FrameEvery < 1 {
		c.Viz.FrameEvery = 1
	}
	if c.Viz.Downsample < 1 {
		c.Viz.Downsample = 1
	}
}

// PheromoneParams returns the deposit and decay settings for cat.
func (c *Config) PheromoneParams(cat components.Category) components.PheromoneParams {
	p := c.Pheromones.Food
	if cat == components.CategoryNest {
		p = c.Pheromones.Nest
	}
	return components.PheromoneParams{
		Increment: float32(p.Increment),
		Decay:     float32(p.Decay),
		Color:     colorFromInts(p.Color),
	}
}

func colorFromInts(c []int) components.RGB {
	var ch [3]uint8
	for i := 0; i < len(c) && i < 3; i++ {
		ch[i] = uint8(max(0, min(255, c[i])))
	}
	return components.RGB{R: ch[0], G: ch[1], B: ch[2]}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
