package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/antfarm/config"
)

// Output file names inside the run directory.
const (
	TelemetryFile  = "telemetry.csv"
	PerfFile       = "perf.csv"
	BookmarksFile  = "bookmarks.csv"
	LivesFile      = "lives.csv"
	ConfigFile     = "config.yaml"
	HallOfFameFile = "hall_of_fame.json"
)

// csvTable appends records of one type to a CSV file, writing the header
// with the first record.
type csvTable[T any] struct {
	f      *os.File
	header bool
}

func createTable[T any](dir, name string) (*csvTable[T], error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvTable[T]{f: f}, nil
}

func (t *csvTable[T]) append(recs ...T) error {
	if len(recs) == 0 {
		return nil
	}
	if t.header {
		return gocsv.MarshalWithoutHeaders(recs, t.f)
	}
	if err := gocsv.Marshal(recs, t.f); err != nil {
		return err
	}
	t.header = true
	return nil
}

func (t *csvTable[T]) close() error {
	if t == nil {
		return nil
	}
	return t.f.Close()
}

// OutputManager writes a colony run to a directory: one CSV per record kind,
// the effective config and the hall of fame. A nil manager discards everything.
type OutputManager struct {
	dir       string
	telemetry *csvTable[WindowStats]
	perf      *csvTable[PerfStatsCSV]
	bookmarks *csvTable[Bookmark]
	lives     *csvTable[LifeRecord]
}

// NewOutputManager creates the run directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	var err error
	if om.telemetry, err = createTable[WindowStats](dir, TelemetryFile); err != nil {
		return nil, err
	}
	if om.perf, err = createTable[PerfStatsCSV](dir, PerfFile); err == nil {
		if om.bookmarks, err = createTable[Bookmark](dir, BookmarksFile); err == nil {
			om.lives, err = createTable[LifeRecord](dir, LivesFile)
		}
	}
	if err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

// WriteConfig saves the configuration the run used.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, ConfigFile))
}

// WriteTelemetry appends one window to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.append(stats); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf appends the perf window ending at windowEnd to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	if err := om.perf.append(stats.ToCSV(windowEnd)); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteBookmark appends b to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := om.bookmarks.append(b); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// WriteLives appends finished ant lives to lives.csv.
func (om *OutputManager) WriteLives(recs []LifeRecord) error {
	if om == nil {
		return nil
	}
	if err := om.lives.append(recs...); err != nil {
		return fmt.Errorf("writing lives: %w", err)
	}
	return nil
}

// WriteHallOfFame saves the most productive ant lives as JSON.
func (om *OutputManager) WriteHallOfFame(hof *HallOfFame) error {
	if om == nil || hof == nil {
		return nil
	}
	data, err := hof.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshaling hall of fame: %w", err)
	}
	if err := os.WriteFile(filepath.Join(om.dir, HallOfFameFile), data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", HallOfFameFile, err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes every output file.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return errors.Join(om.telemetry.close(), om.perf.close(), om.bookmarks.close(), om.lives.close())
}
