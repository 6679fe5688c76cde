package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstDelivery BookmarkType = "first_delivery"
	BookmarkDeliverySurge BookmarkType = "delivery_surge"
	BookmarkTrailCollapse BookmarkType = "trail_collapse"
)

// Detection thresholds.
const (
	surgeFactor        = 2.0 // window deliveries vs rolling mean
	surgeMinDeliveries = 5
	collapseDrop       = 0.5 // fraction of the peak trail total lost
	collapseMinPeak    = 1.0 // ignore collapses of faint trails
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Tick        int32        `csv:"tick" json:"tick"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the colony.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	seenDelivery  bool
	nestTrailPeak float64 // peak nest-field total since the last collapse
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkFirstDelivery(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkDeliverySurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkTrailCollapse(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if stats.NestTotal > bd.nestTrailPeak {
		bd.nestTrailPeak = stats.NestTotal
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkFirstDelivery(stats WindowStats) *Bookmark {
	if bd.seenDelivery || stats.TotalDeliveries == 0 {
		return nil
	}
	bd.seenDelivery = true
	return &Bookmark{
		Type:        BookmarkFirstDelivery,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("First food delivered to the nest after %.1fs", stats.SimTimeSec),
	}
}

func (bd *BookmarkDetector) checkDeliverySurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Deliveries
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	current := float64(stats.Deliveries)
	if current >= avg*surgeFactor && stats.Deliveries >= surgeMinDeliveries {
		return &Bookmark{
			Type:        BookmarkDeliverySurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d deliveries is %.1fx average (%.1f)", stats.Deliveries, current/avg, avg),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkTrailCollapse(stats WindowStats) *Bookmark {
	if bd.nestTrailPeak < collapseMinPeak {
		return nil
	}

	drop := 1.0 - stats.NestTotal/bd.nestTrailPeak
	if drop > collapseDrop {
		oldPeak := bd.nestTrailPeak
		bd.nestTrailPeak = stats.NestTotal

		return &Bookmark{
			Type:        BookmarkTrailCollapse,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Return trail fell %.0f%% from peak %.1f to %.1f", drop*100, oldPeak, stats.NestTotal),
		}
	}

	return nil
}
