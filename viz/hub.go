// Package viz serves the colony to external renderers: the latest frame over
// HTTP and a live frame stream over a websocket.
package viz

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/pthm-cable/antfarm/telemetry"
)

// subscriberBuffer is the number of frames queued per websocket client.
// Frames beyond it are dropped for that client.
const subscriberBuffer = 4

type subscriber struct {
	frames chan []byte
}

// Hub keeps the most recent frame and fans new frames out to subscribers.
// It implements game.FrameSink.
type Hub struct {
	mu     sync.RWMutex
	latest []byte
	tick   int32
	subs   map[*subscriber]struct{}

	dropped int
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Publish encodes f once and hands it to every subscriber without blocking.
func (h *Hub) Publish(f *telemetry.Frame) {
	data, err := json.Marshal(f)
	if err != nil {
		slog.Error("failed to encode frame", "tick", f.Tick, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.latest = data
	h.tick = f.Tick
	for s := range h.subs {
		select {
		case s.frames <- data:
		default:
			h.dropped++
		}
	}
}

// Latest returns the most recent encoded frame, or nil before the first Publish.
func (h *Hub) Latest() ([]byte, int32) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.tick
}

// Subscribers returns the number of connected stream clients.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns how many frames were skipped for slow subscribers.
func (h *Hub) Dropped() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

func (h *Hub) subscribe() *subscriber {
	s := &subscriber{frames: make(chan []byte, subscriberBuffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

func (h *Hub) unsubscribe(s *subscriber) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}
