// Package notify is the in-process notification hub. The scheduler publishes
// state-change events; the embedding shell subscribes to refresh its views.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colinwhispers/standbyd/internal/metrics"
)

// Event kinds published by the scheduler.
const (
	ReminderFired           = "reminder-fired"
	AnalyticsUpdated        = "analytics-updated"
	StandupLogged           = "standup-logged"
	LanguageChanged         = "language-changed"
	ReminderLanguageChanged = "reminder-language-changed"
	ThemeChanged            = "theme-changed"
)

// Event is one published notification. Payload carries the new value for
// settings changes and is empty otherwise.
type Event struct {
	Kind      string    `json:"kind"`
	Payload   string    `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans events out to subscribers. Publishing never blocks: a subscriber
// whose buffer is full misses the event, and the drop is counted.
type Hub struct {
	mu      sync.Mutex
	subs    map[int]chan Event
	nextID  int
	buffer  int
	dropped uint64
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewHub creates a hub whose subscriber channels buffer up to buffer events.
// m may be nil.
func NewHub(buffer int, m *metrics.Metrics, logger zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:    make(map[int]chan Event),
		buffer:  buffer,
		metrics: m,
		logger:  logger.With().Str("component", "notify").Logger(),
	}
}

// Publish delivers the event to every subscriber that has buffer room.
func (h *Hub) Publish(kind, payload string) {
	ev := Event{Kind: kind, Payload: payload, Timestamp: time.Now()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.dropped++
			if h.metrics != nil {
				h.metrics.RecordDroppedEvent()
			}
			h.logger.Debug().
				Str("kind", kind).
				Int("subscriber", id).
				Msg("subscriber buffer full, event dropped")
		}
	}
}

// Subscribe registers a new subscriber. The returned cancel func removes the
// subscription and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.buffer)
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Dropped returns how many events were lost to full subscriber buffers.
func (h *Hub) Dropped() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dropped
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
