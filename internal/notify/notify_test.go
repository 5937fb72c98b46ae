package notify

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colinwhispers/standbyd/internal/metrics"
)

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	h := NewHub(4, nil, zerolog.Nop())

	a, cancelA := h.Subscribe()
	b, cancelB := h.Subscribe()
	defer cancelA()
	defer cancelB()

	h.Publish(ThemeChanged, "day")

	for _, ch := range []<-chan Event{a, b} {
		select {
		case ev := <-ch:
			assert.Equal(t, ThemeChanged, ev.Kind)
			assert.Equal(t, "day", ev.Payload)
			assert.False(t, ev.Timestamp.IsZero())
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}

func TestHub_PublishWithoutSubscribersIsNoop(t *testing.T) {
	h := NewHub(4, nil, zerolog.Nop())
	h.Publish(ReminderFired, "")
	assert.Zero(t, h.Dropped())
}

func TestHub_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	h := NewHub(1, metrics.New(), zerolog.Nop())

	ch, cancel := h.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		h.Publish(AnalyticsUpdated, "")
		h.Publish(AnalyticsUpdated, "") // buffer full, must not block
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber buffer")
	}

	assert.Equal(t, uint64(1), h.Dropped())
	ev := <-ch
	assert.Equal(t, AnalyticsUpdated, ev.Kind)
}

func TestHub_CancelRemovesSubscriber(t *testing.T) {
	h := NewHub(4, nil, zerolog.Nop())

	ch, cancel := h.Subscribe()
	require.Equal(t, 1, h.Subscribers())

	cancel()
	cancel() // second call is safe

	assert.Zero(t, h.Subscribers())
	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel reaches nobody and drops nothing.
	h.Publish(StandupLogged, "")
	assert.Zero(t, h.Dropped())
}
