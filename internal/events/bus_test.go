package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBus(t *testing.T) EventBus {
	t.Helper()

	bus := NewEventBus(100)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		bus.Stop(ctx)
	})
	return bus
}

func TestPublishReachesSubscriber(t *testing.T) {
	bus := startBus(t)

	var mu sync.Mutex
	var received []Event
	_, err := bus.Subscribe(EventFilter{Types: []EventType{EventEpisodeWatched}}, func(event Event) error {
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.PublishAsync(Event{
		Type:    EventEpisodeWatched,
		Source:  "test",
		Message: "watched",
	}))
	// An event of a different type must not match the filter
	require.NoError(t, bus.PublishAsync(Event{
		Type:    EventSeriesLiked,
		Source:  "test",
		Message: "liked",
	}))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, EventEpisodeWatched, received[0].Type)
	assert.NotEmpty(t, received[0].ID)
	assert.False(t, received[0].Timestamp.IsZero())
}

func TestPublishRequiresTypeAndSource(t *testing.T) {
	bus := startBus(t)

	assert.Error(t, bus.PublishAsync(Event{Source: "test"}))
	assert.Error(t, bus.PublishAsync(Event{Type: EventEpisodeWatched}))
}

func TestGetRecentKeepsBoundedBuffer(t *testing.T) {
	bus := startBus(t)

	for i := 0; i < 150; i++ {
		require.NoError(t, bus.Publish(context.Background(), Event{
			Type:   EventEpisodeWatched,
			Source: "test",
		}))
	}

	require.Eventually(t, func() bool {
		return len(bus.GetRecent(0)) == recentBufferSize
	}, time.Second, 10*time.Millisecond)

	assert.Len(t, bus.GetRecent(10), 10)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := startBus(t)

	var mu sync.Mutex
	count := 0
	sub, err := bus.Subscribe(EventFilter{}, func(event Event) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), Event{Type: EventSeriesLiked, Source: "test"}))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, bus.Unsubscribe(sub.ID))
	require.NoError(t, bus.Publish(context.Background(), Event{Type: EventSeriesLiked, Source: "test"}))

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestPanickingHandlerDoesNotKillBus(t *testing.T) {
	bus := startBus(t)

	_, err := bus.Subscribe(EventFilter{}, func(event Event) error {
		panic("boom")
	})
	require.NoError(t, err)

	var mu sync.Mutex
	delivered := false
	_, err = bus.Subscribe(EventFilter{}, func(event Event) error {
		mu.Lock()
		delivered = true
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), Event{Type: EventSeriesLiked, Source: "test"}))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return delivered
	}, time.Second, 10*time.Millisecond)

	assert.NoError(t, bus.Health())
}
