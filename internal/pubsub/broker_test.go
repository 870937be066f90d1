package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvOne[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("no event arrived")
		return Event[T]{}
	}
}

func TestBroker_FanOut(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()
	ctx := context.Background()

	a := broker.Subscribe(ctx)
	b := broker.Subscribe(ctx)
	require.Equal(t, 2, broker.SubscriberCount())

	broker.Publish(LogLineEvent, "batch complete")

	for _, ch := range []<-chan Event[string]{a, b} {
		event := recvOne(t, ch)
		assert.Equal(t, LogLineEvent, event.Type)
		assert.Equal(t, "batch complete", event.Payload)
		assert.False(t, event.Timestamp.IsZero())
	}
}

func TestBroker_CancelledSubscriptionIsRemoved(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	require.Equal(t, 1, broker.SubscriberCount())

	cancel()
	require.Eventually(t, func() bool {
		return broker.SubscriberCount() == 0
	}, time.Second, 5*time.Millisecond)

	_, open := <-ch
	assert.False(t, open)
}

func TestBroker_SlowSubscriberDropsEvents(t *testing.T) {
	broker := NewBrokerWithBuffer[int](1)
	defer broker.Close()

	ch := broker.Subscribe(context.Background())

	// The buffer holds one event; the rest must be dropped, not block.
	done := make(chan struct{})
	go func() {
		broker.Publish(RenderedEvent, 1)
		broker.Publish(RenderedEvent, 2)
		broker.Publish(RenderedEvent, 3)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Equal(t, 1, recvOne(t, ch).Payload)
}

func TestBroker_Close(t *testing.T) {
	broker := NewBroker[int]()
	ctx := context.Background()

	a := broker.Subscribe(ctx)
	b := broker.Subscribe(ctx)

	broker.Close()
	broker.Close() // idempotent

	_, openA := <-a
	_, openB := <-b
	assert.False(t, openA)
	assert.False(t, openB)
	assert.Equal(t, 0, broker.SubscriberCount())

	// Closed brokers hand out closed channels and swallow publishes.
	_, open := <-broker.Subscribe(ctx)
	assert.False(t, open)
	broker.Publish(StoreChangedEvent, 42)
}
