package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, stream <-chan Event) Event {
	t.Helper()
	select {
	case event, ok := <-stream:
		require.True(t, ok, "stream closed")
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestDispatcher_DeliversOnlyToBoardSubscribers(t *testing.T) {
	// Arrange
	d := NewDispatcher()
	boardA, boardB := uuid.New(), uuid.New()
	streamA, cancelA := d.Subscribe(context.Background(), boardA)
	defer cancelA()
	streamB, cancelB := d.Subscribe(context.Background(), boardB)
	defer cancelB()

	// Act
	d.Publish(Event{Type: EventDecksReordered, BoardID: boardA})

	// Assert
	event := receive(t, streamA)
	assert.Equal(t, EventDecksReordered, event.Type)
	assert.False(t, event.Timestamp.IsZero())
	select {
	case <-streamB:
		t.Fatal("board B must not receive board A events")
	default:
	}
}

func TestDispatcher_CancelClosesStream(t *testing.T) {
	d := NewDispatcher()
	boardID := uuid.New()
	var counts []int
	d.OnSubscriberChange(func(total int) { counts = append(counts, total) })

	stream, cancel := d.Subscribe(context.Background(), boardID)
	assert.Equal(t, 1, d.Subscribers(boardID))
	cancel()
	cancel()

	_, ok := <-stream
	assert.False(t, ok)
	assert.Equal(t, 0, d.Subscribers(boardID))
	assert.Equal(t, []int{1, 0}, counts)
}

func TestDispatcher_ContextDoneUnsubscribes(t *testing.T) {
	d := NewDispatcher()
	boardID := uuid.New()
	ctx, cancel := context.WithCancel(context.Background())

	stream, _ := d.Subscribe(ctx, boardID)
	cancel()

	select {
	case _, ok := <-stream:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("stream not closed after context cancel")
	}
}

func TestDispatcher_SlowSubscriberDoesNotBlock(t *testing.T) {
	d := NewDispatcher()
	boardID := uuid.New()
	_, cancel := d.Subscribe(context.Background(), boardID)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < d.bufferSize*4; i++ {
			d.Publish(Event{Type: EventDeckCreated, BoardID: boardID})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestDispatcher_IgnoresIncompleteEvents(t *testing.T) {
	d := NewDispatcher()
	boardID := uuid.New()
	stream, cancel := d.Subscribe(context.Background(), boardID)
	defer cancel()

	d.Publish(Event{BoardID: boardID})
	d.Publish(Event{Type: EventDeckCreated})

	select {
	case <-stream:
		t.Fatal("incomplete event delivered")
	default:
	}
}
