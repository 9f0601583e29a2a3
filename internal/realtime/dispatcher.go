// Package realtime fans board events out to the open event streams of that
// board.
package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	EventDeckCreated    = "deck-created"
	EventDeckRenamed    = "deck-renamed"
	EventDeckDeleted    = "deck-deleted"
	EventDecksReordered = "decks-reordered"
)

type Event struct {
	Type        string      `json:"type"`
	BoardID     uuid.UUID   `json:"board_id"`
	WorkspaceID uuid.UUID   `json:"workspace_id"`
	DeckIDs     []uuid.UUID `json:"deck_ids,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Dispatcher delivers events to subscribers of a board. A slow subscriber
// misses events rather than blocking the publisher.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers map[uuid.UUID]map[int64]chan Event
	nextID      int64
	bufferSize  int
	onChange    func(total int)
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		subscribers: make(map[uuid.UUID]map[int64]chan Event),
		bufferSize:  16,
	}
}

// OnSubscriberChange registers a callback receiving the total subscriber
// count after every subscribe and unsubscribe.
func (d *Dispatcher) OnSubscriberChange(fn func(total int)) {
	d.mu.Lock()
	d.onChange = fn
	d.mu.Unlock()
}

// Subscribe returns the board's event stream. The stream is closed by the
// returned cancel func or when ctx is done, whichever comes first.
func (d *Dispatcher) Subscribe(ctx context.Context, boardID uuid.UUID) (<-chan Event, func()) {
	stream := make(chan Event, d.bufferSize)

	d.mu.Lock()
	d.nextID++
	id := d.nextID
	if _, ok := d.subscribers[boardID]; !ok {
		d.subscribers[boardID] = make(map[int64]chan Event)
	}
	d.subscribers[boardID][id] = stream
	total, notify := d.totalLocked(), d.onChange
	d.mu.Unlock()
	if notify != nil {
		notify(total)
	}

	var once sync.Once
	cancel := func() {
		once.Do(func() { d.unsubscribe(boardID, id) })
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return stream, cancel
}

func (d *Dispatcher) Publish(event Event) {
	if event.Type == "" || event.BoardID == uuid.Nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, stream := range d.subscribers[event.BoardID] {
		select {
		case stream <- event:
		default:
		}
	}
}

func (d *Dispatcher) Subscribers(boardID uuid.UUID) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers[boardID])
}

func (d *Dispatcher) unsubscribe(boardID uuid.UUID, id int64) {
	d.mu.Lock()
	subscribers := d.subscribers[boardID]
	if stream, ok := subscribers[id]; ok {
		delete(subscribers, id)
		close(stream)
		if len(subscribers) == 0 {
			delete(d.subscribers, boardID)
		}
	}
	total, notify := d.totalLocked(), d.onChange
	d.mu.Unlock()
	if notify != nil {
		notify(total)
	}
}

func (d *Dispatcher) totalLocked() int {
	total := 0
	for _, subs := range d.subscribers {
		total += len(subs)
	}
	return total
}
