package notify

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
)

// subscriber is a registered event consumer.
type subscriber struct {
	ID        string
	EventChan chan Event
	// Types filters delivery. Empty means "receive all".
	Types map[EventType]bool
}

// Bus fans client events out to subscribers.
type Bus struct {
	subscribers map[string]*subscriber
	events      chan Event
	logger      *slog.Logger
	wg          sync.WaitGroup
	mu          sync.RWMutex

	// Shutdown state - protected by shutdownMu
	shutdownMu sync.RWMutex
	shutdown   bool

	nextID int
}

// NewBus creates an event bus.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[string]*subscriber),
		events:      make(chan Event, 256),
		logger:      logger,
	}
}

// Start begins the dispatch loop.
// This should be called once at startup in a goroutine.
func (b *Bus) Start(ctx context.Context) {
	b.wg.Add(1)
	defer b.wg.Done()

	b.logger.Debug("event bus starting")

	for {
		select {
		case event, ok := <-b.events:
			if !ok {
				// Shutdown closed the queue; the drain goroutine owns
				// whatever was left.
				return
			}
			b.broadcast(event)

		case <-ctx.Done():
			b.logger.Debug("event bus stopping")
			b.closeAllSubscribers()
			return
		}
	}
}

// Shutdown stops accepting new events, drains the queue, and closes
// all subscriber channels.
func (b *Bus) Shutdown(ctx context.Context) error {
	// Mark as shutdown AND close channel atomically while holding lock.
	// This prevents a race with Emit() which holds the read lock during send.
	b.shutdownMu.Lock()
	b.shutdown = true
	close(b.events)
	b.shutdownMu.Unlock()

	done := make(chan struct{})
	go func() {
		for event := range b.events {
			b.broadcast(event)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn("event drain timeout, some events may be lost")
	}

	b.wg.Wait()
	b.closeAllSubscribers()

	b.logger.Debug("event bus shutdown complete")
	return nil
}

// Subscribe registers a consumer for the given event types (all types
// when none are given) and returns its channel plus an unsubscribe
// function. The channel is buffered; a consumer that stops draining
// loses events rather than blocking the dispatch loop.
func (b *Bus) Subscribe(types ...EventType) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &subscriber{
		ID:        "sub_" + strconv.Itoa(b.nextID),
		EventChan: make(chan Event, 32),
	}
	if len(types) > 0 {
		sub.Types = make(map[EventType]bool, len(types))
		for _, t := range types {
			sub.Types[t] = true
		}
	}
	b.subscribers[sub.ID] = sub

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if existing, ok := b.subscribers[sub.ID]; ok {
			delete(b.subscribers, sub.ID)
			close(existing.EventChan)
		}
	}
	return sub.EventChan, unsubscribe
}

// Emit queues an event for broadcast. It never blocks the caller;
// when the queue is full the event is dropped with a warning.
func (b *Bus) Emit(event Event) {
	// Hold the read lock through the entire send so Shutdown cannot
	// close the channel mid-send.
	b.shutdownMu.RLock()
	defer b.shutdownMu.RUnlock()

	if b.shutdown {
		// Expected during shutdown, drop silently.
		return
	}

	select {
	case b.events <- event:
	default:
		b.logger.Warn("event queue full, dropping event",
			slog.String("event_type", string(event.Type)))
	}
}

// broadcast delivers an event to every matching subscriber.
func (b *Bus) broadcast(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		if sub.Types != nil && !sub.Types[event.Type] {
			continue
		}

		// Non-blocking send (drop if the subscriber is slow or stuck).
		select {
		case sub.EventChan <- event:
		default:
			b.logger.Warn("dropped event for slow subscriber",
				slog.String("subscriber_id", sub.ID),
				slog.String("event_type", string(event.Type)))
		}
	}
}

func (b *Bus) closeAllSubscribers() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subscribers {
		close(sub.EventChan)
		delete(b.subscribers, id)
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
