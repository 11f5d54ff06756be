package telemetry

import (
	"sync"
	"time"
)

// Repository stores published events.
type Repository interface {
	RecordEvent(e Event) error
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// MemoryRepository keeps a bounded journal of events in memory. Attach it
// to a bus with Bus.Subscribe(repo.Subscriber()).
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	limit  int
}

// NewMemoryRepository keeps at most limit events; 0 means unbounded.
func NewMemoryRepository(limit int) *MemoryRepository {
	return &MemoryRepository{
		events: make([]Event, 0),
		limit:  limit,
	}
}

func (r *MemoryRepository) Subscriber() func(Event) {
	return func(e Event) { _ = r.RecordEvent(e) }
}

func (r *MemoryRepository) RecordEvent(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, e)
	if r.limit > 0 && len(r.events) > r.limit {
		r.events = append([]Event(nil), r.events[len(r.events)-r.limit:]...)
	}
	return nil
}

func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeFilter := make(map[EventType]bool)
	for _, t := range eventTypes {
		typeFilter[t] = true
	}

	result := make([]Event, 0)
	for _, event := range r.events {
		if event.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !typeFilter[event.Type] {
			continue
		}
		result = append(result, event)
	}

	return result, nil
}

// Last returns the most recent event of type t.
func (r *MemoryRepository) Last(t EventType) (Event, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return Event{}, false
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]Event, 0)
	return nil
}
