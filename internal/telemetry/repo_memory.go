package telemetry

import (
	"encoding/json"
	"sync"
	"time"
)

// Repository stores telemetry events
type Repository interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// DefaultMaxEvents bounds the in-memory log of a long-running server.
const DefaultMaxEvents = 10000

// MemoryRepository stores events in memory, dropping the oldest once
// full.
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	nextID int
	max    int
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		events: make([]Event, 0),
		nextID: 1,
		max:    DefaultMaxEvents,
		now:    time.Now,
	}
}

// WithLimit returns r with a different capacity. n <= 0 means unbounded.
func (r *MemoryRepository) WithLimit(n int) *MemoryRepository {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.max = n
	return r
}

func (r *MemoryRepository) RecordEvent(eventType EventType, metadata EventMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	event := Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: r.now(),
		Metadata:  string(metadataJSON),
	}

	r.events = append(r.events, event)
	r.nextID++
	if r.max > 0 && len(r.events) > r.max {
		r.events = append(r.events[:0:0], r.events[len(r.events)-r.max:]...)
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

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]Event, 0)
	r.nextID = 1

	return nil
}
