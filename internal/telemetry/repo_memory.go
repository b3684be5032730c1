package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Repository stores telemetry events.
type Repository interface {
	RecordEvent(ctx context.Context, e Event) error
	GetEvents(ctx context.Context, since time.Time, eventTypes []EventType) ([]Event, error)
	Clear(ctx context.Context) error
}

// MemoryRepository keeps events in memory for the lifetime of the process.
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{events: make([]Event, 0)}
}

func (r *MemoryRepository) RecordEvent(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.ID == "" {
		return errors.New("event id is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *MemoryRepository) GetEvents(ctx context.Context, since time.Time, eventTypes []EventType) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeFilter := make(map[EventType]bool, len(eventTypes))
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

func (r *MemoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = make([]Event, 0)
	return nil
}
