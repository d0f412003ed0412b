package telemetry

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/JordanJFranklin/Galesong-sub001/internal/event"
)

// Record is a stored bus event.
type Record struct {
	ID        int        `json:"id"`
	Type      event.Kind `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	Metadata  string     `json:"metadata"`
}

type Metadata map[string]interface{}

// Repository stores telemetry events
type Repository interface {
	RecordEvent(eventType event.Kind, at time.Time, metadata Metadata) error
	GetEvents(since time.Time, eventTypes []event.Kind) ([]Record, error)
	Clear() error
}

// MemoryRepository stores events in memory
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Record
	nextID int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		events: make([]Record, 0),
		nextID: 1,
	}
}

func (r *MemoryRepository) RecordEvent(eventType event.Kind, at time.Time, metadata Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	r.events = append(r.events, Record{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: at,
		Metadata:  string(metadataJSON),
	})
	r.nextID++

	return nil
}

func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []event.Kind) ([]Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeFilter := make(map[event.Kind]bool)
	for _, t := range eventTypes {
		typeFilter[t] = true
	}

	result := make([]Record, 0)
	for _, e := range r.events {
		if e.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !typeFilter[e.Type] {
			continue
		}
		result = append(result, e)
	}

	return result, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]Record, 0)
	r.nextID = 1

	return nil
}

// Recorder adapts repo into a bus listener. Storage errors are logged
// by onErr when provided and otherwise dropped.
func Recorder(repo Repository, onErr func(error)) event.Listener {
	return func(e event.Event) {
		md := Metadata{"amount": e.Amount}
		if e.Subject != "" {
			md["subject"] = e.Subject
		}
		if err := repo.RecordEvent(e.Kind, e.At, md); err != nil && onErr != nil {
			onErr(err)
		}
	}
}
