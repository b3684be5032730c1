package telemetry

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventLOCWritten         EventType = "loc_written"
	EventEmployeeHired      EventType = "employee_hired"
	EventProjectCompleted   EventType = "project_completed"
	EventProjectContributed EventType = "project_contributed"
	EventTick               EventType = "tick"
	EventTabChanged         EventType = "tab_changed"
	EventUnlocked           EventType = "unlocked"
	EventActionRejected     EventType = "action_rejected"
)

type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]any

// NewEvent stamps a fresh id and encodes the metadata.
func NewEvent(typ EventType, at time.Time, md EventMetadata) (Event, error) {
	raw, err := json.Marshal(md)
	if err != nil {
		return Event{}, err
	}
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Timestamp: at,
		Metadata:  string(raw),
	}, nil
}
