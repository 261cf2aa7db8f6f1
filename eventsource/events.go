// Package eventsource provides the append-only audit event store backing
// the wrapper: typed events grouped into streams, optimistic-concurrency
// appends, and a tamper-evident MiMC digest chained over each stream.
//
// Two stores implement the same contract: an in-memory store and a SQLite
// store for durable audit trails.
package eventsource

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrConcurrencyConflict is returned when an append's expected version
	// does not match the stream's current version.
	ErrConcurrencyConflict = errors.New("eventsource: stream version conflict")
)

// Event is a single audit record. Version is assigned by the store on
// append; Data holds the JSON-encoded payload.
type Event struct {
	ID       uuid.UUID       `json:"id"`
	StreamID string          `json:"streamId"`
	Version  int             `json:"version"`
	Type     string          `json:"type"`
	Data     json.RawMessage `json:"data,omitempty"`
	Time     time.Time       `json:"time"`
}

// NewEvent creates an event with a fresh ID and the payload marshaled to
// JSON. A nil payload yields an event with no data.
func NewEvent(streamID, eventType string, payload any) (*Event, error) {
	e := &Event{
		ID:       uuid.New(),
		StreamID: streamID,
		Type:     eventType,
		Time:     time.Now().UTC(),
	}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		e.Data = data
	}
	return e, nil
}

// Decode unmarshals the event payload into v.
func (e *Event) Decode(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("event %s has no payload", e.ID)
	}
	return json.Unmarshal(e.Data, v)
}
