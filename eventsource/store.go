package eventsource

import "context"

// EventFilter selects events for ReadAll. Zero fields match everything.
type EventFilter struct {
	StreamID string
	Types    []string
}

func (f EventFilter) matches(e *Event) bool {
	if f.StreamID != "" && e.StreamID != f.StreamID {
		return false
	}
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if e.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Store persists event streams. Versions are zero-based and contiguous per
// stream; an empty stream has version -1.
type Store interface {
	// Append writes events to a stream. expectedVersion must equal the
	// stream's current version (-1 for a new stream) or the append fails
	// with ErrConcurrencyConflict. Returns the stream's new version.
	Append(ctx context.Context, streamID string, expectedVersion int, events []*Event) (int, error)

	// Read returns a stream's events starting at fromVersion, in order.
	Read(ctx context.Context, streamID string, fromVersion int) ([]*Event, error)

	// ReadAll returns events across streams matching the filter, in global
	// append order.
	ReadAll(ctx context.Context, filter EventFilter) ([]*Event, error)

	// StreamVersion returns a stream's current version, -1 if it does not
	// exist.
	StreamVersion(ctx context.Context, streamID string) (int, error)

	// Digest returns the stream's chained MiMC digest, nil for an empty
	// stream.
	Digest(ctx context.Context, streamID string) ([]byte, error)

	// Close releases store resources.
	Close() error
}
