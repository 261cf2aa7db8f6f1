package eventsource

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	streams map[string][]*Event
	digests map[string][]byte
	order   []*Event // global append order for ReadAll
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		streams: make(map[string][]*Event),
		digests: make(map[string][]byte),
	}
}

// Append writes events to a stream with optimistic concurrency.
func (s *MemoryStore) Append(_ context.Context, streamID string, expectedVersion int, events []*Event) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[streamID]
	current := len(stream) - 1
	if expectedVersion != current {
		return 0, ErrConcurrencyConflict
	}

	digest := s.digests[streamID]
	for i, e := range events {
		e.StreamID = streamID
		e.Version = current + 1 + i
		digest = chainDigest(digest, e)
		stream = append(stream, e)
		s.order = append(s.order, e)
	}
	s.streams[streamID] = stream
	s.digests[streamID] = digest
	return len(stream) - 1, nil
}

// Read returns a stream's events from fromVersion on.
func (s *MemoryStore) Read(_ context.Context, streamID string, fromVersion int) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[streamID]
	if fromVersion < 0 {
		fromVersion = 0
	}
	if fromVersion >= len(stream) {
		return nil, nil
	}
	out := make([]*Event, len(stream)-fromVersion)
	copy(out, stream[fromVersion:])
	return out, nil
}

// ReadAll returns matching events in global append order.
func (s *MemoryStore) ReadAll(_ context.Context, filter EventFilter) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Event
	for _, e := range s.order {
		if filter.matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// StreamVersion returns the stream's current version, -1 if absent.
func (s *MemoryStore) StreamVersion(_ context.Context, streamID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.streams[streamID]) - 1, nil
}

// Digest returns the stream's chained digest.
func (s *MemoryStore) Digest(_ context.Context, streamID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d := s.digests[streamID]
	if d == nil {
		return nil, nil
	}
	out := make([]byte, len(d))
	copy(out, d)
	return out, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
