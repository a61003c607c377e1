package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store with expiry timestamps. Suitable for
// tests and single-node CLI use; production deployments share counters
// through Redis.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get returns the record for key, or nil when absent or expired.
func (s *MemoryStore) Get(_ context.Context, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}

	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, nil
	}

	rec := entry.rec
	return &rec, nil
}

// Set stores a copy of rec with the given TTL.
func (s *MemoryStore) Set(_ context.Context, key string, rec *Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{
		rec:       *rec,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Delete removes the record for key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
