package cache

import (
	"context"
	"sync"
	"time"

	"llmployable/internal/types"
)

// MemoryStore is an in-process Store used when Redis is not configured.
// Expired entries are dropped lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	profile   types.RequirementProfile
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get implements Store
func (s *MemoryStore) Get(_ context.Context, text string) (types.RequirementProfile, bool, error) {
	key := Key(text)

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return types.RequirementProfile{}, false, nil
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return types.RequirementProfile{}, false, nil
	}
	return entry.profile, true, nil
}

// Put implements Store
func (s *MemoryStore) Put(_ context.Context, text string, profile types.RequirementProfile, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[Key(text)] = memoryEntry{
		profile:   profile,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// Close implements Store
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]memoryEntry)
	return nil
}

// Len reports the number of stored entries, expired or not
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
