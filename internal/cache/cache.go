// Package cache stores computed requirement profiles keyed by a content
// hash of the job description text. A hit replays the previously computed
// profile verbatim; a miss or any store failure simply means the caller
// recomputes.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"llmployable/internal/types"
)

// DefaultTTL is how long a cached analysis stays valid
const DefaultTTL = 48 * time.Hour

// Store is a key-value store for requirement profiles with TTL expiry.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the cached profile for the given job description text.
	// The second return value reports whether a live entry was found.
	Get(ctx context.Context, text string) (types.RequirementProfile, bool, error)

	// Put stores the profile for the given text, expiring after ttl
	Put(ctx context.Context, text string, profile types.RequirementProfile, ttl time.Duration) error

	// Close releases any resources held by the store
	Close() error
}

// Key derives the cache key for a job description: the SHA-256 hex digest
// of the exact input text. Identical text always maps to the same key.
func Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
