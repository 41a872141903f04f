package cache

import (
	"context"
	"time"

	"llmployable/internal/errors"
	"llmployable/internal/types"
)

// Extractor is the part of the analyzer the cache decorates
type Extractor interface {
	Extract(text string) types.RequirementProfile
}

// Recorder receives cache hit/miss events. Implemented by the
// observability layer; a nil Recorder disables recording.
type Recorder interface {
	RecordCacheHit(ctx context.Context)
	RecordCacheMiss(ctx context.Context)
}

// CachedExtractor wraps an Extractor with a Store. Store failures are
// logged and swallowed: a broken cache degrades to recomputation, never
// to an error. A cache hit is behaviorally identical to recomputation.
type CachedExtractor struct {
	inner    Extractor
	store    Store
	ttl      time.Duration
	logger   *errors.Logger
	recorder Recorder
}

// NewCachedExtractor builds the caching decorator. A non-positive ttl
// falls back to DefaultTTL.
func NewCachedExtractor(inner Extractor, store Store, ttl time.Duration, logger *errors.Logger, recorder Recorder) *CachedExtractor {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedExtractor{
		inner:    inner,
		store:    store,
		ttl:      ttl,
		logger:   logger,
		recorder: recorder,
	}
}

// Extract returns the cached profile for text when present, otherwise
// computes it and stores the result
func (c *CachedExtractor) Extract(ctx context.Context, text string) types.RequirementProfile {
	if profile, ok, err := c.store.Get(ctx, text); err != nil {
		c.logger.Warn("cache lookup failed, recomputing analysis", "error", err.Error())
	} else if ok {
		if c.recorder != nil {
			c.recorder.RecordCacheHit(ctx)
		}
		return profile
	}
	if c.recorder != nil {
		c.recorder.RecordCacheMiss(ctx)
	}

	profile := c.inner.Extract(text)

	if err := c.store.Put(ctx, text, profile, c.ttl); err != nil {
		c.logger.Warn("cache store failed, continuing without caching", "error", err.Error())
	}
	return profile
}
