package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"llmployable/internal/errors"
	"llmployable/internal/types"
)

// RedisStore persists requirement profiles in Redis as JSON values with
// server-side TTL expiry
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds the connection settings for a RedisStore
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisStore connects to Redis and verifies the connection with a ping
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.NewCacheError(errors.ErrCodeCacheUnavailable,
			"failed to connect to redis", err).WithContext("addr", cfg.Addr)
	}

	return &RedisStore{client: client, keyPrefix: cfg.KeyPrefix}, nil
}

func (s *RedisStore) key(text string) string {
	return s.keyPrefix + Key(text)
}

// Get implements Store. A missing key is a miss, not an error.
func (s *RedisStore) Get(ctx context.Context, text string) (types.RequirementProfile, bool, error) {
	var profile types.RequirementProfile

	data, err := s.client.Get(ctx, s.key(text)).Bytes()
	if err == redis.Nil {
		return profile, false, nil
	}
	if err != nil {
		return profile, false, errors.NewCacheError(errors.ErrCodeCacheUnavailable,
			"redis get failed", err)
	}

	if err := json.Unmarshal(data, &profile); err != nil {
		return profile, false, errors.NewCacheError(errors.ErrCodeCacheCorrupt,
			"failed to decode cached profile", err)
	}
	return profile, true, nil
}

// Put implements Store
func (s *RedisStore) Put(ctx context.Context, text string, profile types.RequirementProfile, ttl time.Duration) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return errors.NewCacheError(errors.ErrCodeCacheCorrupt,
			"failed to encode profile", err)
	}

	if err := s.client.Set(ctx, s.key(text), data, ttl).Err(); err != nil {
		return errors.NewCacheError(errors.ErrCodeCacheUnavailable,
			"redis set failed", err)
	}
	return nil
}

// Close implements Store
func (s *RedisStore) Close() error {
	return s.client.Close()
}
