package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "kycdid/pkg/domain"
)

const (
	registrationKeyPrefix = "did_registration:"
	DefaultCacheTTL       = 10 * time.Minute
)

// Cache is the slice of the go-redis API the cached store uses.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// CachedStore reads through Redis in front of another Store. Cache failures
// are logged and fall back to the underlying store.
type CachedStore struct {
	next   Store
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCached(next Store, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStore{next: next, cache: cache, ttl: ttl, logger: logger}
}

func registrationKey(did id.DID) string {
	return registrationKeyPrefix + did.String()
}

// Save writes through and invalidates the cached entry.
func (s *CachedStore) Save(ctx context.Context, reg *Registration) error {
	if err := s.next.Save(ctx, reg); err != nil {
		return err
	}
	if err := s.cache.Del(ctx, registrationKey(reg.DID)).Err(); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate registration cache", "did", reg.DID.String(), "error", err)
	}
	return nil
}

func (s *CachedStore) FindByDID(ctx context.Context, did id.DID) (*Registration, error) {
	key := registrationKey(did)
	raw, err := s.cache.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var reg Registration
		if jsonErr := json.Unmarshal(raw, &reg); jsonErr == nil {
			return &reg, nil
		}
		s.logger.WarnContext(ctx, "discarding corrupt registration cache entry", "did", did.String())
	case !errors.Is(err, redis.Nil):
		s.logger.WarnContext(ctx, "registration cache read failed", "did", did.String(), "error", err)
	}

	reg, err := s.next.FindByDID(ctx, did)
	if err != nil {
		return nil, err
	}
	if value, err := json.Marshal(reg); err == nil {
		if err := s.cache.Set(ctx, key, value, s.ttl).Err(); err != nil {
			s.logger.WarnContext(ctx, "registration cache write failed", "did", did.String(), "error", err)
		}
	}
	return reg, nil
}

var _ Store = (*CachedStore)(nil)
