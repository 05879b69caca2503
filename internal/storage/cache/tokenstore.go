package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tinywideclouds/go-push-bridge/pkg/dispatch"
)

// CacheClient defines the subset of Redis commands we need.
type CacheClient interface {
	// Get returns ErrCacheMiss when the key does not exist.
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CachedTokenStore adds read-aside caching of the per user device list to any
// dispatch.TokenStore. Writes invalidate the user's entry.
type CachedTokenStore struct {
	realStore dispatch.TokenStore
	cache     CacheClient
	ttl       time.Duration
	logger    *slog.Logger
}

func NewCachedTokenStore(realStore dispatch.TokenStore, cache CacheClient, ttl time.Duration, logger *slog.Logger) *CachedTokenStore {
	return &CachedTokenStore{
		realStore: realStore,
		cache:     cache,
		ttl:       ttl,
		logger:    logger.With("component", "CachedTokenStore"),
	}
}

func (s *CachedTokenStore) Fetch(ctx context.Context, userID string) ([]dispatch.Device, error) {
	key := s.cacheKey(userID)

	var cached []dispatch.Device
	err := s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		return cached, nil
	case errors.Is(err, ErrCacheMiss):
		s.logger.Debug("Token cache miss", "user_id", userID)
	default:
		s.logger.Warn("Token cache read failed, falling back to store", "user_id", userID, "err", err)
	}

	fresh, err := s.realStore.Fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Caching is an optimization; a Redis outage still serves from the store.
	if err := s.cache.Set(ctx, key, fresh, s.ttl); err != nil {
		s.logger.Warn("Failed to populate token cache", "user_id", userID, "err", err)
	}
	return fresh, nil
}

// Get is served by the underlying store; only the fan out list is cached.
func (s *CachedTokenStore) Get(ctx context.Context, userID, deviceID string) (dispatch.Device, error) {
	return s.realStore.Get(ctx, userID, deviceID)
}

func (s *CachedTokenStore) Register(ctx context.Context, userID string, device dispatch.Device) error {
	if err := s.realStore.Register(ctx, userID, device); err != nil {
		return err
	}
	return s.invalidate(ctx, userID)
}

// Unregister clears the cache even though the store write already succeeded,
// so an invalid token stops receiving sends immediately.
func (s *CachedTokenStore) Unregister(ctx context.Context, userID, deviceID string) error {
	if err := s.realStore.Unregister(ctx, userID, deviceID); err != nil {
		return err
	}
	return s.invalidate(ctx, userID)
}

func (s *CachedTokenStore) invalidate(ctx context.Context, userID string) error {
	return s.cache.Del(ctx, s.cacheKey(userID))
}

func (s *CachedTokenStore) cacheKey(userID string) string {
	return fmt.Sprintf("push:tokens:%s", userID)
}
