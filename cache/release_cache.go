package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"distr/logger"
	"distr/model"

	"github.com/redis/go-redis/v9"
)

// ReleaseCache keeps release projections and hot play counters in Redis.
// A nil client disables caching; every method degrades to a no-op or miss.
type ReleaseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReleaseCache creates a cache over the given client.
func NewReleaseCache(client *redis.Client) *ReleaseCache {
	return &ReleaseCache{
		client: client,
		ttl:    10 * time.Minute,
	}
}

func releaseKey(releaseID int64) string {
	return fmt.Sprintf("release:%d", releaseID)
}

func playCountKey(songID int64) string {
	return fmt.Sprintf("song:plays:%d", songID)
}

// GetRelease returns the cached projection, or nil on miss or any error.
func (c *ReleaseCache) GetRelease(ctx context.Context, releaseID int64) *model.Release {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, releaseKey(releaseID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("release cache get failed", logger.Int64("releaseId", releaseID), logger.ErrorField(err))
		}
		return nil
	}

	var release model.Release
	if err := json.Unmarshal(data, &release); err != nil {
		logger.Warn("release cache entry corrupt", logger.Int64("releaseId", releaseID), logger.ErrorField(err))
		return nil
	}
	return &release
}

// SetRelease stores the projection with the cache TTL.
func (c *ReleaseCache) SetRelease(ctx context.Context, release *model.Release) {
	if c == nil || c.client == nil || release == nil {
		return
	}

	data, err := json.Marshal(release)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, releaseKey(release.ID), data, c.ttl).Err(); err != nil {
		logger.Warn("release cache set failed", logger.Int64("releaseId", release.ID), logger.ErrorField(err))
	}
}

// InvalidateRelease drops the cached projection after a mutation.
func (c *ReleaseCache) InvalidateRelease(ctx context.Context, releaseID int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, releaseKey(releaseID)).Err(); err != nil {
		logger.Warn("release cache invalidate failed", logger.Int64("releaseId", releaseID), logger.ErrorField(err))
	}
}

// IncrementPlayCount bumps the hot counter. The database column is the source
// of truth; this counter only serves dashboards.
func (c *ReleaseCache) IncrementPlayCount(ctx context.Context, songID int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, playCountKey(songID)).Err(); err != nil {
		logger.Warn("play counter increment failed", logger.Int64("songId", songID), logger.ErrorField(err))
	}
}
