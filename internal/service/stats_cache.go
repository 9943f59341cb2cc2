package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campusops/issue-service/internal/domain"
)

const statsKeyPrefix = "dashboard:stats:"

// statsCacheKeys enumerates every key the cache may hold, so invalidation
// does not need a scan.
var statsCacheKeys = []string{
	statsKeyPrefix + "admin",
	statsKeyPrefix + "global",
	statsKeyPrefix + "dept:" + string(domain.DepartmentIT),
	statsKeyPrefix + "dept:" + string(domain.DepartmentMaintenance),
	statsKeyPrefix + "dept:" + string(domain.DepartmentAdmin),
	statsKeyPrefix + "dept:" + string(domain.DepartmentFacilities),
	statsKeyPrefix + "dept:" + string(domain.DepartmentAcademic),
}

// StatsCache keeps short-lived dashboard snapshots in redis. A nil cache is
// valid and disables caching. Cache failures are logged and treated as
// misses; stats are always recomputable from the store.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsCache builds the cache.
func NewStatsCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *StatsCache {
	return &StatsCache{client: client, ttl: ttl, logger: logger}
}

func statsCacheKey(role domain.Role, scoped *domain.Department) string {
	if role == domain.RoleAdmin {
		return statsKeyPrefix + "admin"
	}
	if scoped != nil {
		return statsKeyPrefix + "dept:" + string(*scoped)
	}
	return statsKeyPrefix + "global"
}

// Get returns a cached snapshot when present and fresh.
func (c *StatsCache) Get(ctx context.Context, key string) (*DashboardStats, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("stats cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.logger.Warn("stats cache decode failed", zap.Error(err))
		return nil, false
	}
	return &stats, true
}

// Set stores a snapshot under the given key.
func (c *StatsCache) Set(ctx context.Context, key string, stats *DashboardStats) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("stats cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached snapshot after an issue write.
func (c *StatsCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, statsCacheKeys...).Err(); err != nil {
		c.logger.Warn("stats cache invalidation failed", zap.Error(err))
	}
}
