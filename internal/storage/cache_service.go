package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/volunteer-hub/internal/models"
)

// CacheService provides high-level caching for the public opportunity
// directory. Per-user data is never cached here.
type CacheService struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(redis *RedisCache, ttl time.Duration) *CacheService {
	return &CacheService{
		redis: redis,
		ttl:   ttl,
	}
}

// CacheKeyType represents different types of cache keys
type CacheKeyType string

const (
	// CacheKeyOpportunityList is for filtered opportunity listings
	CacheKeyOpportunityList CacheKeyType = "opps"
	// CacheKeyOpportunity is for single opportunity rows
	CacheKeyOpportunity CacheKeyType = "opp"
)

// GenerateCacheKey generates a cache key for a given type and parameters
// Format: <type>:<param1>:<param2>:...
func (c *CacheService) GenerateCacheKey(keyType CacheKeyType, params ...string) string {
	normalizedParams := make([]string, len(params))
	for i, param := range params {
		normalizedParams[i] = strings.ToLower(param)
	}

	parts := append([]string{string(keyType)}, normalizedParams...)
	return strings.Join(parts, ":")
}

// GenerateListKey generates a cache key for a filtered opportunity listing.
// Format: opps:<hash-of-filter>
func (c *CacheService) GenerateListKey(filter *models.OpportunityFilter) string {
	virtual := "any"
	limit := 0
	cause := ""
	if filter != nil {
		cause = filter.CauseArea
		limit = filter.Limit
		if filter.IsVirtual != nil {
			virtual = strconv.FormatBool(*filter.IsVirtual)
		}
	}
	sum := sha256.Sum256([]byte(cause + "|" + virtual + "|" + strconv.Itoa(limit)))
	return c.GenerateCacheKey(CacheKeyOpportunityList, hex.EncodeToString(sum[:8]))
}

// GenerateOpportunityKey generates a cache key for a single opportunity.
// Format: opp:<id>
func (c *CacheService) GenerateOpportunityKey(id string) string {
	return c.GenerateCacheKey(CacheKeyOpportunity, id)
}

// Set stores a value in cache with the configured TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return c.redis.Set(ctx, key, data, c.ttl)
}

// Get retrieves a value from cache and deserializes it. A miss returns
// (false, nil).
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.redis.Get(ctx, key)
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get from cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached value: %w", err)
	}

	return true, nil
}

// InvalidateOpportunities removes all cached opportunity entries. Called
// after an ingestion run rewrites the directory.
func (c *CacheService) InvalidateOpportunities(ctx context.Context) error {
	for _, pattern := range []string{"opps:*", "opp:*"} {
		keys, err := c.redis.Keys(ctx, pattern)
		if err != nil {
			return fmt.Errorf("failed to find keys matching pattern: %w", err)
		}
		if len(keys) == 0 {
			continue
		}
		if err := c.redis.Del(ctx, keys...); err != nil {
			return fmt.Errorf("failed to invalidate cache keys: %w", err)
		}
	}
	return nil
}
