package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"permitmap/internal/business/models"
)

var (
	detailsCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "permitmap_details_cache_hits_total",
		Help: "Total number of details lookups served from the Redis cache",
	})
	detailsCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "permitmap_details_cache_misses_total",
		Help: "Total number of details lookups that missed the Redis cache",
	})
)

// Redis key prefix for cached details aggregates.
const detailsCacheKeyPrefix = "bizdetails:"

// CachedDetails decorates a Store with a Redis read-through cache for
// FindDetails. The cache is ephemeral (TTL-bound) - it is not a persistence
// layer, and cache failures always degrade to the underlying store.
// ListAll is passed through untouched; the fixture set is already in memory.
type CachedDetails struct {
	Store

	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedDetails wraps next with a Redis details cache. A nil logger is
// replaced with the default slog logger.
func NewCachedDetails(next Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedDetails {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedDetails{Store: next, client: client, ttl: ttl, logger: logger}
}

// FindDetails serves from the cache when possible, falling back to the
// underlying store and populating the cache on miss. Not-found results are
// not cached; a business gaining details must become visible immediately.
func (c *CachedDetails) FindDetails(ctx context.Context, businessID string) (*models.BusinessDetails, error) {
	key := detailsCacheKeyPrefix + businessID

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var details models.BusinessDetails
		if jsonErr := json.Unmarshal(raw, &details); jsonErr == nil {
			detailsCacheHits.Inc()
			return &details, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		_ = c.client.Del(ctx, key).Err()
	case errors.Is(err, redis.Nil):
		detailsCacheMisses.Inc()
	default:
		c.logger.WarnContext(ctx, "details cache read failed, falling back to store",
			"business_id", businessID,
			"error", err.Error(),
		)
	}

	details, err := c.Store.FindDetails(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(details); jsonErr == nil {
		if setErr := c.client.Set(ctx, key, payload, c.ttl).Err(); setErr != nil {
			c.logger.WarnContext(ctx, "details cache write failed",
				"business_id", businessID,
				"error", setErr.Error(),
			)
		}
	}
	return details, nil
}
