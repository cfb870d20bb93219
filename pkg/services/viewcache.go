package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/capintel/portfolio-engine/pkg/models"
	"github.com/capintel/portfolio-engine/pkg/repositories"
)

// ViewCache memoizes computed dashboard views per (dataset, filter
// spec). Recomputation is a pure function of those two inputs, so a hit
// is always safe to serve. Cache failures are never surfaced; callers
// fall back to recomputing.
type ViewCache interface {
	Get(ctx context.Context, sig repositories.Signature, spec models.FilterSpec) (*models.DashboardView, bool)
	Put(ctx context.Context, sig repositories.Signature, spec models.FilterSpec, view *models.DashboardView)
}

// NewViewCache creates a Redis-backed ViewCache. A nil client disables
// caching (every Get misses, every Put is dropped).
func NewViewCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) ViewCache {
	if client == nil {
		return noopViewCache{}
	}
	return &redisViewCache{client: client, ttl: ttl, logger: logger}
}

type redisViewCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func (c *redisViewCache) Get(ctx context.Context, sig repositories.Signature, spec models.FilterSpec) (*models.DashboardView, bool) {
	payload, err := c.client.Get(ctx, viewKey(sig, spec)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("View cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var view models.DashboardView
	if err := json.Unmarshal(payload, &view); err != nil {
		c.logger.Debug("View cache entry undecodable", zap.Error(err))
		return nil, false
	}
	return &view, true
}

func (c *redisViewCache) Put(ctx context.Context, sig repositories.Signature, spec models.FilterSpec, view *models.DashboardView) {
	payload, err := json.Marshal(view)
	if err != nil {
		c.logger.Debug("View cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, viewKey(sig, spec), payload, c.ttl).Err(); err != nil {
		c.logger.Debug("View cache write failed", zap.Error(err))
	}
}

// viewKey derives the cache key from the dataset signature and the
// spec's canonical JSON. A replaced workbook changes the signature and
// naturally orphans the old entries until they expire.
func viewKey(sig repositories.Signature, spec models.FilterSpec) string {
	specJSON, _ := json.Marshal(spec)
	sum := sha256.Sum256([]byte(sig.String() + "|" + string(specJSON)))
	return "dashboard:" + hex.EncodeToString(sum[:])
}

type noopViewCache struct{}

func (noopViewCache) Get(context.Context, repositories.Signature, models.FilterSpec) (*models.DashboardView, bool) {
	return nil, false
}

func (noopViewCache) Put(context.Context, repositories.Signature, models.FilterSpec, *models.DashboardView) {
}
