package status

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"luuno-orchestrator/internal/common/database"
	"luuno-orchestrator/internal/common/logger"
	"luuno-orchestrator/internal/models"
)

// Checker probes the model backend.
type Checker interface {
	CheckAvailability(ctx context.Context) (*models.Availability, error)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context) (*models.Availability, error)

func (f CheckerFunc) CheckAvailability(ctx context.Context) (*models.Availability, error) {
	return f(ctx)
}

// CachedChecker shares successful probe results between instances through
// Redis. Cache failures fall through to the wrapped checker.
type CachedChecker struct {
	next   Checker
	redis  *database.RedisClient
	key    string
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedChecker(next Checker, client *database.RedisClient, keyPrefix string, ttl time.Duration, log logger.Logger) *CachedChecker {
	return &CachedChecker{
		next:   next,
		redis:  client,
		key:    keyPrefix + ":availability",
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "status-cache"}),
	}
}

func (c *CachedChecker) CheckAvailability(ctx context.Context) (*models.Availability, error) {
	var cached models.Availability
	err := c.redis.GetJSON(ctx, c.key, &cached)
	switch {
	case err == nil:
		if cached.Models == nil {
			cached.Models = []string{}
		}
		return &cached, nil
	case !stderrors.Is(err, redis.Nil):
		c.logger.Warn("status cache read failed", map[string]interface{}{
			"key":   c.key,
			"error": err,
		})
	}

	avail, err := c.next.CheckAvailability(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.redis.SetJSON(ctx, c.key, avail, c.ttl); err != nil {
		c.logger.Warn("status cache write failed", map[string]interface{}{
			"key":   c.key,
			"error": err,
		})
	}
	return avail, nil
}

// Invalidate drops the shared snapshot so the next check probes the backend.
func (c *CachedChecker) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, c.key)
}
