package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/clinic-portal-gateway/internal/config"
)

// Redis wraps the go-redis client. The gateway uses it for renewal
// single-flight locks and the short-lived check-status cache, so multiple
// replicas coalesce their backend traffic for the same session.
type Redis struct {
	Client *redis.Client
	logger *zap.Logger
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client, logger: logger}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

// TryLock implements session.Locker via SET NX. Redis errors fail open:
// a broken lock must never stop token renewal.
func (r *Redis) TryLock(ctx context.Context, key string, ttl time.Duration) bool {
	ok, err := r.Client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		r.logger.Warn("redis lock failed", zap.String("key", key), zap.Error(err))
		return true
	}
	return ok
}

// MarkValid implements session.StatusCache.
func (r *Redis) MarkValid(ctx context.Context, key string, ttl time.Duration) {
	if err := r.Client.Set(ctx, key, "1", ttl).Err(); err != nil {
		r.logger.Warn("redis status cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Valid implements session.StatusCache. Redis errors count as a cache miss.
func (r *Redis) Valid(ctx context.Context, key string) bool {
	n, err := r.Client.Exists(ctx, key).Result()
	if err != nil {
		return false
	}
	return n > 0
}
