package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"wotro-backend/internal/config"
	"wotro-backend/internal/logger"
)

// NewRedisClient connects to Redis. It returns nil when no address is
// configured or the server does not answer; callers then degrade to
// in-process revocation and no rate limiting.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, continuing without it", "addr", cfg.Addr, "error", err)
		client.Close()
		return nil
	}
	return client
}
