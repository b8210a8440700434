package redis

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// InitRedis initializes the Redis connection and checks it answers
func InitRedis(Addr string, DB int, log *zap.SugaredLogger) (*RedisClient, error) {
	rc, err := NewRedisClient(Addr, DB)
	if err != nil {
		return nil, err
	}
	rc.WithLogger(log)

	// Test connection
	if err := rc.client.Ping(rc.ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	log.Infow("successfully connected to Redis", "db", rc.client.Options().DB)
	return rc, nil
}

// CloseRedis gracefully closes the Redis connection
func CloseRedis(rc *RedisClient) error {
	if err := rc.client.Close(); err != nil {
		return fmt.Errorf("error closing Redis connection: %v", err)
	}
	return nil
}

// Ping reports whether Redis answers, used by the health check
func (rc *RedisClient) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}
