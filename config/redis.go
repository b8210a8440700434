package config

import (
	"Squares/services/redis"

	"go.uber.org/zap"
)

// ConnectRedis opens the Redis client used for game locks and snapshots
func ConnectRedis(cfg *Config, log *zap.SugaredLogger) (*redis.RedisClient, error) {
	log.Infow("connecting to Redis", "remote", cfg.RedisURL != "")
	redisClient, err := redis.InitRedis(cfg.RedisURL, 0, log.Named("redis"))
	if err != nil {
		return nil, err
	}
	log.Info("Redis connection established")
	return redisClient, nil
}
