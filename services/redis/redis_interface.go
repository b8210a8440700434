package redis

import (
	"Squares/models"
	redis_utils "Squares/services/redis/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const gameSnapshotTTL = 24 * time.Hour

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
	log    *zap.SugaredLogger
}

// NewRedisClient creates a new Redis client instance. Addr is either a
// host:port or a redis:// URL.
func NewRedisClient(Addr string, DB int) (*RedisClient, error) {
	var client *redis.Client
	if Addr == "" || Addr == "localhost:6379" {
		client = redis.NewClient(&redis.Options{
			Addr: "localhost:6379",
			DB:   DB,
		})
	} else {
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %v", err)
		}
		client = redis.NewClient(opt)
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
		log:    zap.NewNop().Sugar(),
	}, nil
}

// WithLogger sets the logger used for cache failures
func (rc *RedisClient) WithLogger(log *zap.SugaredLogger) *RedisClient {
	rc.log = log
	return rc
}

// SaveGame stores a game snapshot
// Key format: "game:{gameId}"
// TTL: 24 hours
func (rc *RedisClient) SaveGame(ctx context.Context, game *models.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("error marshaling game data: %v", err)
	}
	return rc.client.Set(ctx, redis_utils.FormatGameKey(game.ID), data, gameSnapshotTTL).Err()
}

// GetGame retrieves a game snapshot. A missing key returns (nil, nil).
func (rc *RedisClient) GetGame(ctx context.Context, gameID string) (*models.Game, error) {
	data, err := rc.client.Get(ctx, redis_utils.FormatGameKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error getting game snapshot: %v", err)
	}

	var game models.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("error unmarshaling game data: %v", err)
	}
	if game.QuarterScores == nil {
		game.QuarterScores = map[string]string{}
	}
	if game.Winners == nil {
		game.Winners = map[string]string{}
	}
	return &game, nil
}

// DeleteGame removes a game snapshot
func (rc *RedisClient) DeleteGame(ctx context.Context, gameID string) error {
	return rc.client.Del(ctx, redis_utils.FormatGameKey(gameID)).Err()
}

// GameCache adapts the snapshot operations to the engine's read cache.
// Redis being down is never fatal: misses fall back to the store.
type GameCache struct {
	rc *RedisClient
}

func NewGameCache(rc *RedisClient) *GameCache {
	return &GameCache{rc: rc}
}

func (c *GameCache) LoadGame(ctx context.Context, gameID string) (*models.Game, bool) {
	game, err := c.rc.GetGame(ctx, gameID)
	if err != nil {
		c.rc.log.Warnw("game cache read failed", "game_id", gameID, "error", err)
		return nil, false
	}
	return game, game != nil
}

func (c *GameCache) StoreGame(ctx context.Context, game *models.Game) {
	if err := c.rc.SaveGame(ctx, game); err != nil {
		c.rc.log.Warnw("game cache write failed", "game_id", game.ID, "error", err)
	}
}

func (c *GameCache) EvictGame(ctx context.Context, gameID string) {
	if err := c.rc.DeleteGame(ctx, gameID); err != nil {
		c.rc.log.Warnw("game cache evict failed", "game_id", gameID, "error", err)
	}
}
