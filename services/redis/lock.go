package redis

import (
	redis_utils "Squares/services/redis/utils"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockTTL   = 10 * time.Second
	lockRetry = 25 * time.Millisecond
)

// unlockScript deletes the lock only if we still own it
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock takes the per-game lock shared by every instance of the server. It
// retries until the lock is free or ctx is done. The lock expires on its own
// after lockTTL if the holder dies.
func (rc *RedisClient) Lock(ctx context.Context, gameID string) (func(), error) {
	key := redis_utils.FormatGameLockKey(gameID)
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetry)
	defer ticker.Stop()
	for {
		ok, err := rc.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("error acquiring lock %s: %v", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	return func() {
		// Release even if the caller's ctx was cancelled meanwhile
		releaseCtx, cancel := context.WithTimeout(rc.ctx, time.Second)
		defer cancel()
		if err := unlockScript.Run(releaseCtx, rc.client, []string{key}, token).Err(); err != nil {
			rc.log.Warnw("error releasing game lock", "key", key, "error", err)
		}
	}, nil
}
