package utils

/**
 * This file contains utility functions to format the keys for Redis
 * (key, value) pairs. It avoids having to call "fmt.Sprintf(...)"
 * with the same format string every time, potentially confusing the key format.
 */

import "fmt"

func FormatGameKey(gameId string) string {
	return fmt.Sprintf("game:%s", gameId)
}

func FormatGameLockKey(gameId string) string {
	return fmt.Sprintf("game:%s:lock", gameId)
}
