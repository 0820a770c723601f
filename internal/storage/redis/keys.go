package redis

import (
	"fmt"

	"github.com/mcoot/portfolio/internal/model"
)

// Key prefix for all site data
const keyPrefix = "portfolio"

// sessionKey returns the Redis key for a Session
func sessionKey(id model.SessionID) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, id)
}

// cacheKey returns the Redis key for a cached upstream response
func cacheKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", keyPrefix, key)
}
