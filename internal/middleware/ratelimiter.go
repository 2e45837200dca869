package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// incrWindow counts a hit and starts the window on the first one. A counter
// left without a TTL gets one on its next hit, so it cannot block forever.
var incrWindow = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
    redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

type RateLimiter struct {
	redisClient *redis.Client
	log         *zap.Logger
}

func NewRateLimiter(client *redis.Client, log *zap.Logger) *RateLimiter {
	return &RateLimiter{redisClient: client, log: log}
}

// Limit allows limit requests per window per caller. Authenticated callers are
// keyed by user id, anonymous ones by IP. If redis is unreachable the request
// goes through.
func (rl *RateLimiter) Limit(keySuffix string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.ClientIP()
		if userID, ok := UserID(c); ok {
			caller = userID.String()
		}

		key := fmt.Sprintf("rate_limit:%s:%s", keySuffix, caller)

		count, err := incrWindow.Run(c, rl.redisClient, []string{key}, window.Milliseconds()).Int64()
		if err != nil {
			rl.log.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if count > int64(limit) {
			ttl, _ := rl.redisClient.TTL(c, key).Result()

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": fmt.Sprintf("%.0f seconds", ttl.Seconds()),
			})
			return
		}
		c.Next()
	}
}
