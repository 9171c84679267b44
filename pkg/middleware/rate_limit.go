package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitMiddleware is a fixed-window limiter keyed by path and caller. Callers are
// identified by user_id when an upstream middleware set one, otherwise by client IP.
// Redis failures let the request through so a cache outage never drops webhooks.
func RateLimitMiddleware(redisClient *redis.Client, limit int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			userID = c.ClientIP()
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.Request.URL.Path, userID)

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("Rate limit check failed, allowing request", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if count == 1 {
			if err := redisClient.Expire(ctx, key, window).Err(); err != nil {
				log.Warn("Failed to set rate limit window", zap.String("key", key), zap.Error(err))
			}
		}

		if count > int64(limit) {
			ensureWindow(c, redisClient, key, window, log)
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// ensureWindow re-arms the expiry of a key left without one, so a caller that
// hit the limit after a failed EXPIRE is not blocked forever.
func ensureWindow(c *gin.Context, redisClient *redis.Client, key string, window time.Duration, log *zap.Logger) {
	ctx := c.Request.Context()
	ttl, err := redisClient.TTL(ctx, key).Result()
	if err != nil || ttl != -1 {
		return
	}
	if err := redisClient.Expire(ctx, key, window).Err(); err != nil {
		log.Warn("Failed to set rate limit window", zap.String("key", key), zap.Error(err))
	}
}
