package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/folio/folio/backend/api/internal/config"
	"github.com/folio/folio/backend/api/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimit builds the limiter configured by cfg for one route scope: Redis
// backed when requested and a client is available, in-memory otherwise, and
// a pass-through when limiting is disabled.
func RateLimit(cfg config.RateLimitConfig, client *redis.Client, scope string) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.UseRedis && client != nil {
		return RedisRateLimitMiddleware(client, scope, cfg.RPS, cfg.Burst, time.Duration(cfg.WindowSeconds)*time.Second)
	}
	return RateLimitMiddleware(scope, cfg.RPS, cfg.Burst)
}

// RateLimitMiddleware enforces a token bucket per client within scope.
// rps = allowed events per second, burst = maximum tokens in bucket.
func RateLimitMiddleware(scope string, rps float64, burst int) gin.HandlerFunc {
	var limiters sync.Map // client key -> *rate.Limiter
	return func(c *gin.Context) {
		key := clientKey(c)
		v, _ := limiters.LoadOrStore(key, rate.NewLimiter(rate.Limit(rps), burst))
		if !v.(*rate.Limiter).Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests for " + scope + ", please try again later"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}

// clientKey prefers the authenticated subject and falls back to the client IP.
func clientKey(c *gin.Context) string {
	if v, ok := c.Get("claims"); ok {
		if cm, ok := v.(map[string]interface{}); ok {
			if sub, ok := cm["sub"].(string); ok && sub != "" {
				return "sub:" + sub
			}
		}
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
