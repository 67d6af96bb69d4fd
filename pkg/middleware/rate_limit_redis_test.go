package middleware

import (
	"net/http"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/folio/folio/backend/api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimitMiddleware_Basic(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	r := gin.New()
	r.POST("/r", RedisRateLimitMiddleware(client, "quote", 1, 0, 10*time.Second), func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, hit(r, "/r", "10.0.0.9"))
	}
	require.Equal(t, http.StatusTooManyRequests, hit(r, "/r", "10.0.0.9"))

	// the bucket key expires with the window
	m.FastForward(12 * time.Second)
	keys := m.Keys()
	require.Empty(t, keys)
}

func TestRateLimit_UsesRedisWhenConfigured(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})

	cfg := config.RateLimitConfig{Enabled: true, RPS: 1, Burst: 0, UseRedis: true, WindowSeconds: 60}
	r := gin.New()
	r.POST("/login", RateLimit(cfg, client, "login"), func(c *gin.Context) { c.Status(200) })

	require.Equal(t, http.StatusOK, hit(r, "/login", "10.0.0.3"))
	require.Len(t, m.Keys(), 1)
}
