package gateway

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"shareit/internal/platform/config"
	"shareit/internal/platform/httpx"
)

// RateLimit applies a per-caller token bucket, keyed by the identity header
// when present and the client address otherwise.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	var limiters sync.Map // map[string]*rate.Limiter

	getLimiter := func(key string) *rate.Limiter {
		if v, ok := limiters.Load(key); ok {
			return v.(*rate.Limiter)
		}
		burst := cfg.Burst
		if burst <= 0 {
			burst = 5
		}
		lim := rate.NewLimiter(rate.Limit(cfg.RPS), burst)
		actual, _ := limiters.LoadOrStore(key, lim)
		return actual.(*rate.Limiter)
	}

	return func(c *gin.Context) {
		if cfg.RPS <= 0 {
			c.Next()
			return
		}
		key := c.GetHeader(httpx.HeaderUserID)
		if key == "" {
			key = c.ClientIP()
		}
		if !getLimiter(key).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
