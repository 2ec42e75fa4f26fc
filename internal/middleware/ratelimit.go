package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit returns per-API-key token bucket rate limiting. Each key fills
// at rps tokens per second up to burst; an empty bucket rejects with 429.
// Requests without a key (auth middleware not in the chain) fall back to
// the client IP so unauthenticated surfaces are still bounded.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		subject := c.GetString(contextKeyAPIKey)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}

		mu.Lock()
		limiter, ok := limiters[subject]
		if !ok {
			limiter = rate.NewLimiter(rate.Limit(rps), burst)
			limiters[subject] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
