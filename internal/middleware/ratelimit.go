package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/ejurnal-backend/internal/response"
)

// RateLimiter allows each client IP `limit` requests per fixed window.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	swept    time.Time
	now      func() time.Time
}

type visitor struct {
	count   int
	resetAt time.Time
}

// NewRateLimiter creates a RateLimiter (e.g., 100 requests per 15 minutes).
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := rl.allow(c.ClientIP())
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.swept) > rl.window {
		for key, v := range rl.visitors {
			if !now.Before(v.resetAt) {
				delete(rl.visitors, key)
			}
		}
		rl.swept = now
	}

	v, exists := rl.visitors[ip]
	if !exists || !now.Before(v.resetAt) {
		v = &visitor{resetAt: now.Add(rl.window)}
		rl.visitors[ip] = v
	}

	if v.count >= rl.limit {
		return false, v.resetAt.Sub(now)
	}
	v.count++
	return true, 0
}
