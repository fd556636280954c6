package middlewares

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sigitdim/fortisapp-sub001/utils"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int
	ips   map[string]*visitor
	mu    sync.Mutex
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		limit: limit,
		burst: burst,
		ips:   make(map[string]*visitor),
	}
}

// NewStrictRateLimiter is meant for login/register: 5 attempts, refilled one
// per 12 seconds.
func NewStrictRateLimiter() gin.HandlerFunc {
	return NewRateLimiter(rate.Every(12*time.Second), 5).RateLimit()
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, exists := rl.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.ips[ip] = v
	}
	v.lastSeen = now

	// buang IP yang sudah lama diam
	if len(rl.ips) > 1024 {
		for k, old := range rl.ips {
			if now.Sub(old.lastSeen) > 10*time.Minute {
				delete(rl.ips, k)
			}
		}
	}
	return v.limiter
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.get(c.ClientIP()).Allow() {
			utils.RespondError(c, http.StatusTooManyRequests, errors.New("terlalu banyak percobaan, silakan tunggu beberapa saat"))
			c.Abort()
			return
		}
		c.Next()
	}
}
