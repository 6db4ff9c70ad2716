package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"dtportal/logger"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig configures per-client request rate limiting.
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyFunc           func(c *gin.Context) string
	SkipPaths         []string // Paths to skip rate limiting
}

// DefaultRateLimitConfig returns default rate limit config.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 120,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		SkipPaths: []string{"/assets/", "/favicon.ico"},
	}
}

func (config RateLimitConfig) shouldSkip(path string) bool {
	for _, skipPath := range config.SkipPaths {
		if strings.Contains(path, skipPath) {
			return true
		}
	}
	return false
}

type rateWindow struct {
	windowStart time.Time
	count       int
}

// RateLimitMiddleware creates rate limiting middleware backed by an
// in-process counter map with one-minute windows.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	var mu sync.Mutex
	windows := make(map[string]*rateWindow)

	return func(c *gin.Context) {
		if config.shouldSkip(c.Request.URL.Path) {
			c.Next()
			return
		}

		key := config.KeyFunc(c) + ":" + c.Request.URL.Path
		now := time.Now()

		mu.Lock()
		w, ok := windows[key]
		if !ok || now.Sub(w.windowStart) >= time.Minute {
			w = &rateWindow{windowStart: now}
			windows[key] = w
		}
		w.count++
		count := w.count
		reset := w.windowStart.Add(time.Minute)
		mu.Unlock()

		if count > config.RequestsPerMinute {
			logger.Warningf("Rate limit exceeded for %s (count: %d)", key, count)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"msg":     "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.RequestsPerMinute-count))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		c.Next()
	}
}
