package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"dashfleet/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware applies per-client token buckets. Limiter failures
// fail open: a broken Redis must never take the dashboard down with it.
func RateLimitMiddleware(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		client := clientID(c)
		class := endpointClass(c)

		allowed, retryAfter, err := limiter.Allow(client, class)
		if err != nil {
			c.Header("X-RateLimit-Error", "Rate limiter unavailable")
			c.Next()
			return
		}

		if !allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())+1))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":      "Rate limit exceeded",
				"message":    fmt.Sprintf("Too many requests. Try again in %v", retryAfter),
				"retryAfter": int(retryAfter.Seconds()) + 1,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// clientID identifies the caller: the authenticated account when present,
// the forwarded or remote IP otherwise.
func clientID(c *gin.Context) string {
	if email, exists := c.Get("email"); exists {
		if e, ok := email.(string); ok && e != "" {
			return "user:" + e
		}
	}

	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		return "anon:" + strings.TrimSpace(ips[0])
	}
	return "anon:" + c.ClientIP()
}

// endpointClass buckets routes into budget classes.
func endpointClass(c *gin.Context) string {
	path := c.Request.URL.Path
	method := c.Request.Method

	switch {
	case strings.HasSuffix(path, "/auth/login"):
		return "auth_login"
	case strings.HasSuffix(path, "/fleet/reload"):
		return "reload"
	case strings.Contains(path, "/viz/") && method == http.MethodPost:
		return "viz_push"
	case strings.HasSuffix(path, "/health"):
		return "health"
	case method == http.MethodGet:
		return "read"
	default:
		return "default"
	}
}
