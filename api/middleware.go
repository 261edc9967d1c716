package api

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RequestLoggingMiddleware emits one structured log line per HTTP request.
func RequestLoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		logger.Log(c.Request.Context(), level, "request completed",
			"client_ip", c.ClientIP(),
			"method", c.Request.Method,
			"path", path,
			"status_code", status,
			"latency_ms", float64(latency)/float64(time.Millisecond),
		)
	}
}

// AuthMiddleware requires "Authorization: Bearer <key>" and compares keys in constant time.
func AuthMiddleware(expectedKey string, logger *slog.Logger) gin.HandlerFunc {
	expected := []byte(expectedKey)
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok {
			logger.Warn("missing or unsupported authorization header", "client_ip", c.ClientIP())
			unauthorized(c)
			return
		}

		provided := []byte(strings.TrimSpace(token))
		if subtle.ConstantTimeCompare(provided, expected) != 1 {
			logger.Warn("invalid api key", "client_ip", c.ClientIP())
			unauthorized(c)
			return
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
}

// RateLimitMiddleware allows limit requests per client IP in each fixed window,
// counted in Redis so several API instances share one budget.
func RateLimitMiddleware(client *redis.Client, limit int64, window time.Duration, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := fmt.Sprintf("portlens:ratelimit:%s", c.ClientIP())

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			logger.Error("rate limiter redis error", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
			return
		}
		if count == 1 {
			if err := client.Expire(ctx, key, window).Err(); err != nil {
				logger.Error("rate limiter expire failed", "key", key, "error", err)
			}
		}

		if count > limit {
			ttl, err := client.TTL(ctx, key).Result()
			if err != nil || ttl < 0 {
				ttl = window
			}
			logger.Warn("rate limit exceeded", "client_ip", c.ClientIP(), "count", count)
			c.Header("Retry-After", strconv.Itoa(int(ttl.Round(time.Second)/time.Second)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
			return
		}

		c.Next()
	}
}

// SecurityHeadersMiddleware adds standard security headers to each response.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := c.Writer.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Content-Security-Policy", "default-src 'self'; img-src 'self' data:; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'")
		c.Next()
	}
}
