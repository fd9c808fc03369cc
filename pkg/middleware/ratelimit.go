package middleware

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"media-review/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit caps requests per client IP and path within a fixed window.
// Redis failures let the request through.
func RateLimit(client *redis.Client, limit int, window time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("rate_limit:%s:%s", r.URL.Path, clientIP(r))
			ctx := r.Context()

			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				logger.Warn("Rate limit check failed", zap.Error(err), zap.String("key", key))
				next.ServeHTTP(w, r)
				return
			}

			if count == 1 {
				if err := client.Expire(ctx, key, window).Err(); err != nil {
					logger.Warn("Failed to set rate limit window", zap.Error(err), zap.String("key", key))
				}
			}

			if count > int64(limit) {
				logger.Warn("Rate limit exceeded",
					zap.String("key", key),
					zap.Int64("count", count))
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				utils.ResponseTooManyRequests(w, "Rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP drops the port from RemoteAddr. chi's RealIP has already applied
// forwarding headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
