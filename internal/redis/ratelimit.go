package redisclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

// RateLimiter is a fixed-window limiter keyed by client IP. It protects the
// public form endpoints (bookings, reviews, contact, logins).
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	prefix string

	trustForwarded bool
}

var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, prefix string) *RateLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = "rl"
	}
	return &RateLimiter{rdb: rdb, limit: limit, window: window, prefix: prefix}
}

// TrustForwardedFor keys clients by the first X-Forwarded-For entry. Only
// enable it when the server sits behind a proxy that overwrites the header.
func (rl *RateLimiter) TrustForwardedFor(trust bool) *RateLimiter {
	rl.trustForwarded = trust
	return rl
}

// Allow increments the counter for key and reports whether it is still within the limit.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	res, err := fixedWindowScript.Run(ctx, rl.rdb, []string{rl.prefix + ":" + key}, rl.window.Milliseconds()).Result()
	if err != nil {
		return false, err
	}
	var count int64
	switch v := res.(type) {
	case int64:
		count = v
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return false, err
		}
		count = n
	default:
		return false, fmt.Errorf("unexpected redis script result type %T", res)
	}
	return count <= int64(rl.limit), nil
}

// Middleware rejects requests over the limit with 429. Redis failures let the
// request through.
func (rl *RateLimiter) Middleware(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := rl.Allow(r.Context(), rl.clientKey(r))
			if err != nil {
				logger.Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate_limited","details":"too many requests, please retry later"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) clientKey(r *http.Request) string {
	if rl.trustForwarded {
		if fwd := strings.TrimSpace(strings.Split(r.Header.Get("X-Forwarded-For"), ",")[0]); fwd != "" {
			return fwd
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
