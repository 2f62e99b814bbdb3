package redisclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestWithLockRunsAndReleases(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewRedisLocker(client, 5*time.Second)
	id := uuid.New()

	called := false
	err := locker.WithLock(context.Background(), "appointment", id, func(ctx context.Context) error {
		called = true
		assert.True(t, mr.Exists(lockKey("appointment", id)), "lock key should exist inside the critical section")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, mr.Exists(lockKey("appointment", id)), "lock key should be released")
}

func TestWithLockRejectsConcurrentHolder(t *testing.T) {
	_, client := newTestRedis(t)
	locker := NewRedisLocker(client, 5*time.Second)
	id := uuid.New()

	err := locker.WithLock(context.Background(), "appointment", id, func(ctx context.Context) error {
		inner := locker.WithLock(ctx, "appointment", id, func(context.Context) error {
			t.Fatal("second holder must not run")
			return nil
		})
		assert.ErrorIs(t, inner, ErrLockNotAcquired)
		return nil
	})
	require.NoError(t, err)
}

func TestWithLockIsScopedPerEntity(t *testing.T) {
	_, client := newTestRedis(t)
	locker := NewRedisLocker(client, 5*time.Second)

	err := locker.WithLock(context.Background(), "appointment", uuid.New(), func(ctx context.Context) error {
		return locker.WithLock(ctx, "appointment", uuid.New(), func(context.Context) error { return nil })
	})
	require.NoError(t, err)
}

func TestWithLockPropagatesError(t *testing.T) {
	_, client := newTestRedis(t)
	locker := NewRedisLocker(client, 5*time.Second)
	boom := errors.New("boom")

	err := locker.WithLock(context.Background(), "slot", uuid.New(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestReleaseKeepsForeignToken(t *testing.T) {
	mr, client := newTestRedis(t)
	locker := NewRedisLocker(client, 5*time.Second).(*redisLocker)
	id := uuid.New()
	key := lockKey("slot", id)

	require.NoError(t, mr.Set(key, "someone-else"))
	require.NoError(t, locker.release(context.Background(), key, "mine"))
	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRateLimiterMiddleware(t *testing.T) {
	_, client := newTestRedis(t)
	limiter := NewRateLimiter(client, 2, time.Minute, "test")
	handler := limiter.Middleware(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/reviews", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/api/reviews", nil)
	other.RemoteAddr = "198.51.100.1:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimiterForwardedForNeedsTrustedProxy(t *testing.T) {
	_, client := newTestRedis(t)
	newHandler := func(trust bool) http.Handler {
		limiter := NewRateLimiter(client, 1, time.Minute, "fwd"+strconv.FormatBool(trust)).TrustForwardedFor(trust)
		return limiter.Middleware(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
	}
	send := func(h http.Handler, fwd string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/contact", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	direct := newHandler(false)
	assert.Equal(t, http.StatusNoContent, send(direct, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, send(direct, "10.0.0.2"), "spoofed header must not reset the limit")

	proxied := newHandler(true)
	assert.Equal(t, http.StatusNoContent, send(proxied, "10.0.0.1, 172.16.0.1"))
	assert.Equal(t, http.StatusNoContent, send(proxied, "10.0.0.2"))
	assert.Equal(t, http.StatusTooManyRequests, send(proxied, "10.0.0.1"))
}

func TestRateLimiterFailsOpen(t *testing.T) {
	mr, client := newTestRedis(t)
	limiter := NewRateLimiter(client, 1, time.Minute, "test")
	mr.Close()

	handler := limiter.Middleware(logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/contact", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestConnect(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb, err := Connect(context.Background(), Options{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
	_ = rdb.Close()

	addr := mr.Addr()
	mr.Close()
	_, err = Connect(context.Background(), Options{Addr: addr})
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)
}
