package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)
		defer limiter.Stop()

		for i := 0; i < 3; i++ {
			ok, remaining, err := limiter.Allow(ctx, "client")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, 2-i, remaining)
		}
		ok, _, _ := limiter.Allow(ctx, "client")
		assert.False(t, ok)
	})

	t.Run("separate limits per client", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		defer limiter.Stop()

		ok, _, _ := limiter.Allow(ctx, "a")
		assert.True(t, ok)
		ok, _, _ = limiter.Allow(ctx, "a")
		assert.False(t, ok)
		ok, _, _ = limiter.Allow(ctx, "b")
		assert.True(t, ok)
	})

	t.Run("resets after window", func(t *testing.T) {
		limiter := NewRateLimiter(1, 50*time.Millisecond)
		defer limiter.Stop()

		ok, _, _ := limiter.Allow(ctx, "client")
		assert.True(t, ok)
		ok, _, _ = limiter.Allow(ctx, "client")
		assert.False(t, ok)

		time.Sleep(60 * time.Millisecond)
		ok, _, _ = limiter.Allow(ctx, "client")
		assert.True(t, ok)
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)
		defer limiter.Stop()

		var wg sync.WaitGroup
		var allowed int64
		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _, _ := limiter.Allow(ctx, "shared"); ok {
					atomic.AddInt64(&allowed, 1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int64(100), allowed)
	})
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, int, error) {
	return false, 0, assert.AnError
}
func (failingLimiter) Limit() int { return 1 }

func TestRateLimitMiddleware(t *testing.T) {
	newRouter := func(l Limiter) *gin.Engine {
		router := gin.New()
		router.Use(RateLimit(l))
		router.GET("/api/v1/balances/summary", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return router
	}
	get := func(router *gin.Engine) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/balances/summary", nil)
		req.RemoteAddr = "192.168.1.100:12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("returns 429 with headers when limit exceeded", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)
		defer limiter.Stop()
		router := newRouter(limiter)

		w := get(router)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))

		get(router)
		w = get(router)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")
	})

	t.Run("failing store lets requests through", func(t *testing.T) {
		w := get(newRouter(failingLimiter{}))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestClientKey(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.7:5555"

	assert.Equal(t, "ip:10.0.0.7", ClientKey(c))

	c.Set(JWTUserIDKey, "user-1")
	assert.Equal(t, "user:user-1", ClientKey(c))
	assert.Equal(t, "ip:10.0.0.7", IPKey(c))
}
