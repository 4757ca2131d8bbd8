package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(rdb *redis.Client, max int, allow AllowFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RealIP())
	r.POST("/login", RateLimit(rdb, max, time.Minute, KeyByIPAndPath(), allow, nil), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func hit(r http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BlocksAfterMax(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := newLimitedRouter(rdb, 2, nil)

	assert.Equal(t, http.StatusNoContent, hit(r, "203.0.113.7").Code)
	w := hit(r, "203.0.113.7")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = hit(r, "203.0.113.7")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "RateLimited", statusOf(t, w))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// other clients keep their own window
	assert.Equal(t, http.StatusNoContent, hit(r, "203.0.113.8").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusNoContent, hit(r, "203.0.113.7").Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	r := newLimitedRouter(rdb, 1, nil)
	mr.Close()

	assert.Equal(t, http.StatusNoContent, hit(r, "203.0.113.7").Code)
	assert.Equal(t, http.StatusNoContent, hit(r, "203.0.113.7").Code)
}

func TestRateLimit_AllowBypasses(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := newLimitedRouter(rdb, 1, AllowPrivateIP())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.5").Code)
	}
	assert.Equal(t, http.StatusNoContent, hit(r, "198.51.100.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "198.51.100.1").Code)
}
