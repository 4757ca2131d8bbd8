package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

func newCache(t *testing.T, ttl time.Duration) (*PrincipalCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewPrincipalCache(rdb, ttl, helpers.NewDiscardLogger()), mr
}

func TestPrincipalCache_SetGetInvalidate(t *testing.T) {
	c, _ := newCache(t, time.Minute)
	ctx := context.Background()

	_, ok := c.Get(ctx, "u1")
	assert.False(t, ok)

	c.Set(ctx, &entity.User{ID: "u1", Email: "a@x.com", Name: "A", PasswordHash: "secret-hash"})
	got, ok := c.Get(ctx, "u1")
	require.True(t, ok)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Empty(t, got.PasswordHash)

	c.Invalidate(ctx, "u1")
	_, ok = c.Get(ctx, "u1")
	assert.False(t, ok)
}

func TestPrincipalCache_Expires(t *testing.T) {
	c, mr := newCache(t, 30*time.Second)
	ctx := context.Background()

	c.Set(ctx, &entity.User{ID: "u2", Email: "b@x.com"})
	mr.FastForward(31 * time.Second)
	_, ok := c.Get(ctx, "u2")
	assert.False(t, ok)
}

func TestPrincipalCache_RedisDownIsMiss(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	mr.Close()

	c.Set(context.Background(), &entity.User{ID: "u3"})
	_, ok := c.Get(context.Background(), "u3")
	assert.False(t, ok)
}

func TestPrincipalCache_ZeroTTLDisables(t *testing.T) {
	c, _ := newCache(t, 0)
	c.Set(context.Background(), &entity.User{ID: "u4"})
	_, ok := c.Get(context.Background(), "u4")
	assert.False(t, ok)
}
