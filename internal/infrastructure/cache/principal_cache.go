package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// PrincipalCache keeps verified principals in Redis so the gate can skip the
// database for a short while. Password hashes are never cached.
// Redis errors degrade to cache misses.
type PrincipalCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewPrincipalCache(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *PrincipalCache {
	return &PrincipalCache{rdb: rdb, ttl: ttl, logger: logger}
}

type cachedPrincipal struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Gender       string    `json:"gender,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Nickname     string    `json:"nickname,omitempty"`
	Location     string    `json:"location,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func principalKey(id string) string {
	return "principal:" + id
}

func (c *PrincipalCache) Get(ctx context.Context, id string) (*entity.User, bool) {
	if c == nil || c.rdb == nil || c.ttl <= 0 {
		return nil, false
	}
	var p cachedPrincipal
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, principalKey(id), &p)
	if err != nil {
		c.warn(err, id, "principal cache get failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &entity.User{
		ID:           p.ID,
		Email:        p.Email,
		Name:         p.Name,
		Gender:       p.Gender,
		ProfileImage: p.ProfileImage,
		Bio:          p.Bio,
		Nickname:     p.Nickname,
		Location:     p.Location,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}, true
}

func (c *PrincipalCache) Set(ctx context.Context, u *entity.User) {
	if c == nil || c.rdb == nil || c.ttl <= 0 || u == nil {
		return
	}
	p := cachedPrincipal{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Gender:       u.Gender,
		ProfileImage: u.ProfileImage,
		Bio:          u.Bio,
		Nickname:     u.Nickname,
		Location:     u.Location,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if err := helpers.RedisSetJSON(ctx, c.rdb, principalKey(u.ID), p, c.ttl); err != nil {
		c.warn(err, u.ID, "principal cache set failed")
	}
}

func (c *PrincipalCache) Invalidate(ctx context.Context, id string) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := helpers.RedisDel(ctx, c.rdb, principalKey(id)); err != nil {
		c.warn(err, id, "principal cache invalidate failed")
	}
}

func (c *PrincipalCache) warn(err error, id, msg string) {
	if c.logger != nil {
		c.logger.WithError(err).WithField("user_id", id).Warn(msg)
	}
}
