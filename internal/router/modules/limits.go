package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
)

// Limits builds Redis-backed limiters. A nil Redis client disables limiting.
type Limits struct {
	RDB    *redis.Client
	Logger *logrus.Logger
}

// PerIPAndPath allows max requests per minute per client address and route.
func (l Limits) PerIPAndPath(max int, allow middleware.AllowFunc) gin.HandlerFunc {
	return middleware.RateLimit(l.RDB, max, time.Minute, middleware.KeyByIPAndPath(), allow, l.Logger)
}

// PerPrincipal allows max requests per minute per authenticated user.
func (l Limits) PerPrincipal(max int) gin.HandlerFunc {
	return middleware.RateLimit(l.RDB, max, time.Minute, middleware.KeyByPrincipal(), nil, l.Logger)
}

// PerPrincipalAndPath allows max requests per minute per user on one route,
// counted apart from the user's PerPrincipal budget.
func (l Limits) PerPrincipalAndPath(max int) gin.HandlerFunc {
	return middleware.RateLimit(l.RDB, max, time.Minute, middleware.KeyByPrincipalAndPath(), nil, l.Logger)
}
