package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
)

// AuthModule exposes the public credential endpoints.
// Public: POST /api/register, POST /api/login
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limits  Limits
}

func NewAuthModule(h *handlers.AuthHandler, limits Limits) *AuthModule {
	return &AuthModule{Handler: h, Limits: limits}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/register", m.Limits.PerIPAndPath(5, nil), m.Handler.Register) // 5 req/min per IP
	rg.POST("/login", m.Limits.PerIPAndPath(10, nil), m.Handler.Login)      // 10 req/min per IP
}
