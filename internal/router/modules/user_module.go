package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
)

// UserModule wires profile and user lookup routes behind the gate.
// Protected: GET/PUT/DELETE /api/profile, POST /api/profile/avatar,
// GET /api/users, GET /api/users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	Gate    gin.HandlerFunc
	Limits  Limits
}

func NewUserModule(h *handlers.UserHandler, gate gin.HandlerFunc, limits Limits) *UserModule {
	return &UserModule{Handler: h, Gate: gate, Limits: limits}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(m.Gate, m.Limits.PerPrincipal(120))
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.DELETE("/profile", m.Handler.DeleteProfile)
		auth.POST("/profile/avatar", m.Limits.PerPrincipalAndPath(10), m.Handler.UploadAvatar)
		auth.GET("/users", m.Handler.ListUsers)
		auth.GET("/users/:id", m.Handler.GetUser)
	}
}
