package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
)

// TaskModule wires the owner-scoped task routes behind the gate.
type TaskModule struct {
	Handler *handlers.TaskHandler
	Gate    gin.HandlerFunc
	Limits  Limits
}

func NewTaskModule(h *handlers.TaskHandler, gate gin.HandlerFunc, limits Limits) *TaskModule {
	return &TaskModule{Handler: h, Gate: gate, Limits: limits}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/tasks")
	tasks.Use(m.Gate, m.Limits.PerPrincipal(120))
	{
		tasks.POST("", m.Handler.Create)
		tasks.GET("", m.Handler.List)
		tasks.GET("/search", m.Handler.Search)
		tasks.GET("/:id", m.Handler.Get)
		tasks.PUT("/:id", m.Handler.Update)
		tasks.DELETE("/:id", m.Handler.Delete)
	}
}
