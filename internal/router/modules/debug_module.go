package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
)

// DebugModule publishes expvar counters, including the gate's rejections by kind.
type DebugModule struct {
	Limits Limits
}

func NewDebugModule(limits Limits) *DebugModule { return &DebugModule{Limits: limits} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// rate-limited per IP; private networks (scrapers) bypass
	rl := m.Limits.PerIPAndPath(120, middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
