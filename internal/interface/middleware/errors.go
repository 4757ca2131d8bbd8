package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

// RespondError aborts the request with the envelope for err.
func RespondError(c *gin.Context, err error) {
	m := application.MapError(err)
	response.Error(c, m.Code, m.Kind, m.Message, m.Details)
}
