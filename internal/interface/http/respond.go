package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

// fail writes the error envelope for err, logging anything that maps to a 5xx.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	if m := application.MapError(err); m.Code >= http.StatusInternalServerError {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
	}
	middleware.RespondError(c, err)
}

// bindJSON decodes the body into dst, writing a 422 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.RespondError(c, application.NewValidationError(err))
		return false
	}
	return true
}

// principalID returns the gate's principal id, answering 401 when the route was not gated.
func principalID(c *gin.Context) (string, bool) {
	uid := middleware.PrincipalID(c)
	if uid == "" {
		middleware.RespondError(c, application.ErrTokenMissing)
		return "", false
	}
	return uid, true
}
