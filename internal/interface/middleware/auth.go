package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// TokenVerifier resolves a bearer token to its principal; *application.AuthService satisfies it.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*entity.User, error)
}

const principalGinKey = "principal"

// principalCtxKey is unexported so no other package can collide with it.
type principalCtxKey struct{}

// Auth is the request gate. It requires "Authorization: Bearer <token>",
// verifies the token and attaches the principal to the gin and request contexts.
// Rejections are 401 with status TokenMissing, TokenInvalid or TokenExpired.
func Auth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			countRejection(application.KindTokenMissing)
			RespondError(c, application.ErrTokenMissing)
			return
		}

		u, err := v.VerifyToken(c.Request.Context(), token)
		if err != nil {
			mapped := application.MapError(err)
			countRejection(mapped.Kind)
			RespondError(c, err)
			return
		}

		gateAccepted.Add(1)
		c.Set(principalGinKey, u)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), principalCtxKey{}, u))
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}

// PrincipalFrom returns the principal attached by Auth.
func PrincipalFrom(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(principalGinKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok && u != nil
}

// PrincipalFromContext returns the principal from a request context passed through Auth.
func PrincipalFromContext(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(principalCtxKey{}).(*entity.User)
	return u, ok && u != nil
}

// PrincipalID is the authenticated user's id, or "" outside the gate.
func PrincipalID(c *gin.Context) string {
	if u, ok := PrincipalFrom(c); ok {
		return u.ID
	}
	return ""
}
