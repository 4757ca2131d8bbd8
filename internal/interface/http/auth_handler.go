package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name" binding:"required,max=255"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	u, err := h.Svc.Register(ctx, application.RegisterInput{Email: req.Email, Password: req.Password, Name: req.Name})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	tok, err := h.Svc.IssueToken(ctx, u)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	if h.Logger != nil {
		h.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	response.Success(c, http.StatusCreated, registerResponse{User: toUserResponse(u), tokenResponse: toTokenResponse(tok)}, "registered", nil)
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	tok, err := h.Svc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTokenResponse(tok), "login successful", nil)
}
