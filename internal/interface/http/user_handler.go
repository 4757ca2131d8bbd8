package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Gender   string `json:"gender" binding:"omitempty,gender"`
	Bio      string `json:"bio" binding:"max=1000"`
	Nickname string `json:"nickname" binding:"max=255"`
	Location string `json:"location" binding:"max=255"`
}

// GetProfile GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, ok := middleware.PrincipalFrom(c)
	if !ok {
		middleware.RespondError(c, application.ErrTokenMissing)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "profile", nil)
}

// UpdateProfile PUT /api/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid, ok := principalID(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Gender:   req.Gender,
		Bio:      req.Bio,
		Nickname: req.Nickname,
		Location: req.Location,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "profile updated", nil)
}

// UploadAvatar POST /api/profile/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid, ok := principalID(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, application.MaxAvatarBytes+1<<20)
	fh, err := c.FormFile("avatar")
	if err != nil {
		middleware.RespondError(c, application.FieldError("avatar", "is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), uid, f, fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile_image": url}, "avatar uploaded", nil)
}

// DeleteProfile DELETE /api/profile
func (h *UserHandler) DeleteProfile(c *gin.Context) {
	uid, ok := principalID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteAccount(c.Request.Context(), uid); err != nil {
		fail(c, h.Logger, err)
		return
	}
	if h.Logger != nil {
		h.Logger.WithField("user_id", uid).Info("account deleted")
	}
	c.Status(http.StatusNoContent)
}

// ListUsers GET /api/users?email=
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Svc.ListUsers(c.Request.Context(), c.Query("email"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserList(users), "users", nil)
}

// GetUser GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.Svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserResponse(u), "user", nil)
}
