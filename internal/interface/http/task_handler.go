package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/pkg/response"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type taskRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description" binding:"max=5000"`
	DueDate     string `json:"due_date" binding:"omitempty,ymd"`
	Status      string `json:"status" binding:"required,taskstatus"`
	Priority    string `json:"priority" binding:"omitempty,taskpriority"`
}

func (r taskRequest) input() application.TaskInput {
	return application.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Status:      r.Status,
		Priority:    r.Priority,
	}
}

// queryInt parses an optional integer query parameter.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		middleware.RespondError(c, application.FieldError(name, "must be a non-negative integer"))
		return 0, false
	}
	return n, true
}

// Create POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	uid, ok := principalID(c)
	if !ok {
		return
	}
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), uid, req.input())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toTaskResponse(t), "task created", nil)
}

// List GET /api/tasks?status=&priority=&page=&per_page=
func (h *TaskHandler) List(c *gin.Context) {
	uid, ok := principalID(c)
	if !ok {
		return
	}
	page, ok := queryInt(c, "page")
	if !ok {
		return
	}
	perPage, ok := queryInt(c, "per_page")
	if !ok {
		return
	}
	res, err := h.Svc.List(c.Request.Context(), uid, application.TaskQuery{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskList(res.Items), "tasks", response.NewPageMeta(res.Total, res.Page, res.PerPage))
}

// Get GET /api/tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	uid, ok := principalID(c)
	if !ok {
		return
	}
	t, err := h.Svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskResponse(t), "task", nil)
}

// Update PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	uid, ok := principalID(c)
	if !ok {
		return
	}
	var req taskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), req.input())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskResponse(t), "task updated", nil)
}

// Delete DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	uid, ok := principalID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search GET /api/tasks/search?q=&size=
func (h *TaskHandler) Search(c *gin.Context) {
	uid, ok := principalID(c)
	if !ok {
		return
	}
	size, ok := queryInt(c, "size")
	if !ok {
		return
	}
	tasks, err := h.Svc.Search(c.Request.Context(), uid, c.Query("q"), size)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toTaskList(tasks), "tasks", nil)
}
