package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope returned by every endpoint.
// Status holds a stable kind string for errors (e.g. "TokenMissing") and "OK" on success.
type APIResponse[T any] struct {
	Code      int       `json:"code"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

// PageMeta accompanies paginated lists.
type PageMeta struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

const StatusOK = "OK"

func NewPageMeta(total int64, page, perPage int) PageMeta {
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return PageMeta{Total: total, Page: page, PerPage: perPage, LastPage: last}
}

// Success writes a successful envelope with the given HTTP code.
func Success[T any](ctx *gin.Context, code int, data T, message string, meta any) {
	if code == 0 {
		code = http.StatusOK
	}
	ctx.JSON(code, APIResponse[T]{
		Code:      code,
		Status:    StatusOK,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

// Error aborts the chain and writes an error envelope. kind is the stable status string.
func Error(ctx *gin.Context, code int, kind, message string, details any) {
	if code == 0 {
		code = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(code, APIResponse[any]{
		Code:      code,
		Status:    kind,
		Timestamp: time.Now().UTC(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     details,
	})
}
