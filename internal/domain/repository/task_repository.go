package repository

import (
	"context"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// TaskFilter selects one owner's tasks. Limit <= 0 means no limit.
type TaskFilter struct {
	UserID   string
	Status   entity.TaskStatus
	Priority entity.TaskPriority
	Limit    int
	Offset   int
}

type TaskRepository interface {
	Create(ctx context.Context, t *entity.Task) error
	GetByID(ctx context.Context, id string) (*entity.Task, error)
	// List returns the requested page ordered by newest first, plus the total match count.
	List(ctx context.Context, f TaskFilter) ([]*entity.Task, int64, error)
	Update(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id string) error
}
