package application

import (
	"context"
	"io"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
)

// Notifier publishes email jobs; helpers.RabbitPublisher satisfies it.
type Notifier interface {
	PublishJSON(ctx context.Context, body any) error
}

// AvatarStorage stores an object and returns its public URL; helpers.GCSUploader satisfies it.
type AvatarStorage interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// PrincipalCache keeps recently verified principals for a short TTL.
type PrincipalCache interface {
	Get(ctx context.Context, id string) (*entity.User, bool)
	Set(ctx context.Context, u *entity.User)
	Invalidate(ctx context.Context, id string)
}

// TaskIndex is the full-text index over tasks.
type TaskIndex interface {
	Index(ctx context.Context, t *entity.Task) error
	Delete(ctx context.Context, id string) error
	// Search returns ids of userID's tasks matching q, best match first.
	Search(ctx context.Context, userID, q string, size int) ([]string, error)
}
