package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

const taskColumns = `id, user_id, title, COALESCE(description, ''), due_date, status,
	COALESCE(priority, ''), created_at, updated_at`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	t := &entity.Task{}
	var status, priority string
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.DueDate, &status,
		&priority, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, notFound(err)
	}
	t.Status = entity.TaskStatus(status)
	t.Priority = entity.TaskPriority(priority)
	return t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (id, user_id, title, description, due_date, status, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, t.ID, t.UserID, t.Title, nullable(t.Description), t.DueDate, string(t.Status), nullable(string(t.Priority)))
	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	return scanTask(r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
}

func (r *TaskRepository) List(ctx context.Context, f repository.TaskFilter) ([]*entity.Task, int64, error) {
	const where = `WHERE user_id = $1 AND ($2::text = '' OR status = $2::text) AND ($3::text = '' OR priority = $3::text)`
	args := []any{f.UserID, string(f.Status), string(f.Priority)}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tasks `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	limit := any(nil) // NULL means no limit
	if f.Limit > 0 {
		limit = f.Limit
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+` FROM tasks `+where+`
		ORDER BY created_at DESC, id
		LIMIT $4 OFFSET $5
	`, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

func (r *TaskRepository) Update(ctx context.Context, t *entity.Task) error {
	t.UpdatedAt = time.Now().UTC()
	res, err := r.pool.Exec(ctx, `
		UPDATE tasks
		SET title = $1, description = $2, due_date = $3, status = $4, priority = $5, updated_at = $6
		WHERE id = $7
	`, t.Title, nullable(t.Description), t.DueDate, string(t.Status), nullable(string(t.Priority)), t.UpdatedAt, t.ID)
	if err != nil {
		if errors.Is(notFound(err), repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update task: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		if errors.Is(notFound(err), repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
