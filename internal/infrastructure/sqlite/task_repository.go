package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

const taskColumns = `id, user_id, title, COALESCE(description, ''), due_date, status,
	COALESCE(priority, ''), created_at, updated_at`

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func scanTask(row rowScanner) (*entity.Task, error) {
	t := &entity.Task{}
	var (
		due              sql.NullString
		status, priority string
		created, updated string
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &due, &status,
		&priority, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	t.Status = entity.TaskStatus(status)
	t.Priority = entity.TaskPriority(priority)
	if due.Valid && due.String != "" {
		d, err := time.Parse(entity.DateLayout, due.String)
		if err != nil {
			return nil, fmt.Errorf("task %s due_date: %w", t.ID, err)
		}
		t.DueDate = &d
	}
	var err error
	if t.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("task %s created_at: %w", t.ID, err)
	}
	if t.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("task %s updated_at: %w", t.ID, err)
	}
	return t, nil
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, due_date, status, priority, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.Title, nullable(t.Description), nullable(t.DueDateString()),
		string(t.Status), nullable(string(t.Priority)), formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.CreatedAt, t.UpdatedAt = now, now
	return nil
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	return scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
}

func (r *TaskRepository) List(ctx context.Context, f repository.TaskFilter) ([]*entity.Task, int64, error) {
	const where = `WHERE user_id = ? AND (? = '' OR status = ?) AND (? = '' OR priority = ?)`
	args := []any{f.UserID, string(f.Status), string(f.Status), string(f.Priority), string(f.Priority)}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = -1 // sqlite: negative LIMIT means no limit
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+` FROM tasks `+where+`
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`, append(args, limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

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
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, due_date = ?, status = ?, priority = ?, updated_at = ?
		WHERE id = ?
	`, t.Title, nullable(t.Description), nullable(t.DueDateString()), string(t.Status),
		nullable(string(t.Priority)), formatTime(now), t.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	t.UpdatedAt = now
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
