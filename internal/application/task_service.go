package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	mailtpl "github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

const (
	DefaultPerPage = 100
	MaxPerPage     = 100
	maxSearchSize  = 50
)

// TaskService manages tasks. Every operation is scoped to the owner; another
// owner's task behaves as if it did not exist.
type TaskService struct {
	Tasks    repo.TaskRepository
	Users    repo.UserRepository
	Index    TaskIndex // optional
	Notifier Notifier  // optional
	Brand    mailtpl.Brand
	Logger   *logrus.Logger
}

func NewTaskService(tasks repo.TaskRepository, users repo.UserRepository, index TaskIndex, notifier Notifier, brand mailtpl.Brand, logger *logrus.Logger) *TaskService {
	return &TaskService{
		Tasks:    tasks,
		Users:    users,
		Index:    index,
		Notifier: notifier,
		Brand:    brand,
		Logger:   logger,
	}
}

// TaskInput holds the editable fields; update replaces all of them.
type TaskInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
	DueDate     string `json:"due_date" validate:"omitempty,ymd"`
	Status      string `json:"status" validate:"required,taskstatus"`
	Priority    string `json:"priority" validate:"omitempty,taskpriority"`
}

type TaskQuery struct {
	Status   string `json:"status" validate:"omitempty,taskstatus"`
	Priority string `json:"priority" validate:"omitempty,taskpriority"`
	Page     int    `json:"page" validate:"gte=0"`
	PerPage  int    `json:"per_page" validate:"gte=0"`
}

type TaskPage struct {
	Items   []*entity.Task
	Total   int64
	Page    int
	PerPage int
}

func (in *TaskInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	in.Priority = strings.ToLower(strings.TrimSpace(in.Priority))
	in.DueDate = strings.TrimSpace(in.DueDate)
}

func (in TaskInput) apply(t *entity.Task) error {
	t.Title = in.Title
	t.Description = in.Description
	t.Status = entity.TaskStatus(in.Status)
	t.Priority = entity.TaskPriority(in.Priority)
	t.DueDate = nil
	if in.DueDate != "" {
		d, err := time.Parse(entity.DateLayout, in.DueDate)
		if err != nil {
			return FieldError("due_date", "must be a date in YYYY-MM-DD format")
		}
		t.DueDate = &d
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, userID string, in TaskInput) (*entity.Task, error) {
	in.normalize()
	if err := validate(in); err != nil {
		return nil, err
	}
	t := &entity.Task{ID: uuid.NewString(), UserID: userID}
	if err := in.apply(t); err != nil {
		return nil, err
	}
	if err := s.Tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.index(ctx, t)

	if t.Priority == entity.PriorityHigh {
		s.notifyHighPriority(ctx, t)
	}
	return t, nil
}

// Get returns the task if it belongs to userID.
func (s *TaskService) Get(ctx context.Context, userID, id string) (*entity.Task, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	t, err := s.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	if t.UserID != userID {
		return nil, ErrNotFound
	}
	return t, nil
}

// List pages through userID's tasks, newest first. Page defaults to 1 and
// PerPage to DefaultPerPage, capped at MaxPerPage.
func (s *TaskService) List(ctx context.Context, userID string, q TaskQuery) (TaskPage, error) {
	q.Status = strings.ToLower(strings.TrimSpace(q.Status))
	q.Priority = strings.ToLower(strings.TrimSpace(q.Priority))
	if err := validate(q); err != nil {
		return TaskPage{}, err
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}

	items, total, err := s.Tasks.List(ctx, repo.TaskFilter{
		UserID:   userID,
		Status:   entity.TaskStatus(q.Status),
		Priority: entity.TaskPriority(q.Priority),
		Limit:    q.PerPage,
		Offset:   (q.Page - 1) * q.PerPage,
	})
	if err != nil {
		return TaskPage{}, fmt.Errorf("list tasks: %w", err)
	}
	return TaskPage{Items: items, Total: total, Page: q.Page, PerPage: q.PerPage}, nil
}

func (s *TaskService) Update(ctx context.Context, userID, id string, in TaskInput) (*entity.Task, error) {
	in.normalize()
	if err := validate(in); err != nil {
		return nil, err
	}
	t, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(t); err != nil {
		return nil, err
	}
	if err := s.Tasks.Update(ctx, t); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	s.index(ctx, t)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete task: %w", err)
	}
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", id).Warn("es delete failed")
		}
	}
	return nil
}

// Search finds userID's tasks whose title or description match q.
// Hits that no longer exist in the store are skipped.
func (s *TaskService) Search(ctx context.Context, userID, q string, size int) ([]*entity.Task, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, FieldError("q", "is required")
	}
	if s.Index == nil {
		return nil, ErrSearchUnavailable
	}
	if size <= 0 {
		size = 10
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}
	ids, err := s.Index.Search(ctx, userID, q, size)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	out := make([]*entity.Task, 0, len(ids))
	for _, id := range ids {
		t, err := s.Get(ctx, userID, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *TaskService) index(ctx context.Context, t *entity.Task) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, t); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("task_id", t.ID).Warn("es index failed")
	}
}

func (s *TaskService) notifyHighPriority(ctx context.Context, t *entity.Task) {
	if s.Notifier == nil || s.Users == nil {
		return
	}
	owner, err := s.Users.GetByID(ctx, t.UserID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", t.UserID).Warn("load task owner failed")
		}
		return
	}
	info := mailtpl.TaskInfo{
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		DueDate:     t.DueDateString(),
	}
	notify(ctx, s.Notifier, s.Logger, owner.Email, mailtpl.TaskHighPriority,
		mailtpl.NewTaskHighPriorityData(s.Brand, owner.Name, owner.Email, info, mailtpl.WithTime(t.CreatedAt)))
}
