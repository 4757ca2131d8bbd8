package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	mailtpl "github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

func TestTaskService_CreateAndGet(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "owner@example.com")
	ctx := context.Background()

	task, err := f.tasks.Create(ctx, u.ID, TaskInput{Title: " Ship it ", Status: "Pending", Priority: "medium", DueDate: "2030-02-28"})
	require.NoError(t, err)
	assert.Equal(t, "Ship it", task.Title)
	assert.Equal(t, entity.TaskPending, task.Status)
	assert.Equal(t, "2030-02-28", task.DueDateString())
	assert.True(t, f.index.has(task.ID))

	got, err := f.tasks.Get(ctx, u.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, entity.PriorityMedium, got.Priority)
}

func TestTaskService_Validation(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "owner@example.com")
	_, err := f.tasks.Create(context.Background(), u.ID, TaskInput{Status: "done", Priority: "urgent", DueDate: "tomorrow"})

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "is required", ve.Fields["title"])
	assert.Contains(t, ve.Fields, "status")
	assert.Contains(t, ve.Fields, "priority")
	assert.Contains(t, ve.Fields, "due_date")
}

func TestTaskService_HighPriorityNotifies(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "owner@example.com")
	before := f.notifier.count()

	_, err := f.tasks.Create(context.Background(), u.ID, TaskInput{Title: "Low", Status: "pending", Priority: "low"})
	require.NoError(t, err)
	assert.Equal(t, before, f.notifier.count())

	_, err = f.tasks.Create(context.Background(), u.ID, TaskInput{Title: "Urgent", Status: "pending", Priority: "high"})
	require.NoError(t, err)
	job := f.notifier.last()
	assert.Equal(t, mailtpl.TaskHighPriority, job.Template)
	assert.Equal(t, "owner@example.com", job.To)
	assert.Equal(t, "Urgent", job.Data["TaskTitle"])
}

func TestTaskService_OwnerScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")

	task, err := f.tasks.Create(ctx, alice.ID, TaskInput{Title: "Secret", Status: "pending"})
	require.NoError(t, err)

	_, err = f.tasks.Get(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.tasks.Update(ctx, bob.ID, task.ID, TaskInput{Title: "Mine now", Status: "completed"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.tasks.Delete(ctx, bob.ID, task.ID), ErrNotFound)

	page, err := f.tasks.List(ctx, bob.ID, TaskQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.Total)
}

func TestTaskService_UpdateReplacesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "owner@example.com")
	task, err := f.tasks.Create(ctx, u.ID, TaskInput{Title: "Draft", Description: "first", Status: "pending", Priority: "low", DueDate: "2030-01-01"})
	require.NoError(t, err)

	updated, err := f.tasks.Update(ctx, u.ID, task.ID, TaskInput{Title: "Final", Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "Final", updated.Title)
	assert.Empty(t, updated.Description)
	assert.Nil(t, updated.DueDate)
	assert.Equal(t, entity.TaskPriority(""), updated.Priority)

	got, err := f.tasks.Get(ctx, u.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskCompleted, got.Status)
	assert.Nil(t, got.DueDate)
}

func TestTaskService_ListFiltersAndPages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "owner@example.com")
	for i := 0; i < 5; i++ {
		status := "pending"
		if i%2 == 1 {
			status = "completed"
		}
		_, err := f.tasks.Create(ctx, u.ID, TaskInput{Title: fmt.Sprintf("task %d", i), Status: status})
		require.NoError(t, err)
	}

	page, err := f.tasks.List(ctx, u.ID, TaskQuery{Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPerPage, page.PerPage)

	page, err = f.tasks.List(ctx, u.ID, TaskQuery{Page: 3, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(5), page.Total)

	page, err = f.tasks.List(ctx, u.ID, TaskQuery{PerPage: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxPerPage, page.PerPage)

	_, err = f.tasks.List(ctx, u.ID, TaskQuery{Status: "archived"})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestTaskService_DeleteRemovesFromIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "owner@example.com")
	task, err := f.tasks.Create(ctx, u.ID, TaskInput{Title: "Temp", Status: "pending"})
	require.NoError(t, err)

	require.NoError(t, f.tasks.Delete(ctx, u.ID, task.ID))
	assert.False(t, f.index.has(task.ID))
	_, err = f.tasks.Get(ctx, u.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskService_Search(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice@example.com")
	bob := f.register(t, "bob@example.com")

	mine, err := f.tasks.Create(ctx, alice.ID, TaskInput{Title: "Quarterly report", Status: "pending"})
	require.NoError(t, err)
	_, err = f.tasks.Create(ctx, bob.ID, TaskInput{Title: "Report for Bob", Status: "pending"})
	require.NoError(t, err)

	hits, err := f.tasks.Search(ctx, alice.ID, "report", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, mine.ID, hits[0].ID)

	_, err = f.tasks.Search(ctx, alice.ID, "   ", 0)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "q")

	f.tasks.Index = nil
	_, err = f.tasks.Search(ctx, alice.ID, "report", 0)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

type sizeRecordingIndex struct {
	*memIndex
	sizes []int
}

func (r *sizeRecordingIndex) Search(ctx context.Context, userID, q string, size int) ([]string, error) {
	r.sizes = append(r.sizes, size)
	return r.memIndex.Search(ctx, userID, q, size)
}

func TestTaskService_SearchSizeIsClamped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "alice@example.com")
	idx := &sizeRecordingIndex{memIndex: f.index}
	f.tasks.Index = idx

	for _, size := range []int{0, -3, 25, 50, 51, 500} {
		_, err := f.tasks.Search(ctx, u.ID, "report", size)
		require.NoError(t, err)
	}
	assert.Equal(t, []int{10, 10, 25, 50, 50, 50}, idx.sizes)
}

type erroringTasks struct {
	repo.TaskRepository
	lookups int
}

func (e *erroringTasks) GetByID(context.Context, string) (*entity.Task, error) {
	e.lookups++
	return nil, errors.New("invalid input syntax for type uuid")
}

func TestTaskService_MalformedIDIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.register(t, "alice@example.com")

	_, err := f.tasks.Get(ctx, u.ID, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.tasks.Update(ctx, u.ID, "not-a-uuid", TaskInput{Title: "x", Status: "pending"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.tasks.Delete(ctx, u.ID, "not-a-uuid"), ErrNotFound)

	tasks := &erroringTasks{}
	svc := NewTaskService(tasks, nil, nil, nil, mailtpl.Brand{}, nil)
	_, err = svc.Get(ctx, u.ID, "42")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, tasks.lookups)
}
