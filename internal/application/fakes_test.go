package application

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	sqliteinfra "github.com/oksasatya/go-task-manager/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	"github.com/oksasatya/go-task-manager/pkg/mailer"
	mailtpl "github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

const (
	testSecret = "application-test-secret"
	testIssuer = "go-task-manager"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqliteinfra.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type recordingNotifier struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
}

func (n *recordingNotifier) PublishJSON(_ context.Context, body any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.jobs = append(n.jobs, body.(mailer.EmailJob))
	return nil
}

func (n *recordingNotifier) last() mailer.EmailJob {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.jobs[len(n.jobs)-1]
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.jobs)
}

type mapCache struct {
	mu          sync.Mutex
	users       map[string]entity.User
	hits        int
	invalidated []string
}

func newMapCache() *mapCache { return &mapCache{users: map[string]entity.User{}} }

func (c *mapCache) Get(_ context.Context, id string) (*entity.User, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.users[id]
	if ok {
		c.hits++
	}
	return &u, ok
}

func (c *mapCache) Set(_ context.Context, u *entity.User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[u.ID] = *u
}

func (c *mapCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, id)
	c.invalidated = append(c.invalidated, id)
}

// memIndex matches a query as a case-insensitive substring of title or description.
type memIndex struct {
	mu    sync.Mutex
	tasks map[string]entity.Task
}

func newMemIndex() *memIndex { return &memIndex{tasks: map[string]entity.Task{}} }

func (m *memIndex) Index(_ context.Context, t *entity.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[t.ID] = *t
	return nil
}

func (m *memIndex) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, id)
	return nil
}

func (m *memIndex) Search(_ context.Context, userID, q string, size int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q = strings.ToLower(q)
	var ids []string
	for id, t := range m.tasks {
		if t.UserID != userID {
			continue
		}
		if strings.Contains(strings.ToLower(t.Title+" "+t.Description), q) {
			ids = append(ids, id)
		}
		if len(ids) == size {
			break
		}
	}
	return ids, nil
}

func (m *memIndex) has(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tasks[id]
	return ok
}

type fakeStorage struct {
	paths []string
}

func (s *fakeStorage) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	s.paths = append(s.paths, objectPath)
	return "https://storage.example.com/" + objectPath, nil
}

type fixture struct {
	db       *sql.DB
	auth     *AuthService
	users    *UserService
	tasks    *TaskService
	notifier *recordingNotifier
	cache    *mapCache
	index    *memIndex
	storage  *fakeStorage
	jwt      *helpers.JWTManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := openDB(t)
	userRepo := sqliteinfra.NewUserRepository(db)
	taskRepo := sqliteinfra.NewTaskRepository(db)
	f := &fixture{
		db:       db,
		notifier: &recordingNotifier{},
		cache:    newMapCache(),
		index:    newMemIndex(),
		storage:  &fakeStorage{},
		jwt:      helpers.NewJWTManager(testSecret, testIssuer, time.Hour),
	}
	logger := helpers.NewDiscardLogger()
	brand := mailtpl.Brand{AppName: "Tasks"}
	f.auth = NewAuthService(userRepo, f.jwt, f.cache, f.notifier, brand, logger)
	f.users = NewUserService(userRepo, taskRepo, f.storage, f.cache, f.index, f.notifier, brand, logger)
	f.tasks = NewTaskService(taskRepo, userRepo, f.index, f.notifier, brand, logger)
	return f
}

func (f *fixture) register(t *testing.T, email string) *entity.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{Email: email, Password: "password123", Name: "Test User"})
	require.NoError(t, err)
	return u
}
