package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/domain/repository"
	pginfra "github.com/oksasatya/go-task-manager/internal/infrastructure/postgres"
	sqliteinfra "github.com/oksasatya/go-task-manager/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	mailtpl "github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "password123"
	demoName     = "Demo User"
)

var demoTasks = []application.TaskInput{
	{Title: "Read the API docs", Status: "completed", Priority: "low"},
	{Title: "Plan the sprint", Description: "Pick the next five stories", Status: "in_progress", Priority: "medium"},
	{Title: "Fix production alert", Status: "pending", Priority: "high", DueDate: "2030-01-01"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	var (
		users repository.UserRepository
		tasks repository.TaskRepository
	)
	switch cfg.DBDriver {
	case "sqlite":
		db, err := sqliteinfra.Open(ctx, cfg.SQLitePath)
		if err != nil {
			log.Fatalf("failed to open sqlite: %v", err)
		}
		defer func() { _ = db.Close() }()
		users, tasks = sqliteinfra.NewUserRepository(db), sqliteinfra.NewTaskRepository(db)
	default:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		users, tasks = pginfra.NewUserRepository(pool), pginfra.NewTaskRepository(pool)
	}

	jwt := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL)
	auth := application.NewAuthService(users, jwt, nil, nil, mailtpl.Brand{}, logger)
	taskSvc := application.NewTaskService(tasks, users, nil, nil, mailtpl.Brand{}, logger)

	u, err := auth.Register(ctx, application.RegisterInput{Email: demoEmail, Password: demoPassword, Name: demoName})
	switch {
	case errors.Is(err, application.ErrDuplicateIdentifier):
		logger.WithField("email", demoEmail).Info("demo user already seeded")
		return
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	}

	for _, in := range demoTasks {
		if _, err := taskSvc.Create(ctx, u.ID, in); err != nil {
			log.Fatalf("failed to seed task %q: %v", in.Title, err)
		}
	}
	tok, err := auth.IssueToken(ctx, u)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}
	helpers.LogInfo(logger, "seeded demo user", logrus.Fields{
		"user_id":    u.ID,
		"email":      demoEmail,
		"password":   demoPassword,
		"tasks":      len(demoTasks),
		"expires_at": tok.ExpiresAt.Format(time.RFC3339),
	})
	logger.Infof("Authorization: Bearer %s", tok.Token)
}
