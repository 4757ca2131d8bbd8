package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/container"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/cache"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/interface/middleware"
	"github.com/oksasatya/go-task-manager/internal/router/modules"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	mailtpl "github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

// Services are the application services the modules expose.
type Services struct {
	Auth   *application.AuthService
	Users  *application.UserService
	Tasks  *application.TaskService
	Redis  *redis.Client
	Logger *logrus.Logger
	Debug  bool
}

// BuildServices wires application services from the container singletons.
// Optional infrastructure (Redis cache, RabbitMQ, GCS, Elasticsearch) is left
// out when it was not set.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	users, tasks := container.Repositories()
	brand := mailtpl.BrandFromConfig(cfg)

	var principalCache application.PrincipalCache
	if rdb := container.GetRedis(); rdb != nil && cfg.PrincipalCacheTTL > 0 {
		principalCache = cache.NewPrincipalCache(rdb, cfg.PrincipalCacheTTL, logger)
	}
	var notifier application.Notifier
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		notifier = pub
	}
	var storage application.AvatarStorage
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		storage = helpers.NewGCSUploader(gcs, cfg.GCSBucket)
	}
	var index application.TaskIndex
	if es := container.GetES(); es != nil && cfg.SearchEnabled {
		index = search.NewTaskIndex(es, cfg.ESTasksIndex)
	}

	return Services{
		Auth:   application.NewAuthService(users, container.GetJWT(), principalCache, notifier, brand, logger),
		Users:  application.NewUserService(users, tasks, storage, principalCache, index, notifier, brand, logger),
		Tasks:  application.NewTaskService(tasks, users, index, notifier, brand, logger),
		Redis:  container.GetRedis(),
		Logger: logger,
		Debug:  cfg.DebugMetricsEnabled,
	}
}

// InitModules registers every feature module with the registry.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, s Services) {
	limits := modules.Limits{RDB: s.Redis, Logger: s.Logger}
	gate := middleware.Auth(s.Auth)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(s.Auth, s.Logger), limits))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(s.Users, s.Logger), gate, limits))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(s.Tasks, s.Logger), gate, limits))
	if s.Debug {
		r.Add(modules.NewDebugModule(limits))
	}
}
