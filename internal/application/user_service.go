package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	mailtpl "github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

// MaxAvatarBytes bounds avatar uploads.
const MaxAvatarBytes = 2 << 20

var avatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// UserService serves the profile of the authenticated principal and user lookups.
type UserService struct {
	Users    repo.UserRepository
	Tasks    repo.TaskRepository
	Storage  AvatarStorage  // optional
	Cache    PrincipalCache // optional
	Index    TaskIndex      // optional
	Notifier Notifier       // optional
	Brand    mailtpl.Brand
	Logger   *logrus.Logger
}

func NewUserService(users repo.UserRepository, tasks repo.TaskRepository, storage AvatarStorage, cache PrincipalCache, index TaskIndex, notifier Notifier, brand mailtpl.Brand, logger *logrus.Logger) *UserService {
	return &UserService{
		Users:    users,
		Tasks:    tasks,
		Storage:  storage,
		Cache:    cache,
		Index:    index,
		Notifier: notifier,
		Brand:    brand,
		Logger:   logger,
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	return s.GetUser(ctx, userID)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListUsers returns all users, or the one whose email equals email exactly.
// A miss is an empty list, not an error.
func (s *UserService) ListUsers(ctx context.Context, email string) ([]*entity.User, error) {
	users, err := s.Users.List(ctx, repo.UserFilter{Email: normalizeEmail(email)})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

type UpdateProfileInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Gender   string `json:"gender" validate:"omitempty,gender"`
	Bio      string `json:"bio" validate:"max=1000"`
	Nickname string `json:"nickname" validate:"max=255"`
	Location string `json:"location" validate:"max=255"`
}

// UpdateProfile replaces the editable profile fields of userID.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	if err := validate(in); err != nil {
		return nil, err
	}

	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	changes := map[string]string{}
	set := func(field string, dst *string, v string) {
		if *dst != v {
			changes[field] = v
			*dst = v
		}
	}
	set("name", &u.Name, in.Name)
	set("email", &u.Email, in.Email)
	set("gender", &u.Gender, in.Gender)
	set("bio", &u.Bio, in.Bio)
	set("nickname", &u.Nickname, in.Nickname)
	set("location", &u.Location, in.Location)

	if len(changes) == 0 {
		return u, nil
	}
	if err := s.Users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrDuplicateIdentifier
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	s.invalidate(ctx, u.ID)

	notify(ctx, s.Notifier, s.Logger, u.Email, mailtpl.ProfileUpdated,
		mailtpl.NewProfileUpdatedData(s.Brand, u.Name, u.Email, changes, mailtpl.WithTime(u.UpdatedAt)))
	return u, nil
}

// UploadAvatar stores an image as the profile picture of userID and returns its URL.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string, size int64) (string, error) {
	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	defExt, ok := avatarTypes[contentType]
	if !ok {
		return "", FieldError("avatar", "must be a jpeg, png or gif image")
	}
	if size <= 0 || size > MaxAvatarBytes {
		return "", FieldError("avatar", "must be at most 2 MiB")
	}
	if s.Storage == nil {
		return "", ErrStorageUnavailable
	}

	u, err := s.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = defExt
	}
	objectPath := path.Join("avatars", userID, uuid.NewString()+ext)
	url, err := s.Storage.Upload(ctx, objectPath, contentType, io.LimitReader(r, MaxAvatarBytes))
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	u.ProfileImage = url
	if err := s.Users.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("update user: %w", err)
	}
	s.invalidate(ctx, u.ID)
	return url, nil
}

// DeleteAccount removes userID and, through the store, all of its tasks.
// Tokens already issued to it stop passing verification.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	var taskIDs []string
	if s.Index != nil && s.Tasks != nil {
		tasks, _, err := s.Tasks.List(ctx, repo.TaskFilter{UserID: userID})
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("list tasks for index cleanup failed")
		}
		for _, t := range tasks {
			taskIDs = append(taskIDs, t.ID)
		}
	}

	if err := s.Users.Delete(ctx, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.invalidate(ctx, userID)

	for _, id := range taskIDs {
		if err := s.Index.Delete(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("task_id", id).Warn("es delete failed")
		}
	}
	return nil
}

func (s *UserService) invalidate(ctx context.Context, userID string) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx, userID)
	}
}
