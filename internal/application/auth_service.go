package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-task-manager/internal/domain/entity"
	repo "github.com/oksasatya/go-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
	mailtpl "github.com/oksasatya/go-task-manager/pkg/mailer/templates"
)

// AuthService registers principals and issues and verifies their access tokens.
// It holds no per-request state.
type AuthService struct {
	Users    repo.UserRepository
	JWT      *helpers.JWTManager
	Cache    PrincipalCache // optional
	Notifier Notifier       // optional
	Brand    mailtpl.Brand
	Logger   *logrus.Logger
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, cache PrincipalCache, notifier Notifier, brand mailtpl.Brand, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:    users,
		JWT:      jwt,
		Cache:    cache,
		Notifier: notifier,
		Brand:    brand,
		Logger:   logger,
	}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,pwd"`
	Name     string `json:"name" validate:"required,max=255"`
}

// AccessToken is a signed token and the instant it stops being accepted.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates in, stores the principal with a bcrypt hash and sends a welcome email.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validate(in); err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, FieldError("password", "must be at least 8 characters and at most 72 bytes long")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateIdentifier
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	notify(ctx, s.Notifier, s.Logger, u.Email, mailtpl.Welcome,
		mailtpl.NewWelcomeData(s.Brand, u.Name, u.Email, mailtpl.WithTime(u.CreatedAt)))
	return u, nil
}

// IssueToken signs a fresh access token for u.
func (s *AuthService) IssueToken(_ context.Context, u *entity.User) (AccessToken, error) {
	if u == nil || u.ID == "" {
		return AccessToken{}, fmt.Errorf("%w: no principal", ErrTokenIssuance)
	}
	tok, exp, err := s.JWT.GenerateAccessToken(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return AccessToken{}, fmt.Errorf("%w: %v", ErrTokenIssuance, err)
	}
	return AccessToken{Token: tok, ExpiresAt: exp}, nil
}

// Authenticate checks email and password and issues a token.
// Unknown email and wrong password are indistinguishable, including in timing.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (AccessToken, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return AccessToken{}, fmt.Errorf("lookup user: %w", err)
		}
		helpers.CompareDummyPassword(password)
		return AccessToken{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return AccessToken{}, ErrInvalidCredentials
	}
	return s.IssueToken(ctx, u)
}

// VerifyToken resolves a bearer token to its principal.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.ParseAccessToken(token)
	if err != nil {
		if errors.Is(err, helpers.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if s.Cache != nil {
		if u, ok := s.Cache.Get(ctx, claims.UserID); ok {
			return u, nil
		}
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("load principal: %w", err)
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, u)
	}
	return u, nil
}
