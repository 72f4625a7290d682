package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/alextreichler/meatpoint/internal/models"
	"github.com/alextreichler/meatpoint/internal/store"
	"github.com/alextreichler/meatpoint/internal/validate"
)

// ErrInvalidCredentials is the only failure a caller learns about; which
// check failed is never exposed.
var ErrInvalidCredentials = errors.New("invalid credentials")

type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

type Service struct {
	users  UserFinder
	issuer *Issuer
}

func NewService(users UserFinder, issuer *Issuer) *Service {
	return &Service{users: users, issuer: issuer}
}

// Login checks the credentials and returns a signed session token for an
// ADMIN user. Malformed input is rejected before the user lookup. A store
// failure is returned as is so the caller can answer 500.
func (s *Service) Login(ctx context.Context, creds Credentials) (string, *models.User, error) {
	creds.Email = strings.ToLower(strings.TrimSpace(creds.Email))
	if err := validate.Struct(creds); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, creds.Email)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !CheckPassword(user.Password, creds.Password) {
		return "", nil, ErrInvalidCredentials
	}

	if user.Role != models.RoleAdmin {
		slog.Warn("Login refused for non-admin role", "user_id", user.ID, "role", user.Role)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
