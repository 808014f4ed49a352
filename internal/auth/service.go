package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/store"
)

var (
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles account registration and login against the user store.
type Service struct {
	users store.UserStore
}

func NewService(users store.UserStore) *Service {
	return &Service{users: users}
}

// Register creates a regular user account. Emails are stored lowercased so
// login is case-insensitive.
func (s *Service) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	email = normalizeEmail(email)

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	u, err := user.New(strings.TrimSpace(name), email, hash)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return nil, err
	}

	// The unique index on email catches the race where two signups pass the
	// existence check together.
	if err := s.users.Create(ctx, u); err != nil {
		if store.IsDuplicateKey(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

// Authenticate verifies a login attempt. The same error covers a missing
// account and a wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
