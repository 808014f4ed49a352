package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidEmail = errors.New("email is required")
	ErrInvalidName  = errors.New("name is required")
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// New creates a regular user with an already hashed password.
func New(name, email, passwordHash string) (*User, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if email == "" {
		return nil, ErrInvalidEmail
	}
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    time.Now(),
	}, nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ToggledRole returns the opposite role, used by the admin promote/demote
// action.
func (u *User) ToggledRole() string {
	if u.IsAdmin() {
		return RoleUser
	}
	return RoleAdmin
}
