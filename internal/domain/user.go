package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Auth providers
const (
	AuthProviderLocal    = "local"
	AuthProviderExternal = "external"
)

// User represents a platform user
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	Email        *string   `json:"email,omitempty"`
	AuthProvider string    `json:"auth_provider"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserLogin represents login credentials
type UserLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserCreate represents admin-side user creation data
type UserCreate struct {
	Username string `json:"username" validate:"required,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	IsAdmin  bool   `json:"is_admin"`
}

// PasswordChange represents a self-service password change
type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

// PasswordReset represents an admin-side password reset
type PasswordReset struct {
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

// EmailUpdate represents an account email change
type EmailUpdate struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// Actor is the authenticated identity acting on a request, as carried by the
// token. The username is captured into audit entries at write time.
type Actor struct {
	ID       uuid.UUID
	Username string
	IsAdmin  bool
}

// AuthResult is returned on successful login
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateEmail(ctx context.Context, id uuid.UUID, email string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
