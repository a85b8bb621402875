package domain

import (
	"context"
	"time"
)

// User represents a registered account. The id is the stable identifier
// issued at registration and referenced by rooms, memberships, and bookings.
type User struct {
	ID           string // UUID
	Email        string // Unique email address
	Name         string // Display name
	PasswordHash string // Bcrypt hash, never returned in API responses
	CreatedAt    time.Time
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// UserDirectory resolves an email address to a user profile. It is the
// lookup collaborator used by member add; a miss is reported as
// ErrUserNotFound rather than ErrNotFound so callers can surface it
// distinctly.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
}
