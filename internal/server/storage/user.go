package storage

import (
	"context"
	"time"

	"github.com/iudanet/redtrack/internal/models"
)

// UserStorage defines interface for user credential persistence
type UserStorage interface {
	// CreateUser creates a new user in the storage.
	// Returns ErrUserAlreadyExists if username is taken; uniqueness is
	// enforced by the storage itself (unique index), so concurrent
	// registrations with the same username cannot both succeed
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByUsername retrieves user by username
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdatePassword overwrites the stored password hash.
	// Does not re-verify the current password, the caller is expected to.
	// Returns ErrUserNotFound if user doesn't exist
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error

	// UpdateLastLogin updates the last login timestamp
	UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error
}
