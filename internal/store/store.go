package store

import (
	"context"
	"errors"

	"github.com/authgate/authgate/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface for the user directory. Concrete
// drivers (sqlite today) implement this.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and lookup.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is already taken; the unique
	// index on email is the atomic uniqueness guarantee.
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUserByEmail removes the matching user. Returns ErrNotFound when
	// no row matched.
	DeleteUserByEmail(ctx context.Context, email string) error

	// ListUsers returns all users ordered by creation (oldest first).
	ListUsers(ctx context.Context) ([]domain.User, error)
}
