// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"userauth/internal/domain/entity"
)

// Domain-specific errors for account persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrAccountNotFound is returned when no account matches the lookup key.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailConflict is returned when a write would break the unique email constraint.
	ErrEmailConflict = errors.New("email already exists")
)

// AccountRepository defines the standard operations for account persistence.
// Every method is atomic on its own; LockByID and LockByEmail only give
// exclusive access when called through a TransactionManager.
type AccountRepository interface {
	// FindByID retrieves a single account by its numeric ID.
	FindByID(ctx context.Context, id int64) (*entity.Account, error)

	// FindByEmail retrieves a single account by its email address.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// ExistsByID reports whether an account with the ID is stored.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// FindAll returns every stored account ordered by ID.
	FindAll(ctx context.Context) ([]*entity.Account, error)

	// Create inserts a new account and assigns its ID and timestamps.
	Create(ctx context.Context, account *entity.Account) error

	// Save updates an existing account.
	Save(ctx context.Context, account *entity.Account) error

	// DeleteByID removes the account. Deleting a missing ID is not an error.
	DeleteByID(ctx context.Context, id int64) error

	// LockByID reads the account and holds it exclusively until the surrounding transaction ends.
	LockByID(ctx context.Context, id int64) (*entity.Account, error)

	// LockByEmail is LockByID keyed by email.
	LockByEmail(ctx context.Context, email string) (*entity.Account, error)
}
