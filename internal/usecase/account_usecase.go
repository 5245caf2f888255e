// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"userauth/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to create an account.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// DeleteInput identifies the account to remove and proves ownership of it.
type DeleteInput struct {
	ID       int64
	Password string
}

// ChangePasswordInput defines the data required to replace an account's password.
type ChangePasswordInput struct {
	ID          int64
	OldPassword string
	NewPassword string
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string
	Password string
}

// LogoutInput defines the data required for an account to log out.
type LogoutInput struct {
	ID       int64
	Password string
}

// AccountUsecase defines the account lifecycle and session-state operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
//
// Every failure is a domainerrors.AppError; store faults match domainerrors.ErrStorageFailure.
type AccountUsecase interface {
	// Register creates a logged-out account after the name, email and password policy checks pass.
	Register(ctx context.Context, input RegisterInput) (*entity.Account, error)

	// ListAccounts returns every account ordered by ID, or ErrNoAccounts when there are none.
	ListAccounts(ctx context.Context) ([]*entity.Account, error)

	// Delete removes the account once its password is verified.
	Delete(ctx context.Context, input DeleteInput) error

	// ChangePassword replaces the password of a logged-in account.
	ChangePassword(ctx context.Context, input ChangePasswordInput) error

	// Login marks the account logged in and returns it. Logging in twice is not an error.
	Login(ctx context.Context, input LoginInput) (*entity.Account, error)

	// Logout marks a logged-in account logged out.
	Logout(ctx context.Context, input LogoutInput) error
}
