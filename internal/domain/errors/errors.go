package errors

import (
	"fmt"
	"net/http"

	"userauth/internal/errors"
)

// Class groups error kinds by who has to act on them.
type Class string

const (
	// ClassPolicy covers caller input that violates the account policy; resubmitting corrected input fixes it.
	ClassPolicy Class = "policy"
	// ClassState covers a mismatch between what the caller assumed and the stored account state.
	ClassState Class = "state"
	// ClassStorage covers faults reported by the account store.
	ClassStorage Class = "storage"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
	Class() Class
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
	class     Class
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message string, class Class) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		class:     class,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + " " + e.details
	}

	return e.message
}

// Is matches any BaseError carrying the same business error code, so copies
// produced by WithDetails or WithMessage still match the predefined kinds.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// Class returns the class of the error kind.
func (e *BaseError) Class() Class {
	return e.class
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	clone := *e
	clone.details = details

	return &clone
}

// WithMessage replaces the user-facing message while keeping the kind.
func (e *BaseError) WithMessage(message string) *BaseError {
	clone := *e
	clone.message = message

	return &clone
}

// Predefined error kinds
var (
	// Policy failures
	ErrInvalidName = NewBaseError(
		http.StatusBadRequest,
		"INVALID_NAME",
		"Please enter a valid name.",
		ClassPolicy,
	)

	ErrInvalidEmail = NewBaseError(
		http.StatusBadRequest,
		"INVALID_EMAIL",
		"Please enter a valid email.",
		ClassPolicy,
	)

	ErrInvalidPassword = NewBaseError(
		http.StatusBadRequest,
		"INVALID_PASSWORD",
		"Please enter a valid password.",
		ClassPolicy,
	)

	ErrEmailTaken = NewBaseError(
		http.StatusConflict,
		"EMAIL_TAKEN",
		"Email is taken.",
		ClassPolicy,
	)

	ErrPasswordUnchanged = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_UNCHANGED",
		"Password matches, please enter another password.",
		ClassPolicy,
	)

	// State failures
	ErrUnknownID = NewBaseError(
		http.StatusNotFound,
		"UNKNOWN_ID",
		"No user exists with this Id.",
		ClassState,
	)

	ErrEmailNotFound = NewBaseError(
		http.StatusNotFound,
		"EMAIL_NOT_FOUND",
		"Email does not exist.",
		ClassState,
	)

	ErrNotLoggedIn = NewBaseError(
		http.StatusForbidden,
		"NOT_LOGGED_IN",
		"User not logged in.",
		ClassState,
	)

	ErrPasswordMismatch = NewBaseError(
		http.StatusUnauthorized,
		"PASSWORD_MISMATCH",
		"Password does not match.",
		ClassState,
	)

	ErrOldPasswordWrong = NewBaseError(
		http.StatusUnauthorized,
		"OLD_PASSWORD_WRONG",
		"Old password is wrong.",
		ClassState,
	)

	ErrNoAccounts = NewBaseError(
		http.StatusNotFound,
		"NO_ACCOUNTS",
		"No users currently.",
		ClassState,
	)

	// Storage failures
	ErrStorageFailure = NewBaseError(
		http.StatusInternalServerError,
		"STORAGE_FAILURE",
		"Something went wrong in the service layer.",
		ClassStorage,
	)

	// Transport-level failures
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Enter a valid input.",
		ClassPolicy,
	)
)

// UnknownID returns ErrUnknownID with the "No user exists with Id N." message.
func UnknownID(id int64) *BaseError {
	return ErrUnknownID.WithMessage(fmt.Sprintf("No user exists with Id %d.", id))
}

// StorageError represents a fault reported by the account store, implementing the AppError interface.
// It keeps the collaborator's error reachable through Unwrap.
type StorageError struct {
	err       error
	operation string
}

// NewStorageError creates a storage failure for the named operation.
func NewStorageError(err error, operation string) AppError {
	return &StorageError{
		err:       err,
		operation: operation,
	}
}

// Error implements the error interface
func (e *StorageError) Error() string {
	return errors.Wrapf(e.err, "storage failure while %s", e.operation).Error()
}

// Unwrap returns the store's error.
func (e *StorageError) Unwrap() error {
	return e.err
}

// Is makes every StorageError match ErrStorageFailure.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorageFailure
}

// HTTPCode returns the HTTP status code
func (e *StorageError) HTTPCode() int {
	return ErrStorageFailure.HTTPCode()
}

// ErrorCode returns the business error code
func (e *StorageError) ErrorCode() string {
	return ErrStorageFailure.ErrorCode()
}

// Message returns the user-friendly error message
func (e *StorageError) Message() string {
	return fmt.Sprintf("Something went wrong in the service layer while %s.", e.operation)
}

// Details returns detailed error information
func (e *StorageError) Details() string {
	return e.err.Error()
}

// Class returns ClassStorage.
func (e *StorageError) Class() Class {
	return ClassStorage
}

// ClassOf returns the class of the first AppError in err's chain.
// Errors outside the taxonomy are treated as storage faults.
func ClassOf(err error) Class {
	if appErr, ok := errors.AsType[AppError](err); ok {
		return appErr.Class()
	}

	return ClassStorage
}

// CodeOf returns the business error code of the first AppError in err's chain, or "" if there is none.
func CodeOf(err error) string {
	if appErr, ok := errors.AsType[AppError](err); ok {
		return appErr.ErrorCode()
	}

	return ""
}
