// Package handler contains the echo handlers for the account API.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"userauth/internal/delivery/api/response"
	"userauth/internal/delivery/api/validator"
	domainerrors "userauth/internal/domain/errors"
	"userauth/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	AccountUC usecase.AccountUsecase
	Logger    *slog.Logger
}

// AccountHandler holds dependencies for account-related handlers
type AccountHandler struct {
	accountUC usecase.AccountUsecase
	logger    *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler
func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		accountUC: params.AccountUC,
		logger:    params.Logger,
	}
}

// RegisterRequest represents the request body for creating an account.
// Field contents are judged by the account policy, not here.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"max=255"`
	Password  string `json:"password" validate:"max=128"`
}

// PasswordRequest carries the account ID from the path and the password from the body.
type PasswordRequest struct {
	UserID   int64  `param:"userId" json:"-" validate:"gt=0"`
	Password string `json:"password" validate:"max=128"`
}

// ChangePasswordRequest represents the request for replacing an account's password
type ChangePasswordRequest struct {
	UserID      int64  `param:"userId" json:"-" validate:"gt=0"`
	OldPassword string `json:"oldPassword" validate:"max=128"`
	NewPassword string `json:"newPassword" validate:"max=128"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" validate:"max=255"`
	Password string `json:"password" validate:"max=128"`
}

// Register handles account creation
func (h *AccountHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	account, err := h.accountUC.Register(c.Request().Context(), usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.SuccessWithMessage(c, http.StatusCreated, account, "User created successfully.")
}

// ListAccounts handles fetching every account
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	accounts, err := h.accountUC.ListAccounts(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, accounts, "All users fetched successfully.")
}

// Delete handles account removal
func (h *AccountHandler) Delete(c echo.Context) error {
	var req PasswordRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	if err := h.accountUC.Delete(c.Request().Context(), usecase.DeleteInput{
		ID:       req.UserID,
		Password: req.Password,
	}); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, nil, "User deleted successfully with Id "+strconv.FormatInt(req.UserID, 10))
}

// ChangePassword handles password replacement. It answers 201 Created.
func (h *AccountHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	if err := h.accountUC.ChangePassword(c.Request().Context(), usecase.ChangePasswordInput{
		ID:          req.UserID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.SuccessWithMessage(c, http.StatusCreated, nil, "Password updated successfully.")
}

// Login handles logging in and greets the account holder by name
func (h *AccountHandler) Login(c echo.Context) error {
	var req LoginRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	account, err := h.accountUC.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, account, "Welcome "+account.FullName())
}

// Logout handles logging out
func (h *AccountHandler) Logout(c echo.Context) error {
	var req PasswordRequest
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	if err := h.accountUC.Logout(c.Request().Context(), usecase.LogoutInput{
		ID:       req.UserID,
		Password: req.Password,
	}); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.SuccessWithMessage(c, http.StatusOK, nil, "User logged out successfully.")
}

// bindAndValidate fills req from the path and body. When it reports false the 400 response
// has already been written and err is the result of writing it.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, response.BadRequest(c, "INVALID_INPUT", "Invalid request input")
	}

	if err := c.Validate(req); err != nil {
		return false, response.BadRequestWithDetails(c,
			domainerrors.ErrValidationFailed.ErrorCode(),
			domainerrors.ErrValidationFailed.Message(),
			validator.FieldErrors(err),
		)
	}

	return true, nil
}
