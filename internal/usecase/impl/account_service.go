// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "userauth/internal/delivery/context"
	"userauth/internal/domain/entity"
	domainerrors "userauth/internal/domain/errors"
	"userauth/internal/domain/repository"
	"userauth/internal/domain/service"
	"userauth/internal/errors"
	"userauth/internal/usecase"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

const (
	opRegister       = "register"
	opListAccounts   = "list_accounts"
	opDelete         = "delete"
	opChangePassword = "change_password"
	opLogin          = "login"
	opLogout         = "logout"

	outcomeSuccess = "success"
)

// Describes what the service was doing when a storage fault surfaced.
var operationActivity = map[string]string{
	opRegister:       "registering the user",
	opListAccounts:   "fetching all users",
	opDelete:         "deleting the user",
	opChangePassword: "updating the password",
	opLogin:          "logging in the user",
	opLogout:         "logging out the user",
}

var tracer = otel.Tracer("userauth/usecase")

// accountService implements the AccountUsecase interface.
type accountService struct {
	txManager   repository.TransactionManager
	accountRepo repository.AccountRepository
	hasher      service.PasswordHasher
	validator   service.AccountValidator
	publisher   service.EventPublisher
	recorder    service.OperationRecorder
	logger      *slog.Logger
	now         func() time.Time
}

// AccountServiceParams holds dependencies for AccountService, injected by Fx.
type AccountServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	AccountRepo repository.AccountRepository
	Hasher      service.PasswordHasher
	Validator   service.AccountValidator
	Publisher   service.EventPublisher    `optional:"true"`
	Recorder    service.OperationRecorder `optional:"true"`
	Logger      *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(params AccountServiceParams) usecase.AccountUsecase {
	recorder := params.Recorder
	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &accountService{
		txManager:   params.TxManager,
		accountRepo: params.AccountRepo,
		hasher:      params.Hasher,
		validator:   params.Validator,
		publisher:   params.Publisher,
		recorder:    recorder,
		logger:      params.Logger,
		now:         time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register validates the identity and password, then stores a logged-out account.
// The email pre-check is advisory; the store's unique constraint decides concurrent registrations.
func (srv *accountService) Register(ctx context.Context, input usecase.RegisterInput) (*entity.Account, error) {
	var created *entity.Account
	err := srv.observe(ctx, opRegister, func(ctx context.Context) error {
		switch {
		case !srv.validator.IsValidName(input.FirstName):
			return domainerrors.ErrInvalidName.WithMessage("Please enter a valid first name.")
		case !srv.validator.IsValidName(input.LastName):
			return domainerrors.ErrInvalidName.WithMessage("Please enter a valid last name.")
		case !srv.validator.IsValidEmail(input.Email):
			return domainerrors.ErrInvalidEmail
		case !srv.validator.IsValidPassword(input.Password):
			return domainerrors.ErrInvalidPassword
		}

		_, err := srv.accountRepo.FindByEmail(ctx, input.Email)
		if err == nil {
			return domainerrors.ErrEmailTaken
		}
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return errors.Wrap(err, "failed to check email availability")
		}

		hash, err := srv.hasher.Hash(input.Password)
		if err != nil {
			return errors.Wrap(err, "failed to hash password")
		}

		account := &entity.Account{
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			Email:        input.Email,
			PasswordHash: hash,
			LoggedIn:     false,
		}
		if err := srv.accountRepo.Create(ctx, account); err != nil {
			if errors.Is(err, repository.ErrEmailConflict) {
				return domainerrors.ErrEmailTaken
			}

			return errors.Wrap(err, "failed to create account")
		}
		created = account

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.publish(ctx, service.EventAccountRegistered, created)

	return created, nil
}

// ListAccounts returns every stored account.
func (srv *accountService) ListAccounts(ctx context.Context) ([]*entity.Account, error) {
	var accounts []*entity.Account
	err := srv.observe(ctx, opListAccounts, func(ctx context.Context) error {
		found, err := srv.accountRepo.FindAll(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to list accounts")
		}
		if len(found) == 0 {
			return domainerrors.ErrNoAccounts
		}
		accounts = found

		return nil
	})
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// Delete removes the account after verifying its password under the account lock.
func (srv *accountService) Delete(ctx context.Context, input usecase.DeleteInput) error {
	var deleted *entity.Account
	err := srv.observe(ctx, opDelete, func(ctx context.Context) error {
		return srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
			repo := factory.AccountRepo()

			account, err := lockAccountByID(ctx, repo, input.ID)
			if err != nil {
				return err
			}
			if !srv.validator.IsValidPassword(input.Password) {
				return domainerrors.ErrInvalidPassword
			}
			if !srv.hasher.Check(input.Password, account.PasswordHash) {
				return domainerrors.ErrPasswordMismatch
			}
			if err := repo.DeleteByID(ctx, account.ID); err != nil {
				return errors.Wrap(err, "failed to delete account")
			}
			deleted = account

			return nil
		})
	})
	if err != nil {
		return err
	}

	srv.publish(ctx, service.EventAccountDeleted, deleted)

	return nil
}

// ChangePassword replaces the stored hash when the account is logged in and the old password verifies.
// Reuse is detected on the plaintext pair, not against the stored hash.
func (srv *accountService) ChangePassword(ctx context.Context, input usecase.ChangePasswordInput) error {
	var updated *entity.Account
	err := srv.observe(ctx, opChangePassword, func(ctx context.Context) error {
		return srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
			repo := factory.AccountRepo()

			account, err := lockAccountByID(ctx, repo, input.ID)
			if err != nil {
				return err
			}

			switch {
			case !srv.validator.IsValidPassword(input.OldPassword),
				!srv.validator.IsValidPassword(input.NewPassword):
				return domainerrors.ErrInvalidPassword
			case !account.LoggedIn:
				return domainerrors.ErrNotLoggedIn
			case !srv.hasher.Check(input.OldPassword, account.PasswordHash):
				return domainerrors.ErrOldPasswordWrong
			case input.OldPassword == input.NewPassword:
				return domainerrors.ErrPasswordUnchanged
			}

			hash, err := srv.hasher.Hash(input.NewPassword)
			if err != nil {
				return errors.Wrap(err, "failed to hash password")
			}
			account.PasswordHash = hash
			if err := repo.Save(ctx, account); err != nil {
				return errors.Wrap(err, "failed to save account")
			}
			updated = account

			return nil
		})
	})
	if err != nil {
		return err
	}

	srv.publish(ctx, service.EventAccountPasswordChanged, updated)

	return nil
}

// Login verifies the credential and sets the session flag.
func (srv *accountService) Login(ctx context.Context, input usecase.LoginInput) (*entity.Account, error) {
	var loggedIn *entity.Account
	err := srv.observe(ctx, opLogin, func(ctx context.Context) error {
		return srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
			repo := factory.AccountRepo()

			account, err := repo.LockByEmail(ctx, input.Email)
			if errors.Is(err, repository.ErrAccountNotFound) {
				return domainerrors.ErrEmailNotFound
			}
			if err != nil {
				return errors.Wrap(err, "failed to lock account by email")
			}
			if !srv.validator.IsValidPassword(input.Password) {
				return domainerrors.ErrInvalidPassword
			}
			if !srv.hasher.Check(input.Password, account.PasswordHash) {
				return domainerrors.ErrPasswordMismatch
			}

			if !account.LoggedIn {
				account.LoggedIn = true
				if err := repo.Save(ctx, account); err != nil {
					return errors.Wrap(err, "failed to save account")
				}
			}
			loggedIn = account

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	srv.publish(ctx, service.EventAccountLoggedIn, loggedIn)

	return loggedIn, nil
}

// Logout verifies the credential and clears the session flag.
func (srv *accountService) Logout(ctx context.Context, input usecase.LogoutInput) error {
	var loggedOut *entity.Account
	err := srv.observe(ctx, opLogout, func(ctx context.Context) error {
		return srv.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
			repo := factory.AccountRepo()

			account, err := lockAccountByID(ctx, repo, input.ID)
			if err != nil {
				return err
			}
			if !account.LoggedIn {
				return domainerrors.ErrNotLoggedIn
			}
			if !srv.hasher.Check(input.Password, account.PasswordHash) {
				return domainerrors.ErrPasswordMismatch
			}

			account.LoggedIn = false
			if err := repo.Save(ctx, account); err != nil {
				return errors.Wrap(err, "failed to save account")
			}
			loggedOut = account

			return nil
		})
	})
	if err != nil {
		return err
	}

	srv.publish(ctx, service.EventAccountLoggedOut, loggedOut)

	return nil
}

func lockAccountByID(ctx context.Context, repo repository.AccountRepository, id int64) (*entity.Account, error) {
	account, err := repo.LockByID(ctx, id)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return nil, domainerrors.UnknownID(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to lock account by id")
	}

	return account, nil
}

// observe runs one operation inside a span, converts errors outside the taxonomy
// into storage failures, then logs and records the outcome.
func (srv *accountService) observe(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "account."+op, trace.WithAttributes(attribute.String("account.operation", op)))
	defer span.End()

	start := time.Now()
	err := classify(fn(ctx), op)
	elapsed := time.Since(start)

	if err == nil {
		srv.recorder.RecordOperation(op, outcomeSuccess, elapsed)
		srv.log(ctx).Debug("Account operation succeeded", slog.String("operation", op), slog.Duration("elapsed", elapsed))

		return nil
	}

	code := domainerrors.CodeOf(err)
	srv.recorder.RecordOperation(op, strings.ToLower(code), elapsed)
	span.SetAttributes(attribute.String("account.error_code", code))
	span.RecordError(err)
	span.SetStatus(codes.Error, code)

	if domainerrors.ClassOf(err) == domainerrors.ClassStorage {
		srv.log(ctx).Error("Account operation failed", slog.String("operation", op), slog.Any("error", err))
	} else {
		srv.log(ctx).Warn("Account operation rejected", slog.String("operation", op), slog.String("code", code))
	}

	return err
}

func classify(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsType[domainerrors.AppError](err); ok {
		return err
	}

	return domainerrors.NewStorageError(err, operationActivity[op])
}

// publish sends the event for a committed change. A failed publish is logged only.
func (srv *accountService) publish(ctx context.Context, eventType service.AccountEventType, account *entity.Account) {
	if srv.publisher == nil || account == nil {
		return
	}

	event := &service.AccountEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		Type:       eventType,
		AccountID:  account.ID,
		Email:      account.Email,
		OccurredAt: srv.now().UTC(),
	}
	if err := srv.publisher.PublishAccountEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish account event",
			slog.String("type", string(eventType)),
			slog.Int64("account_id", account.ID),
			slog.Any("error", err))
	}
}

type noopRecorder struct{}

func (noopRecorder) RecordOperation(string, string, time.Duration) {}
