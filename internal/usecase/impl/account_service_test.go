package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	deliverycontext "userauth/internal/delivery/context"
	"userauth/internal/domain/entity"
	domainerrors "userauth/internal/domain/errors"
	"userauth/internal/domain/policy"
	"userauth/internal/domain/repository"
	"userauth/internal/domain/service"
	"userauth/internal/errors"
	"userauth/internal/infra/auth"
	"userauth/internal/infra/persistence/memory"
	mockRepo "userauth/internal/mocks/repository"
	mockSvc "userauth/internal/mocks/service"
	"userauth/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// permissiveValidator accepts every input so tests can reach checks behind the policy.
type permissiveValidator struct{}

func (permissiveValidator) IsValidName(string) bool { return true }
func (permissiveValidator) IsValidEmail(string) bool { return true }
func (permissiveValidator) IsValidPassword(string) bool { return true }

func newScenarioService(t *testing.T, validator service.AccountValidator, publisher service.EventPublisher) usecase.AccountUsecase {
	t.Helper()

	store := memory.NewStore()

	return NewAccountService(AccountServiceParams{
		TxManager:   memory.NewTransactionManager(store),
		AccountRepo: memory.NewAccountRepository(store),
		Hasher:      auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		Validator:   validator,
		Publisher:   publisher,
		Logger:      newTestLogger(),
	})
}

func registerJohn(t *testing.T, srv usecase.AccountUsecase) *entity.Account {
	t.Helper()

	account, err := srv.Register(context.Background(), usecase.RegisterInput{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@x.com",
		Password:  "Pass@123",
	})
	require.NoError(t, err)

	return account
}

func loginJohn(t *testing.T, srv usecase.AccountUsecase) {
	t.Helper()

	_, err := srv.Login(context.Background(), usecase.LoginInput{Email: "john@x.com", Password: "Pass@123"})
	require.NoError(t, err)
}

func TestAccountService_RegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	srv := newScenarioService(t, policy.NewValidator(), nil)

	account := registerJohn(t, srv)
	assert.Positive(t, account.ID)
	assert.False(t, account.LoggedIn)
	assert.NotEqual(t, "Pass@123", account.PasswordHash)
	assert.NotEmpty(t, account.PasswordHash)

	loggedIn, err := srv.Login(ctx, usecase.LoginInput{Email: "john@x.com", Password: "Pass@123"})
	require.NoError(t, err)
	assert.True(t, loggedIn.LoggedIn)
	assert.Equal(t, "John Doe", loggedIn.FullName())

	accounts, err := srv.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.True(t, accounts[0].LoggedIn)
}

func TestAccountService_LoginTwiceStaysLoggedIn(t *testing.T) {
	srv := newScenarioService(t, policy.NewValidator(), nil)
	registerJohn(t, srv)

	loginJohn(t, srv)
	loginJohn(t, srv)

	accounts, err := srv.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.True(t, accounts[0].LoggedIn)
}

func TestAccountService_Register_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.RegisterInput
		wantErr *domainerrors.BaseError
		wantMsg string
	}{
		{
			name:    "first name checked first",
			input:   usecase.RegisterInput{FirstName: "john", LastName: "doe", Email: "bad", Password: "weak"},
			wantErr: domainerrors.ErrInvalidName,
			wantMsg: "Please enter a valid first name.",
		},
		{
			name:    "last name",
			input:   usecase.RegisterInput{FirstName: "John", LastName: "doe", Email: "john@x.com", Password: "Pass@123"},
			wantErr: domainerrors.ErrInvalidName,
			wantMsg: "Please enter a valid last name.",
		},
		{
			name:    "email",
			input:   usecase.RegisterInput{FirstName: "John", LastName: "Doe", Email: "john@x", Password: "Pass@123"},
			wantErr: domainerrors.ErrInvalidEmail,
			wantMsg: "Please enter a valid email.",
		},
		{
			name:    "password",
			input:   usecase.RegisterInput{FirstName: "John", LastName: "Doe", Email: "john@x.com", Password: "WrongPass1"},
			wantErr: domainerrors.ErrInvalidPassword,
			wantMsg: "Please enter a valid password.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newScenarioService(t, policy.NewValidator(), nil)

			account, err := srv.Register(context.Background(), tt.input)
			require.Error(t, err)
			assert.Nil(t, account)
			assert.True(t, errors.Is(err, tt.wantErr))

			appErr, ok := errors.AsType[domainerrors.AppError](err)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsg, appErr.Message())
			assert.Equal(t, domainerrors.ClassPolicy, appErr.Class())

			_, err = srv.ListAccounts(context.Background())
			assert.True(t, errors.Is(err, domainerrors.ErrNoAccounts))
		})
	}
}

func TestAccountService_Register_EmailTaken(t *testing.T) {
	srv := newScenarioService(t, policy.NewValidator(), nil)
	registerJohn(t, srv)

	_, err := srv.Register(context.Background(), usecase.RegisterInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "john@x.com",
		Password:  "Other@123",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))

	accounts, err := srv.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestAccountService_Register_ConcurrentSameEmail(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := newScenarioService(t, policy.NewValidator(), nil)

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := srv.Register(context.Background(), usecase.RegisterInput{
				FirstName: "John",
				LastName:  "Doe",
				Email:     "john@x.com",
				Password:  "Pass@123",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++

			continue
		}
		assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
	}
	assert.Equal(t, 1, created)
}

func TestAccountService_ListAccounts_Empty(t *testing.T) {
	srv := newScenarioService(t, policy.NewValidator(), nil)

	accounts, err := srv.ListAccounts(context.Background())
	assert.Nil(t, accounts)
	assert.True(t, errors.Is(err, domainerrors.ErrNoAccounts))
}

func TestAccountService_ChangePassword(t *testing.T) {
	tests := []struct {
		name     string
		loggedIn bool
		old      string
		new      string
		wantErr  *domainerrors.BaseError
	}{
		{name: "wrong old password", loggedIn: true, old: "Wrong@123", new: "New@1234", wantErr: domainerrors.ErrOldPasswordWrong},
		{name: "same password", loggedIn: true, old: "Pass@123", new: "Pass@123", wantErr: domainerrors.ErrPasswordUnchanged},
		{name: "not logged in", loggedIn: false, old: "Pass@123", new: "New@1234", wantErr: domainerrors.ErrNotLoggedIn},
		{name: "invalid new password", loggedIn: true, old: "Pass@123", new: "short", wantErr: domainerrors.ErrInvalidPassword},
		{name: "invalid old password before login check", loggedIn: false, old: "short", new: "New@1234", wantErr: domainerrors.ErrInvalidPassword},
		{name: "success", loggedIn: true, old: "Pass@123", new: "New@1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			srv := newScenarioService(t, policy.NewValidator(), nil)
			account := registerJohn(t, srv)
			if tt.loggedIn {
				loginJohn(t, srv)
			}

			err := srv.ChangePassword(ctx, usecase.ChangePasswordInput{ID: account.ID, OldPassword: tt.old, NewPassword: tt.new})
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

				return
			}
			require.NoError(t, err)

			require.NoError(t, srv.Logout(ctx, usecase.LogoutInput{ID: account.ID, Password: tt.new}))
			_, err = srv.Login(ctx, usecase.LoginInput{Email: "john@x.com", Password: "Pass@123"})
			assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))
			_, err = srv.Login(ctx, usecase.LoginInput{Email: "john@x.com", Password: tt.new})
			assert.NoError(t, err)
		})
	}
}

func TestAccountService_ChangePassword_UnknownID(t *testing.T) {
	srv := newScenarioService(t, policy.NewValidator(), nil)

	err := srv.ChangePassword(context.Background(), usecase.ChangePasswordInput{ID: 42, OldPassword: "x", NewPassword: "y"})
	require.True(t, errors.Is(err, domainerrors.ErrUnknownID))

	appErr, ok := errors.AsType[domainerrors.AppError](err)
	require.True(t, ok)
	assert.Equal(t, "No user exists with Id 42.", appErr.Message())
}

func TestAccountService_Logout(t *testing.T) {
	ctx := context.Background()
	srv := newScenarioService(t, policy.NewValidator(), nil)
	account := registerJohn(t, srv)

	err := srv.Logout(ctx, usecase.LogoutInput{ID: account.ID, Password: "Pass@123"})
	assert.True(t, errors.Is(err, domainerrors.ErrNotLoggedIn))

	loginJohn(t, srv)

	err = srv.Logout(ctx, usecase.LogoutInput{ID: account.ID, Password: "Wrong@123"})
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))

	require.NoError(t, srv.Logout(ctx, usecase.LogoutInput{ID: account.ID, Password: "Pass@123"}))

	accounts, err := srv.ListAccounts(ctx)
	require.NoError(t, err)
	assert.False(t, accounts[0].LoggedIn)

	err = srv.Logout(ctx, usecase.LogoutInput{ID: 99, Password: "Pass@123"})
	assert.True(t, errors.Is(err, domainerrors.ErrUnknownID))
}

func TestAccountService_Login_Failures(t *testing.T) {
	ctx := context.Background()
	srv := newScenarioService(t, policy.NewValidator(), nil)
	registerJohn(t, srv)

	_, err := srv.Login(ctx, usecase.LoginInput{Email: "nobody@x.com", Password: "Pass@123"})
	assert.True(t, errors.Is(err, domainerrors.ErrEmailNotFound))

	_, err = srv.Login(ctx, usecase.LoginInput{Email: "john@x.com", Password: "nopolicy"})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidPassword))

	_, err = srv.Login(ctx, usecase.LoginInput{Email: "john@x.com", Password: "Wrong@123"})
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))

	accounts, err := srv.ListAccounts(ctx)
	require.NoError(t, err)
	assert.False(t, accounts[0].LoggedIn)
}

func TestAccountService_Delete(t *testing.T) {
	t.Run("mismatch keeps the account", func(t *testing.T) {
		ctx := context.Background()
		srv := newScenarioService(t, permissiveValidator{}, nil)
		account := registerJohn(t, srv)

		err := srv.Delete(ctx, usecase.DeleteInput{ID: account.ID, Password: "WrongPass1"})
		assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))

		accounts, err := srv.ListAccounts(ctx)
		require.NoError(t, err)
		assert.Len(t, accounts, 1)
	})

	t.Run("policy runs before verification", func(t *testing.T) {
		ctx := context.Background()
		srv := newScenarioService(t, policy.NewValidator(), nil)
		account := registerJohn(t, srv)

		err := srv.Delete(ctx, usecase.DeleteInput{ID: account.ID, Password: "WrongPass1"})
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidPassword))

		err = srv.Delete(ctx, usecase.DeleteInput{ID: account.ID, Password: "Wrong@123"})
		assert.True(t, errors.Is(err, domainerrors.ErrPasswordMismatch))
	})

	t.Run("success frees the email", func(t *testing.T) {
		ctx := context.Background()
		srv := newScenarioService(t, policy.NewValidator(), nil)
		account := registerJohn(t, srv)

		require.NoError(t, srv.Delete(ctx, usecase.DeleteInput{ID: account.ID, Password: "Pass@123"}))

		_, err := srv.ListAccounts(ctx)
		assert.True(t, errors.Is(err, domainerrors.ErrNoAccounts))

		err = srv.Delete(ctx, usecase.DeleteInput{ID: account.ID, Password: "Pass@123"})
		assert.True(t, errors.Is(err, domainerrors.ErrUnknownID))

		again := registerJohn(t, srv)
		assert.Greater(t, again.ID, account.ID)
	})
}

func TestAccountService_ConcurrentLoginLogout(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	srv := newScenarioService(t, policy.NewValidator(), nil)
	account := registerJohn(t, srv)
	loginJohn(t, srv)

	const workers = 8
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- srv.Logout(ctx, usecase.LogoutInput{ID: account.ID, Password: "Pass@123"})
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++

			continue
		}
		assert.True(t, errors.Is(err, domainerrors.ErrNotLoggedIn))
	}
	assert.Equal(t, 1, succeeded)
}

func TestAccountService_PublishesEvents(t *testing.T) {
	ctx := deliverycontext.WithRequestID(context.Background(), "req-42")
	publisher := mockSvc.NewMockEventPublisher(t)

	var got []service.AccountEventType
	publisher.EXPECT().
		PublishAccountEvent(mock.Anything, mock.AnythingOfType("*service.AccountEvent")).
		Run(func(_ context.Context, event *service.AccountEvent) {
			assert.Equal(t, "req-42", event.RequestID)
			assert.Equal(t, "john@x.com", event.Email)
			assert.False(t, event.OccurredAt.IsZero())
			got = append(got, event.Type)
		}).
		Return(nil)

	srv := newScenarioService(t, policy.NewValidator(), publisher)

	account, err := srv.Register(ctx, usecase.RegisterInput{FirstName: "John", LastName: "Doe", Email: "john@x.com", Password: "Pass@123"})
	require.NoError(t, err)
	_, err = srv.Login(ctx, usecase.LoginInput{Email: "john@x.com", Password: "Pass@123"})
	require.NoError(t, err)
	require.NoError(t, srv.ChangePassword(ctx, usecase.ChangePasswordInput{ID: account.ID, OldPassword: "Pass@123", NewPassword: "New@1234"}))
	require.NoError(t, srv.Logout(ctx, usecase.LogoutInput{ID: account.ID, Password: "New@1234"}))
	require.NoError(t, srv.Delete(ctx, usecase.DeleteInput{ID: account.ID, Password: "New@1234"}))

	// Rejected operations publish nothing.
	_, err = srv.Login(ctx, usecase.LoginInput{Email: "john@x.com", Password: "New@1234"})
	require.Error(t, err)

	assert.Equal(t, []service.AccountEventType{
		service.EventAccountRegistered,
		service.EventAccountLoggedIn,
		service.EventAccountPasswordChanged,
		service.EventAccountLoggedOut,
		service.EventAccountDeleted,
	}, got)
}

func TestAccountService_PublishFailureDoesNotFailOperation(t *testing.T) {
	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.EXPECT().PublishAccountEvent(mock.Anything, mock.Anything).Return(errors.New("broker down"))

	srv := newScenarioService(t, policy.NewValidator(), publisher)

	account := registerJohn(t, srv)
	assert.Positive(t, account.ID)
}

func TestAccountService_StorageFailures(t *testing.T) {
	errDB := errors.New("connection refused")

	t.Run("list", func(t *testing.T) {
		repo := mockRepo.NewMockAccountRepository(t)
		repo.EXPECT().FindAll(mock.Anything).Return(nil, errDB)

		srv := NewAccountService(AccountServiceParams{
			AccountRepo: repo,
			Validator:   policy.NewValidator(),
			Logger:      newTestLogger(),
		})

		_, err := srv.ListAccounts(context.Background())
		require.True(t, errors.Is(err, domainerrors.ErrStorageFailure))
		assert.ErrorIs(t, err, errDB)

		appErr, ok := errors.AsType[domainerrors.AppError](err)
		require.True(t, ok)
		assert.Equal(t, "Something went wrong in the service layer while fetching all users.", appErr.Message())
		assert.Equal(t, domainerrors.ClassStorage, appErr.Class())
	})

	t.Run("register pre-check", func(t *testing.T) {
		repo := mockRepo.NewMockAccountRepository(t)
		repo.EXPECT().FindByEmail(mock.Anything, "john@x.com").Return(nil, errDB)

		srv := NewAccountService(AccountServiceParams{
			AccountRepo: repo,
			Validator:   policy.NewValidator(),
			Logger:      newTestLogger(),
		})

		_, err := srv.Register(context.Background(), usecase.RegisterInput{FirstName: "John", LastName: "Doe", Email: "john@x.com", Password: "Pass@123"})
		assert.True(t, errors.Is(err, domainerrors.ErrStorageFailure))
	})

	t.Run("commit", func(t *testing.T) {
		txManager := mockRepo.NewMockTransactionManager(t)
		txManager.EXPECT().
			Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
			Return(errDB)

		srv := NewAccountService(AccountServiceParams{
			TxManager: txManager,
			Validator: policy.NewValidator(),
			Logger:    newTestLogger(),
		})

		err := srv.Logout(context.Background(), usecase.LogoutInput{ID: 1, Password: "Pass@123"})
		require.True(t, errors.Is(err, domainerrors.ErrStorageFailure))

		appErr, ok := errors.AsType[domainerrors.AppError](err)
		require.True(t, ok)
		assert.Contains(t, appErr.Message(), "logging out the user")
	})

	t.Run("lock", func(t *testing.T) {
		txManager := mockRepo.NewMockTransactionManager(t)
		repo := mockRepo.NewMockAccountRepository(t)
		repo.EXPECT().LockByID(mock.Anything, int64(1)).Return(nil, errDB)
		txManager.EXPECT().
			Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
			RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
				factory := mockRepo.NewMockRepositoryFactory(t)
				factory.EXPECT().AccountRepo().Return(repo)

				return fn(factory)
			})

		srv := NewAccountService(AccountServiceParams{
			TxManager: txManager,
			Validator: policy.NewValidator(),
			Logger:    newTestLogger(),
		})

		err := srv.Delete(context.Background(), usecase.DeleteInput{ID: 1, Password: "Pass@123"})
		assert.True(t, errors.Is(err, domainerrors.ErrStorageFailure))
		assert.ErrorIs(t, err, errDB)
	})
}

func TestAccountService_Register_CreateConflictIsEmailTaken(t *testing.T) {
	repo := mockRepo.NewMockAccountRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	validator := mockSvc.NewMockAccountValidator(t)

	validator.EXPECT().IsValidName(mock.Anything).Return(true)
	validator.EXPECT().IsValidEmail("john@x.com").Return(true)
	validator.EXPECT().IsValidPassword("Pass@123").Return(true)
	repo.EXPECT().FindByEmail(mock.Anything, "john@x.com").Return(nil, repository.ErrAccountNotFound)
	hasher.EXPECT().Hash("Pass@123").Return("hashed", nil)
	repo.EXPECT().Create(mock.Anything, mock.MatchedBy(func(a *entity.Account) bool {
		return a.PasswordHash == "hashed" && !a.LoggedIn
	})).Return(errors.Wrap(repository.ErrEmailConflict, "duplicate key"))

	srv := NewAccountService(AccountServiceParams{
		AccountRepo: repo,
		Hasher:      hasher,
		Validator:   validator,
		Logger:      newTestLogger(),
	})

	_, err := srv.Register(context.Background(), usecase.RegisterInput{FirstName: "John", LastName: "Doe", Email: "john@x.com", Password: "Pass@123"})
	assert.True(t, errors.Is(err, domainerrors.ErrEmailTaken))
}

func TestAccountService_RecordsOutcomes(t *testing.T) {
	recorder := mockSvc.NewMockOperationRecorder(t)
	recorder.EXPECT().RecordOperation(opListAccounts, "no_accounts", mock.Anything).Once()
	recorder.EXPECT().RecordOperation(opRegister, outcomeSuccess, mock.Anything).Once()
	recorder.EXPECT().RecordOperation(opListAccounts, outcomeSuccess, mock.Anything).Once()

	store := memory.NewStore()
	srv := NewAccountService(AccountServiceParams{
		TxManager:   memory.NewTransactionManager(store),
		AccountRepo: memory.NewAccountRepository(store),
		Hasher:      auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		Validator:   policy.NewValidator(),
		Recorder:    recorder,
		Logger:      newTestLogger(),
	})

	_, err := srv.ListAccounts(context.Background())
	require.Error(t, err)
	registerJohn(t, srv)
	_, err = srv.ListAccounts(context.Background())
	require.NoError(t, err)
}
