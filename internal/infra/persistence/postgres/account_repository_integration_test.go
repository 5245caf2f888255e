//go:build integration

package postgres

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"userauth/internal/domain/entity"
	"userauth/internal/domain/repository"
	"userauth/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("userauth_test"),
		tcpostgres.WithUsername("userauth"),
		tcpostgres.WithPassword("userauth"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	db = configureSession(db, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	require.NoError(t, Migrate(ctx, db, MigrateUp, nil))

	return db
}

func newIntegrationAccount(email string) *entity.Account {
	return &entity.Account{
		FirstName:    "John",
		LastName:     "Doe",
		Email:        email,
		PasswordHash: "$2a$04$abcdefghijklmnopqrstuuJ3vYJ0mY3cP1uQm1bFq9e2Yb6l0pZ6e",
	}
}

func TestAccountRepository_Integration(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewAccountRepository(db)

	account := newIntegrationAccount("john@x.com")
	require.NoError(t, repo.Create(ctx, account))
	assert.Positive(t, account.ID)
	assert.False(t, account.CreatedAt.IsZero())

	err := repo.Create(ctx, newIntegrationAccount("john@x.com"))
	assert.True(t, errors.Is(err, repository.ErrEmailConflict))

	found, err := repo.FindByEmail(ctx, "john@x.com")
	require.NoError(t, err)
	assert.Equal(t, account.ID, found.ID)
	assert.False(t, found.LoggedIn)

	found.LoggedIn = true
	require.NoError(t, repo.Save(ctx, found))

	reloaded, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.LoggedIn)

	reloaded.LoggedIn = false
	require.NoError(t, repo.Save(ctx, reloaded))
	reloaded, err = repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.LoggedIn)

	exists, err := repo.ExistsByID(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	second := newIntegrationAccount("jane@x.com")
	require.NoError(t, repo.Create(ctx, second))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Less(t, all[0].ID, all[1].ID)

	require.NoError(t, repo.DeleteByID(ctx, account.ID))
	require.NoError(t, repo.DeleteByID(ctx, account.ID))
	_, err = repo.FindByID(ctx, account.ID)
	assert.True(t, errors.Is(err, repository.ErrAccountNotFound))

	third := newIntegrationAccount("john@x.com")
	require.NoError(t, repo.Create(ctx, third))
	assert.Greater(t, third.ID, second.ID)

	err = repo.Save(ctx, &entity.Account{ID: 9999, Email: "ghost@x.com", PasswordHash: "x"})
	assert.True(t, errors.Is(err, repository.ErrAccountNotFound))
}

func TestTransactionManager_Integration_RollbackAndLock(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewAccountRepository(db)
	txManager := NewTransactionManager(db)

	account := newIntegrationAccount("john@x.com")
	require.NoError(t, repo.Create(ctx, account))

	errRollback := errors.New("rollback")
	err := txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		locked, err := factory.AccountRepo().LockByID(ctx, account.ID)
		require.NoError(t, err)
		locked.LoggedIn = true
		require.NoError(t, factory.AccountRepo().Save(ctx, locked))

		return errRollback
	})
	assert.ErrorIs(t, err, errRollback)

	found, err := repo.FindByID(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, found.LoggedIn)

	// Only one of the concurrent check-then-set transactions may flip the flag.
	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
				locked, err := factory.AccountRepo().LockByEmail(ctx, "john@x.com")
				if err != nil {
					return err
				}
				if locked.LoggedIn {
					return errors.New("already logged in")
				}
				locked.LoggedIn = true

				return factory.AccountRepo().Save(ctx, locked)
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}
