// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"time"

	"userauth/internal/domain/entity"
	"userauth/internal/domain/repository"
	"userauth/internal/errors"
	"userauth/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// accountRepository implements the repository.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a repository.AccountRepository interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// FindByID retrieves a single account by its ID.
func (repo *accountRepository) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).Where("id = ?", id).First(&accountM).Error
	if err != nil {
		return nil, translateFindError(err, "failed to find account by id")
	}

	return toAccountDomain(&accountM), nil
}

// FindByEmail retrieves a single account by its email address.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).Where("email = ?", email).First(&accountM).Error
	if err != nil {
		return nil, translateFindError(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

// ExistsByID reports whether an account with the ID is stored.
func (repo *accountRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).Model(&model.AccountModel{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check account existence")
	}

	return count > 0, nil
}

// FindAll returns every account ordered by ID. Outside a transaction the read may be served by a replica.
func (repo *accountRepository) FindAll(ctx context.Context) ([]*entity.Account, error) {
	var accountMs []*model.AccountModel
	err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Read).
		Order("id").
		Find(&accountMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	accounts := make([]*entity.Account, 0, len(accountMs))
	for _, accountM := range accountMs {
		accounts = append(accounts, toAccountDomain(accountM))
	}

	return accounts, nil
}

// Create inserts the account and copies the generated ID and timestamps back onto it.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)
	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		switch {
		case isUniqueConstraintViolation(err):
			return errors.Wrap(repository.ErrEmailConflict, err.Error())
		case isNotNullConstraintViolation(err), isCheckConstraintViolation(err):
			return errors.Wrap(err, "account violates a column constraint")
		}

		return errors.Wrap(err, "failed to create account")
	}

	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt
	account.UpdatedAt = accountM.UpdatedAt

	return nil
}

// Save writes every mutable column of an existing account.
func (repo *accountRepository) Save(ctx context.Context, account *entity.Account) error {
	now := time.Now().UTC()
	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"first_name":    account.FirstName,
			"last_name":     account.LastName,
			"email":         account.Email,
			"password_hash": account.PasswordHash,
			"logged_in":     account.LoggedIn,
			"updated_at":    now,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return errors.Wrap(repository.ErrEmailConflict, result.Error.Error())
		}

		return errors.Wrap(result.Error, "failed to save account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	account.UpdatedAt = now

	return nil
}

// DeleteByID removes the row. Deleting a missing ID is not an error.
func (repo *accountRepository) DeleteByID(ctx context.Context, id int64) error {
	err := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.AccountModel{}).Error
	if err != nil {
		return errors.Wrap(err, "failed to delete account")
	}

	return nil
}

// LockByID reads the row with SELECT ... FOR UPDATE on the primary.
func (repo *accountRepository) LockByID(ctx context.Context, id int64) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.lockingQuery(ctx).Where("id = ?", id).First(&accountM).Error
	if err != nil {
		return nil, translateFindError(err, "failed to lock account by id")
	}

	return toAccountDomain(&accountM), nil
}

// LockByEmail reads the row with SELECT ... FOR UPDATE on the primary.
func (repo *accountRepository) LockByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.lockingQuery(ctx).Where("email = ?", email).First(&accountM).Error
	if err != nil {
		return nil, translateFindError(err, "failed to lock account by email")
	}

	return toAccountDomain(&accountM), nil
}

func (repo *accountRepository) lockingQuery(ctx context.Context) *gorm.DB {
	return repo.db.WithContext(ctx).Clauses(dbresolver.Write, clause.Locking{Strength: "UPDATE"})
}

func translateFindError(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrAccountNotFound
	}

	return errors.Wrap(err, message)
}

func toAccountDomain(accountM *model.AccountModel) *entity.Account {
	if accountM == nil {
		return nil
	}

	return &entity.Account{
		ID:           accountM.ID,
		FirstName:    accountM.FirstName,
		LastName:     accountM.LastName,
		Email:        accountM.Email,
		PasswordHash: accountM.PasswordHash,
		LoggedIn:     accountM.LoggedIn,
		CreatedAt:    accountM.CreatedAt,
		UpdatedAt:    accountM.UpdatedAt,
	}
}

func fromAccountDomain(account *entity.Account) *model.AccountModel {
	return &model.AccountModel{
		ID:           account.ID,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		Email:        account.Email,
		PasswordHash: account.PasswordHash,
		LoggedIn:     account.LoggedIn,
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}
}
