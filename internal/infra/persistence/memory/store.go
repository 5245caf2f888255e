// Package memory provides an in-process account store for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"userauth/internal/domain/entity"
	"userauth/internal/domain/repository"
	"userauth/internal/errors"
)

// Store keeps accounts in a map. Transactions are serialized by txMu and their
// writes are staged until commit, so a failed transaction leaves no trace.
type Store struct {
	txMu sync.Mutex

	mu       sync.RWMutex
	accounts map[int64]*entity.Account
	lastID   int64
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[int64]*entity.Account),
		now:      time.Now,
	}
}

// NewAccountRepository returns a repository that is not bound to a transaction.
func NewAccountRepository(store *Store) repository.AccountRepository {
	return &accountRepository{store: store}
}

// NewTransactionManager returns the store's transaction manager.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return store
}

// Execute runs fn with a repository whose writes become visible only if fn returns nil.
func (s *Store) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "transaction not started")
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &txState{staged: make(map[int64]*entity.Account)}
	if err := fn(&repositoryFactory{repo: &accountRepository{store: s, tx: tx}}); err != nil {
		return err
	}

	return s.commit(tx)
}

func (s *Store) commit(tx *txState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, account := range tx.staged {
		if account == nil {
			continue
		}
		for otherID, other := range s.accounts {
			if otherID == id {
				continue
			}
			if staged, ok := tx.staged[otherID]; ok && (staged == nil || staged.Email != other.Email) {
				continue
			}
			if other.Email == account.Email {
				return repository.ErrEmailConflict
			}
		}
	}

	for id, account := range tx.staged {
		if account == nil {
			delete(s.accounts, id)

			continue
		}
		s.accounts[id] = account
	}

	return nil
}

func (s *Store) nextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastID++

	return s.lastID
}

type txState struct {
	// staged holds pending writes; a nil value marks a delete.
	staged map[int64]*entity.Account
}

type repositoryFactory struct {
	repo *accountRepository
}

func (f *repositoryFactory) AccountRepo() repository.AccountRepository {
	return f.repo
}

type accountRepository struct {
	store *Store
	tx    *txState
}

// view returns committed accounts overlaid with the transaction's staged writes.
// Callers must hold store.mu.
func (r *accountRepository) view() map[int64]*entity.Account {
	if r.tx == nil || len(r.tx.staged) == 0 {
		return r.store.accounts
	}

	merged := make(map[int64]*entity.Account, len(r.store.accounts)+len(r.tx.staged))
	for id, account := range r.store.accounts {
		merged[id] = account
	}
	for id, account := range r.tx.staged {
		if account == nil {
			delete(merged, id)

			continue
		}
		merged[id] = account
	}

	return merged
}

func (r *accountRepository) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	account, ok := r.view()[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return clone(account), nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, account := range r.view() {
		if account.Email == email {
			return clone(account), nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (r *accountRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.view()[id]

	return ok, nil
}

func (r *accountRepository) FindAll(ctx context.Context) ([]*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	view := r.view()
	accounts := make([]*entity.Account, 0, len(view))
	for _, account := range view {
		accounts = append(accounts, clone(account))
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })

	return accounts, nil
}

func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := r.store.nextID()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.view() {
		if existing.Email == account.Email {
			return repository.ErrEmailConflict
		}
	}

	now := r.store.now().UTC()
	account.ID = id
	account.CreatedAt = now
	account.UpdatedAt = now
	r.write(id, clone(account))

	return nil
}

func (r *accountRepository) Save(ctx context.Context, account *entity.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	view := r.view()
	if _, ok := view[account.ID]; !ok {
		return repository.ErrAccountNotFound
	}
	for id, existing := range view {
		if id != account.ID && existing.Email == account.Email {
			return repository.ErrEmailConflict
		}
	}

	account.UpdatedAt = r.store.now().UTC()
	r.write(account.ID, clone(account))

	return nil
}

func (r *accountRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.tx != nil {
		r.tx.staged[id] = nil

		return nil
	}
	delete(r.store.accounts, id)

	return nil
}

// LockByID is FindByID; Execute already holds the store-wide transaction lock.
func (r *accountRepository) LockByID(ctx context.Context, id int64) (*entity.Account, error) {
	return r.FindByID(ctx, id)
}

// LockByEmail is FindByEmail; Execute already holds the store-wide transaction lock.
func (r *accountRepository) LockByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.FindByEmail(ctx, email)
}

// write stages inside a transaction and applies directly otherwise. Callers must hold store.mu.
func (r *accountRepository) write(id int64, account *entity.Account) {
	if r.tx != nil {
		r.tx.staged[id] = account

		return
	}
	r.store.accounts[id] = account
}

func clone(account *entity.Account) *entity.Account {
	c := *account

	return &c
}
