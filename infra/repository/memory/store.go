// Package memory provides an in-process implementation of the repository
// contracts. It is the default store when no database is configured and the
// store used by service tests.
//
// Writes made inside UnitOfWork.Do are buffered and applied together when fn
// returns nil. Uniqueness of customer emails and of one account per customer
// is checked at that point, as is the balance version of every account the
// unit of work changed; a stale version fails the unit with a retryable
// store-unavailable error.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/google/uuid"
)

// errStaleAccount reports a lost update detected at commit.
var errStaleAccount = errors.New("memory store: account changed by a concurrent unit of work")

// Store holds committed state.
type Store struct {
	mu sync.RWMutex

	customers       map[uint]customer.Customer
	customerByCode  map[uuid.UUID]uint
	customerByEmail map[string]uint

	accounts          map[uint]storedAccount
	accountByCode     map[uuid.UUID]uint
	accountByCustomer map[uint]uint

	transactions []account.Transaction

	lastCustomerID, lastAccountID, lastTransactionID uint
}

type storedAccount struct {
	account.Account
	version uint64
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		customers:         make(map[uint]customer.Customer),
		customerByCode:    make(map[uuid.UUID]uint),
		customerByEmail:   make(map[string]uint),
		accounts:          make(map[uint]storedAccount),
		accountByCode:     make(map[uuid.UUID]uint),
		accountByCustomer: make(map[uint]uint),
	}
}

// Do runs fn against a fresh transaction and commits its writes if fn
// returns nil.
func (s *Store) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if err := ctx.Err(); err != nil {
		return domain.Unavailable(err)
	}
	t := newTx(s, false)
	if err := fn(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return domain.Unavailable(err)
	}
	return s.commit(t)
}

// CustomerRepository returns a repository whose writes commit immediately.
func (s *Store) CustomerRepository() (repository.CustomerRepository, error) {
	return &customerRepo{tx: newTx(s, true)}, nil
}

// AccountRepository returns a repository whose writes commit immediately.
func (s *Store) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepo{tx: newTx(s, true)}, nil
}

// TransactionRepository returns a repository whose writes commit immediately.
func (s *Store) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepo{tx: newTx(s, true)}, nil
}

func (s *Store) nextID(last *uint) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	*last++
	return *last
}

func (s *Store) commit(t *tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// check everything before changing anything
	emails := make(map[string]uint, len(t.customers))
	for id, c := range t.customers {
		if owner, ok := s.customerByEmail[c.Email]; ok && owner != id {
			// the owner keeps the email unless this unit of work moves it away
			if moved, pending := t.customers[owner]; !pending || moved.Email == c.Email {
				return fmt.Errorf("customer email %q: %w", c.Email, domain.ErrConflict)
			}
		}
		if other, dup := emails[c.Email]; dup && other != id {
			return fmt.Errorf("customer email %q: %w", c.Email, domain.ErrConflict)
		}
		emails[c.Email] = id
	}
	for id, a := range t.accounts {
		stored, exists := s.accounts[id]
		if !exists {
			if _, taken := s.accountByCustomer[a.CustomerID]; taken {
				return fmt.Errorf("account for customer %d: %w", a.CustomerID, domain.ErrConflict)
			}
			continue
		}
		if v, read := t.versions[id]; read && v != stored.version {
			return domain.Unavailable(errStaleAccount)
		}
	}

	for id := range t.customers {
		if old, ok := s.customers[id]; ok && s.customerByEmail[old.Email] == id {
			delete(s.customerByEmail, old.Email)
		}
	}
	for id, c := range t.customers {
		s.customers[id] = c
		s.customerByCode[c.Code] = id
		s.customerByEmail[c.Email] = id
	}
	for id, a := range t.accounts {
		stored := s.accounts[id]
		s.accounts[id] = storedAccount{Account: a, version: stored.version + 1}
		s.accountByCode[a.Code] = id
		s.accountByCustomer[a.CustomerID] = id
	}
	s.transactions = append(s.transactions, t.transactions...)
	return nil
}

// tx buffers the writes of one unit of work. It is also the UnitOfWork
// handed to fn.
type tx struct {
	s    *Store
	auto bool

	customers    map[uint]customer.Customer
	accounts     map[uint]account.Account
	versions     map[uint]uint64
	transactions []account.Transaction
}

func newTx(s *Store, auto bool) *tx {
	return &tx{
		s:         s,
		auto:      auto,
		customers: make(map[uint]customer.Customer),
		accounts:  make(map[uint]account.Account),
		versions:  make(map[uint]uint64),
	}
}

// Do joins the running unit of work.
func (t *tx) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(t)
}

func (t *tx) CustomerRepository() (repository.CustomerRepository, error) {
	return &customerRepo{tx: t}, nil
}

func (t *tx) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepo{tx: t}, nil
}

func (t *tx) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepo{tx: t}, nil
}

// flush commits the buffered writes of an auto-commit transaction.
func (t *tx) flush() error {
	if !t.auto {
		return nil
	}
	err := t.s.commit(t)
	t.customers = make(map[uint]customer.Customer)
	t.accounts = make(map[uint]account.Account)
	t.versions = make(map[uint]uint64)
	t.transactions = nil
	return err
}

func (t *tx) customer(id uint) (customer.Customer, bool) {
	if c, ok := t.customers[id]; ok {
		return c, true
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	c, ok := t.s.customers[id]
	return c, ok
}

func (t *tx) account(id uint) (account.Account, bool) {
	if a, ok := t.accounts[id]; ok {
		return a, true
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	a, ok := t.s.accounts[id]
	if ok {
		if _, seen := t.versions[id]; !seen {
			t.versions[id] = a.version
		}
	}
	return a.Account, ok
}

func (t *tx) allCustomerIDs() []uint {
	t.s.mu.RLock()
	ids := make([]uint, 0, len(t.s.customers)+len(t.customers))
	for id := range t.s.customers {
		ids = append(ids, id)
	}
	t.s.mu.RUnlock()
	for id := range t.customers {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func (t *tx) allAccountIDs() []uint {
	t.s.mu.RLock()
	ids := make([]uint, 0, len(t.s.accounts)+len(t.accounts))
	for id := range t.s.accounts {
		ids = append(ids, id)
	}
	t.s.mu.RUnlock()
	for id := range t.accounts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func (t *tx) allTransactions() []account.Transaction {
	t.s.mu.RLock()
	out := slices.Clone(t.s.transactions)
	t.s.mu.RUnlock()
	return append(out, t.transactions...)
}

var _ repository.UnitOfWork = (*Store)(nil)
var _ repository.UnitOfWork = (*tx)(nil)
