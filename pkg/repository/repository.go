package repository

import (
	"context"

	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/google/uuid"
)

// CustomerRepository defines the interface for customer data access operations.
// Lookups of unknown records return an error matching domain.ErrNotFound and
// uniqueness violations one matching domain.ErrConflict.
type CustomerRepository interface {
	// Create inserts c and sets its ID.
	Create(ctx context.Context, c *customer.Customer) error
	Update(ctx context.Context, c *customer.Customer) error
	GetByCode(ctx context.Context, code uuid.UUID) (*customer.Customer, error)
	GetByEmail(ctx context.Context, email string) (*customer.Customer, error)
	// List returns all customers in creation order.
	List(ctx context.Context) ([]*customer.Customer, error)
}

// AccountRepository defines the interface for account data access operations.
type AccountRepository interface {
	// Create inserts a and sets its ID.
	Create(ctx context.Context, a *account.Account) error
	GetByCode(ctx context.Context, code uuid.UUID) (*account.Account, error)
	GetByCustomerID(ctx context.Context, customerID uint) (*account.Account, error)
	// GetForUpdate loads the accounts with the given codes and holds them
	// until the surrounding unit of work ends. Rows are locked in id order.
	// Unknown codes are absent from the result.
	GetForUpdate(ctx context.Context, codes ...uuid.UUID) (map[uuid.UUID]*account.Account, error)
	// UpdateBalance persists the balance and UpdatedAt of a.
	UpdateBalance(ctx context.Context, a *account.Account) error
	// List returns all accounts in creation order.
	List(ctx context.Context) ([]*account.Account, error)
}

// TransactionRepository defines the interface for the append-only ledger.
type TransactionRepository interface {
	// Create appends tx and sets its ID.
	Create(ctx context.Context, tx *account.Transaction) error
	// ListSent returns transfers sent by the account, oldest first.
	ListSent(ctx context.Context, accountID uint) ([]*account.Transaction, error)
	// ListReceived returns transfers received by the account, oldest first.
	ListReceived(ctx context.Context, accountID uint) ([]*account.Transaction, error)
	// ListByAccount returns every entry touching the account, newest first.
	ListByAccount(ctx context.Context, accountID uint) ([]*account.Transaction, error)
}
