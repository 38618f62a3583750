package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/google/uuid"
)

type customerRepo struct {
	tx *tx
}

func (r *customerRepo) Create(ctx context.Context, c *customer.Customer) error {
	c.ID = r.tx.s.nextID(&r.tx.s.lastCustomerID)
	r.tx.customers[c.ID] = *c
	return r.tx.flush()
}

func (r *customerRepo) Update(ctx context.Context, c *customer.Customer) error {
	if _, ok := r.tx.customer(c.ID); !ok {
		return fmt.Errorf("customer %d: %w", c.ID, domain.ErrNotFound)
	}
	r.tx.customers[c.ID] = *c
	return r.tx.flush()
}

func (r *customerRepo) GetByCode(ctx context.Context, code uuid.UUID) (*customer.Customer, error) {
	return r.find(func(c customer.Customer) bool { return c.Code == code }, code.String())
}

func (r *customerRepo) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	return r.find(func(c customer.Customer) bool { return c.Email == email }, email)
}

func (r *customerRepo) List(ctx context.Context) ([]*customer.Customer, error) {
	ids := r.tx.allCustomerIDs()
	out := make([]*customer.Customer, 0, len(ids))
	for _, id := range ids {
		if c, ok := r.tx.customer(id); ok {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *customerRepo) find(match func(customer.Customer) bool, key string) (*customer.Customer, error) {
	for _, id := range r.tx.allCustomerIDs() {
		if c, ok := r.tx.customer(id); ok && match(c) {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("customer %s: %w", key, domain.ErrNotFound)
}

type accountRepo struct {
	tx *tx
}

func (r *accountRepo) Create(ctx context.Context, a *account.Account) error {
	a.ID = r.tx.s.nextID(&r.tx.s.lastAccountID)
	r.tx.accounts[a.ID] = *a
	return r.tx.flush()
}

func (r *accountRepo) GetByCode(ctx context.Context, code uuid.UUID) (*account.Account, error) {
	return r.find(func(a account.Account) bool { return a.Code == code }, code.String())
}

func (r *accountRepo) GetByCustomerID(ctx context.Context, customerID uint) (*account.Account, error) {
	return r.find(func(a account.Account) bool { return a.CustomerID == customerID }, fmt.Sprintf("of customer %d", customerID))
}

// GetForUpdate records the version of every account it returns; the commit
// fails if any of them changed in the meantime.
func (r *accountRepo) GetForUpdate(ctx context.Context, codes ...uuid.UUID) (map[uuid.UUID]*account.Account, error) {
	out := make(map[uuid.UUID]*account.Account, len(codes))
	for _, id := range r.tx.allAccountIDs() {
		a, ok := r.tx.account(id)
		if ok && slices.Contains(codes, a.Code) {
			out[a.Code] = &a
		}
	}
	return out, nil
}

func (r *accountRepo) UpdateBalance(ctx context.Context, a *account.Account) error {
	stored, ok := r.tx.account(a.ID)
	if !ok {
		return fmt.Errorf("account %d: %w", a.ID, domain.ErrNotFound)
	}
	stored.Balance = a.Balance
	stored.UpdatedAt = a.UpdatedAt
	r.tx.accounts[a.ID] = stored
	return r.tx.flush()
}

func (r *accountRepo) List(ctx context.Context) ([]*account.Account, error) {
	ids := r.tx.allAccountIDs()
	out := make([]*account.Account, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.tx.account(id); ok {
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r *accountRepo) find(match func(account.Account) bool, key string) (*account.Account, error) {
	for _, id := range r.tx.allAccountIDs() {
		if a, ok := r.tx.account(id); ok && match(a) {
			return &a, nil
		}
	}
	return nil, fmt.Errorf("account %s: %w", key, domain.ErrNotFound)
}

type transactionRepo struct {
	tx *tx
}

func (r *transactionRepo) Create(ctx context.Context, t *account.Transaction) error {
	t.ID = r.tx.s.nextID(&r.tx.s.lastTransactionID)
	r.tx.transactions = append(r.tx.transactions, *t)
	return r.tx.flush()
}

func (r *transactionRepo) ListSent(ctx context.Context, accountID uint) ([]*account.Transaction, error) {
	return r.filter(func(t account.Transaction) bool {
		return t.Kind == account.KindTransfer && t.SenderAccountID != nil && *t.SenderAccountID == accountID
	}, false), nil
}

func (r *transactionRepo) ListReceived(ctx context.Context, accountID uint) ([]*account.Transaction, error) {
	return r.filter(func(t account.Transaction) bool {
		return t.Kind == account.KindTransfer && t.ReceiverAccountID == accountID
	}, false), nil
}

func (r *transactionRepo) ListByAccount(ctx context.Context, accountID uint) ([]*account.Transaction, error) {
	return r.filter(func(t account.Transaction) bool {
		return t.ReceiverAccountID == accountID || (t.SenderAccountID != nil && *t.SenderAccountID == accountID)
	}, true), nil
}

func (r *transactionRepo) filter(match func(account.Transaction) bool, newestFirst bool) []*account.Transaction {
	all := r.tx.allTransactions()
	out := make([]*account.Transaction, 0)
	for i := range all {
		if match(all[i]) {
			out = append(out, &all[i])
		}
	}
	slices.SortFunc(out, func(a, b *account.Transaction) int {
		if newestFirst {
			a, b = b, a
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
