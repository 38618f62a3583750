package repository

import (
	"context"
	"fmt"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a new customer repository using the provided *gorm.DB.
func NewCustomerRepository(db *gorm.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	m := customerToModel(c)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	c.ID = m.ID
	return nil
}

func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	res := r.db.WithContext(ctx).Model(&Customer{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":          c.Name,
		"email":         c.Email,
		"date_of_birth": c.DateOfBirth,
		"updated_at":    c.UpdatedAt,
	})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("customer %d: %w", c.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *customerRepository) GetByCode(ctx context.Context, code uuid.UUID) (*customer.Customer, error) {
	var m Customer
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return customerFromModel(&m), nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	var m Customer
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return customerFromModel(&m), nil
}

func (r *customerRepository) List(ctx context.Context) ([]*customer.Customer, error) {
	var ms []Customer
	if err := r.db.WithContext(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*customer.Customer, 0, len(ms))
	for i := range ms {
		out = append(out, customerFromModel(&ms[i]))
	}
	return out, nil
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository using the provided *gorm.DB.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := accountToModel(a)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	a.ID = m.ID
	return nil
}

func (r *accountRepository) GetByCode(ctx context.Context, code uuid.UUID) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&m).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return accountFromModel(&m), nil
}

func (r *accountRepository) GetByCustomerID(ctx context.Context, customerID uint) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&m).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return accountFromModel(&m), nil
}

// GetForUpdate issues SELECT ... FOR UPDATE ordered by id on Postgres so
// that concurrent transfers lock rows in the same order. SQLite serializes
// writers on its own and has no row locks.
func (r *accountRepository) GetForUpdate(
	ctx context.Context,
	codes ...uuid.UUID,
) (map[uuid.UUID]*account.Account, error) {
	out := make(map[uuid.UUID]*account.Account, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	q := r.db.WithContext(ctx).Where("code IN ?", codes).Order("id")
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var ms []Account
	if err := q.Find(&ms).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	for i := range ms {
		out[ms[i].Code] = accountFromModel(&ms[i])
	}
	return out, nil
}

func (r *accountRepository) UpdateBalance(ctx context.Context, a *account.Account) error {
	res := r.db.WithContext(ctx).Model(&Account{}).Where("id = ?", a.ID).Updates(map[string]any{
		"balance":    a.Balance.Minor(),
		"updated_at": a.UpdatedAt,
	})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("account %d: %w", a.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *accountRepository) List(ctx context.Context) ([]*account.Account, error) {
	var ms []Account
	if err := r.db.WithContext(ctx).Order("id").Find(&ms).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.Account, 0, len(ms))
	for i := range ms {
		out = append(out, accountFromModel(&ms[i]))
	}
	return out, nil
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new ledger entry repository using the provided *gorm.DB.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *account.Transaction) error {
	m := transactionToModel(tx)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	tx.ID = m.ID
	return nil
}

func (r *transactionRepository) ListSent(ctx context.Context, accountID uint) ([]*account.Transaction, error) {
	return r.list(r.db.WithContext(ctx).
		Where("sender_account_id = ? AND kind = ?", accountID, string(account.KindTransfer)).
		Order("id"))
}

func (r *transactionRepository) ListReceived(ctx context.Context, accountID uint) ([]*account.Transaction, error) {
	return r.list(r.db.WithContext(ctx).
		Where("receiver_account_id = ? AND kind = ?", accountID, string(account.KindTransfer)).
		Order("id"))
}

func (r *transactionRepository) ListByAccount(ctx context.Context, accountID uint) ([]*account.Transaction, error) {
	return r.list(r.db.WithContext(ctx).
		Where("sender_account_id = ? OR receiver_account_id = ?", accountID, accountID).
		Order("id DESC"))
}

func (r *transactionRepository) list(q *gorm.DB) ([]*account.Transaction, error) {
	var ms []Transaction
	if err := q.Find(&ms).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.Transaction, 0, len(ms))
	for i := range ms {
		out = append(out, transactionFromModel(&ms[i]))
	}
	return out, nil
}
