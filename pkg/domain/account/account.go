package account

import (
	"fmt"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/google/uuid"
)

var (
	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = domain.NewError(domain.ErrNotFound, "account not found")

	// ErrAccountExists is returned when the customer already owns an account.
	ErrAccountExists = domain.NewError(domain.ErrConflict, "customer already has an account")

	// ErrInvalidAmount is returned when a deposit or transfer amount is outside
	// the allowed range.
	ErrInvalidAmount = domain.NewError(domain.ErrValidation, "invalid amount")

	// ErrSameAccount is returned when a transfer names the same account twice.
	ErrSameAccount = fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidAmount)

	// ErrInsufficientFunds is returned when a debit would leave a negative balance.
	ErrInsufficientFunds = domain.NewError(domain.ErrInsufficientFunds, "insufficient funds")
)

// Account is a customer's single ledger account.
//
// Invariants:
//   - Balance is never negative.
//   - Code differs from the owner's customer code.
//   - A customer owns at most one account.
type Account struct {
	ID           uint
	Code         uuid.UUID
	CustomerID   uint
	CustomerCode uuid.UUID
	Balance      money.Amount
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New opens an empty account for c.
func New(c *customer.Customer, now time.Time) *Account {
	code := uuid.New()
	for code == c.Code {
		code = uuid.New()
	}
	now = now.UTC()
	return &Account{
		Code:         code,
		CustomerID:   c.ID,
		CustomerCode: c.Code,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount money.Amount, now time.Time) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	balance, err := a.Balance.Add(amount)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	a.Balance = balance
	a.UpdatedAt = now.UTC()
	return nil
}

// Debit removes amount from the balance, refusing to go below zero.
func (a *Account) Debit(amount money.Amount, now time.Time) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if a.Balance < amount {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	a.UpdatedAt = now.UTC()
	return nil
}

// Deposit validates amount against limits, credits the account and returns
// the ledger entry describing it.
func (a *Account) Deposit(amount money.Amount, limits Limits, now time.Time) (*Transaction, error) {
	if err := limits.Validate(amount); err != nil {
		return nil, err
	}
	if err := a.Credit(amount, now); err != nil {
		return nil, err
	}
	return newTransaction(KindDeposit, nil, a, amount, now), nil
}

// Transfer moves amount from sender to receiver. Either both balances change
// or neither does.
func Transfer(sender, receiver *Account, amount money.Amount, limits Limits, now time.Time) (*Transaction, error) {
	if sender.Code == receiver.Code {
		return nil, ErrSameAccount
	}
	if err := limits.Validate(amount); err != nil {
		return nil, err
	}
	if sender.Balance < amount {
		return nil, ErrInsufficientFunds
	}
	credited, err := receiver.Balance.Add(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	if err := sender.Debit(amount, now); err != nil {
		return nil, err
	}
	receiver.Balance = credited
	receiver.UpdatedAt = now.UTC()
	return newTransaction(KindTransfer, sender, receiver, amount, now), nil
}
