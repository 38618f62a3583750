package repository

import (
	"time"

	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a customer record in the database.
type Customer struct {
	ID          uint      `gorm:"primaryKey"`
	Code        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Name        string    `gorm:"not null;size:255"`
	Email       string    `gorm:"uniqueIndex;not null;size:255"`
	DateOfBirth time.Time `gorm:"type:date;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Account represents an account record in the database. The unique index on
// customer_id keeps one account per customer.
type Account struct {
	ID           uint      `gorm:"primaryKey"`
	Code         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	CustomerID   uint      `gorm:"uniqueIndex;not null"`
	CustomerCode uuid.UUID `gorm:"type:uuid;not null"`
	Balance      int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Transaction represents a persisted ledger entry.
type Transaction struct {
	ID                uint       `gorm:"primaryKey"`
	Code              uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	Kind              string     `gorm:"type:varchar(16);not null"`
	SenderAccountID   *uint      `gorm:"index"`
	SenderCode        *uuid.UUID `gorm:"type:uuid"`
	ReceiverAccountID uint       `gorm:"index;not null"`
	ReceiverCode      uuid.UUID  `gorm:"type:uuid;not null"`
	Amount            int64      `gorm:"not null"`
	Status            string     `gorm:"type:varchar(16);not null"`
	CreatedAt         time.Time
}

func (Customer) TableName() string    { return "customers" }
func (Account) TableName() string     { return "accounts" }
func (Transaction) TableName() string { return "transactions" }

// Migrate creates or updates the ledger tables and their indexes.
func Migrate(db *gorm.DB) error {
	return MapGormErrorToDomain(db.AutoMigrate(&Customer{}, &Account{}, &Transaction{}))
}

func customerToModel(c *customer.Customer) *Customer {
	return &Customer{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Email:       c.Email,
		DateOfBirth: c.DateOfBirth,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func customerFromModel(m *Customer) *customer.Customer {
	dob := m.DateOfBirth
	return &customer.Customer{
		ID:          m.ID,
		Code:        m.Code,
		Name:        m.Name,
		Email:       m.Email,
		DateOfBirth: time.Date(dob.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func accountToModel(a *account.Account) *Account {
	return &Account{
		ID:           a.ID,
		Code:         a.Code,
		CustomerID:   a.CustomerID,
		CustomerCode: a.CustomerCode,
		Balance:      a.Balance.Minor(),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func accountFromModel(m *Account) *account.Account {
	return &account.Account{
		ID:           m.ID,
		Code:         m.Code,
		CustomerID:   m.CustomerID,
		CustomerCode: m.CustomerCode,
		Balance:      money.Amount(m.Balance),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func transactionToModel(tx *account.Transaction) *Transaction {
	return &Transaction{
		ID:                tx.ID,
		Code:              tx.Code,
		Kind:              string(tx.Kind),
		SenderAccountID:   tx.SenderAccountID,
		SenderCode:        tx.SenderCode,
		ReceiverAccountID: tx.ReceiverAccountID,
		ReceiverCode:      tx.ReceiverCode,
		Amount:            tx.Amount.Minor(),
		Status:            string(tx.Status),
		CreatedAt:         tx.CreatedAt,
	}
}

func transactionFromModel(m *Transaction) *account.Transaction {
	return &account.Transaction{
		ID:                m.ID,
		Code:              m.Code,
		Kind:              account.Kind(m.Kind),
		SenderAccountID:   m.SenderAccountID,
		SenderCode:        m.SenderCode,
		ReceiverAccountID: m.ReceiverAccountID,
		ReceiverCode:      m.ReceiverCode,
		Amount:            money.Amount(m.Amount),
		Status:            account.Status(m.Status),
		CreatedAt:         m.CreatedAt,
	}
}
