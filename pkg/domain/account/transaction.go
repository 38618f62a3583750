package account

import (
	"time"

	"github.com/amirasaad/minibank/pkg/money"
	"github.com/google/uuid"
)

// Kind tells deposits and transfers apart in the ledger.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindTransfer Kind = "transfer"
)

// Status of a ledger entry. Entries are only written once they completed.
type Status string

const StatusCompleted Status = "completed"

// Transaction is an immutable ledger entry. Deposits have no sender.
type Transaction struct {
	ID                uint
	Code              uuid.UUID
	Kind              Kind
	SenderAccountID   *uint
	SenderCode        *uuid.UUID
	ReceiverAccountID uint
	ReceiverCode      uuid.UUID
	Amount            money.Amount
	Status            Status
	CreatedAt         time.Time
}

// Transfers groups an account's transfers by direction.
type Transfers struct {
	Sent     []*Transaction
	Received []*Transaction
}

func newTransaction(kind Kind, sender, receiver *Account, amount money.Amount, now time.Time) *Transaction {
	tx := &Transaction{
		Code:              uuid.New(),
		Kind:              kind,
		ReceiverAccountID: receiver.ID,
		ReceiverCode:      receiver.Code,
		Amount:            amount,
		Status:            StatusCompleted,
		CreatedAt:         now.UTC(),
	}
	if sender != nil {
		id, code := sender.ID, sender.Code
		tx.SenderAccountID = &id
		tx.SenderCode = &code
	}
	return tx
}
