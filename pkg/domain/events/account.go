package events

import (
	"time"

	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/google/uuid"
)

// AccountOpened is emitted once a new account is committed.
type AccountOpened struct {
	Meta
	AccountCode  uuid.UUID `json:"accountCode"`
	CustomerCode uuid.UUID `json:"customerCode"`
}

// AccountDeposited is emitted once a deposit is committed.
type AccountDeposited struct {
	Meta
	AccountCode     uuid.UUID    `json:"accountCode"`
	TransactionCode uuid.UUID    `json:"transactionCode"`
	Amount          money.Amount `json:"amount"`
	Balance         money.Amount `json:"balance"`
}

// TransferCompleted is emitted once both legs of a transfer are committed.
type TransferCompleted struct {
	Meta
	TransactionCode uuid.UUID    `json:"transactionCode"`
	SenderCode      uuid.UUID    `json:"senderCode"`
	ReceiverCode    uuid.UUID    `json:"receiverCode"`
	Amount          money.Amount `json:"amount"`
}

func (e AccountOpened) Type() string     { return EventTypeAccountOpened.String() }
func (e AccountDeposited) Type() string  { return EventTypeAccountDeposited.String() }
func (e TransferCompleted) Type() string { return EventTypeTransferCompleted.String() }

func NewAccountOpened(a *account.Account, now time.Time) *AccountOpened {
	return &AccountOpened{Meta: newMeta(now), AccountCode: a.Code, CustomerCode: a.CustomerCode}
}

func NewAccountDeposited(a *account.Account, tx *account.Transaction, now time.Time) *AccountDeposited {
	return &AccountDeposited{
		Meta:            newMeta(now),
		AccountCode:     a.Code,
		TransactionCode: tx.Code,
		Amount:          tx.Amount,
		Balance:         a.Balance,
	}
}

func NewTransferCompleted(tx *account.Transaction, now time.Time) *TransferCompleted {
	e := &TransferCompleted{
		Meta:            newMeta(now),
		TransactionCode: tx.Code,
		ReceiverCode:    tx.ReceiverCode,
		Amount:          tx.Amount,
	}
	if tx.SenderCode != nil {
		e.SenderCode = *tx.SenderCode
	}
	return e
}
