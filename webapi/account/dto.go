package account

import (
	"time"

	accountdom "github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/google/uuid"
)

// DepositRequest is the body of a deposit. Amount is in major units with at
// most two decimal places.
type DepositRequest struct {
	Amount money.Amount `json:"amount"`
}

// TransferRequest is the body of a transfer.
type TransferRequest struct {
	ReceiverCode string       `json:"receiverCode" validate:"required,uuid"`
	Amount       money.Amount `json:"amount"`
}

// AccountResponse is the JSON view of an account.
type AccountResponse struct {
	Code         uuid.UUID    `json:"code"`
	CustomerCode uuid.UUID    `json:"customerCode"`
	Balance      money.Amount `json:"balance"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// TransactionResponse is the JSON view of a ledger entry.
type TransactionResponse struct {
	Code         uuid.UUID    `json:"code"`
	Kind         string       `json:"kind"`
	SenderCode   *uuid.UUID   `json:"senderCode,omitempty"`
	ReceiverCode uuid.UUID    `json:"receiverCode"`
	Amount       money.Amount `json:"amount"`
	Status       string       `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// TransfersResponse lists the transfers of an account by direction.
type TransfersResponse struct {
	Sent     []*TransactionResponse `json:"sent"`
	Received []*TransactionResponse `json:"received"`
}

// ToAccountResponse maps a to its JSON view.
func ToAccountResponse(a *accountdom.Account) *AccountResponse {
	return &AccountResponse{
		Code:         a.Code,
		CustomerCode: a.CustomerCode,
		Balance:      a.Balance,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toAccountResponses(as []*accountdom.Account) []*AccountResponse {
	out := make([]*AccountResponse, 0, len(as))
	for _, a := range as {
		out = append(out, ToAccountResponse(a))
	}
	return out
}

// ToTransactionResponse maps tx to its JSON view.
func ToTransactionResponse(tx *accountdom.Transaction) *TransactionResponse {
	return &TransactionResponse{
		Code:         tx.Code,
		Kind:         string(tx.Kind),
		SenderCode:   tx.SenderCode,
		ReceiverCode: tx.ReceiverCode,
		Amount:       tx.Amount,
		Status:       string(tx.Status),
		CreatedAt:    tx.CreatedAt,
	}
}

func toTransactionResponses(txs []*accountdom.Transaction) []*TransactionResponse {
	out := make([]*TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToTransactionResponse(tx))
	}
	return out
}
