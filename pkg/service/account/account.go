// Package account provides business logic for the account ledger: opening
// accounts, deposits, transfers and statements.
//
// Every balance change holds the in-process lock of each account involved
// and loads the rows for update inside one unit of work, so concurrent
// requests on an account are applied one after another and a transfer moves
// money between both accounts or not at all.
package account

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/amirasaad/minibank/pkg/service"
	"github.com/google/uuid"
)

// Service provides business logic for account operations.
type Service struct {
	exec   *service.Executor
	bus    eventbus.Bus
	logger *slog.Logger
	limits account.Limits
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLimits overrides account.DefaultLimits.
func WithLimits(l account.Limits) Option {
	return func(s *Service) { s.limits = l }
}

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a new Service. bus may be nil.
func New(
	exec *service.Executor,
	bus eventbus.Bus,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		exec:   exec,
		bus:    bus,
		logger: logger,
		limits: account.DefaultLimits(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Limits returns the amount bounds applied to deposits and transfers.
func (s *Service) Limits() account.Limits { return s.limits }

// OpenAccount opens the single account of a customer with a zero balance.
func (s *Service) OpenAccount(
	ctx context.Context,
	customerCode uuid.UUID,
) (a *account.Account, err error) {
	logger := s.logger.With("customerCode", customerCode)
	logger.Info("OpenAccount started")

	err = s.exec.Do(ctx, []string{service.CustomerKey(customerCode)}, func(ctx context.Context, uow repository.UnitOfWork) error {
		customers, err := uow.CustomerRepository()
		if err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		c, err := customers.GetByCode(ctx, customerCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return customer.ErrCustomerNotFound
			}
			return err
		}
		switch _, err = accounts.GetByCustomerID(ctx, c.ID); {
		case err == nil:
			return account.ErrAccountExists
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		a = account.New(c, s.now())
		if err = accounts.Create(ctx, a); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return account.ErrAccountExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		logger.Warn("OpenAccount failed", "error", err)
		a = nil
		return
	}
	logger.Info("OpenAccount succeeded", "code", a.Code)
	service.Publish(ctx, s.bus, logger, events.NewAccountOpened(a, s.now()))
	return
}

// GetAccount returns the account with the given code.
func (s *Service) GetAccount(
	ctx context.Context,
	code uuid.UUID,
) (a *account.Account, err error) {
	err = s.exec.Do(ctx, nil, func(ctx context.Context, uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a, err = getByCode(ctx, repo, code)
		return err
	})
	if err != nil {
		a = nil
	}
	return
}

// ListAccounts returns every account in opening order.
func (s *Service) ListAccounts(ctx context.Context) (as []*account.Account, err error) {
	err = s.exec.Do(ctx, nil, func(ctx context.Context, uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		as, err = repo.List(ctx)
		return err
	})
	if err != nil {
		as = nil
	}
	return
}

// Deposit adds amount to the account and records a deposit entry.
// It returns the account with its new balance.
func (s *Service) Deposit(
	ctx context.Context,
	code uuid.UUID,
	amount money.Amount,
) (a *account.Account, err error) {
	logger := s.logger.With("code", code, "amount", amount)
	logger.Info("Deposit started")

	var tx *account.Transaction
	err = s.exec.Do(ctx, []string{service.AccountKey(code)}, func(ctx context.Context, uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		locked, err := accounts.GetForUpdate(ctx, code)
		if err != nil {
			return err
		}
		var ok bool
		if a, ok = locked[code]; !ok {
			return account.ErrAccountNotFound
		}
		if tx, err = a.Deposit(amount, s.limits, s.now()); err != nil {
			return err
		}
		if err = accounts.UpdateBalance(ctx, a); err != nil {
			return err
		}
		return txs.Create(ctx, tx)
	})
	if err != nil {
		logger.Warn("Deposit failed", "error", err)
		a = nil
		return
	}
	logger.Info("Deposit succeeded", "balance", a.Balance, "transaction", tx.Code)
	service.Publish(ctx, s.bus, logger, events.NewAccountDeposited(a, tx, s.now()))
	return
}

// Transfer moves amount from the sender to the receiver and records one
// transfer entry. Both balances change in the same unit of work.
func (s *Service) Transfer(
	ctx context.Context,
	senderCode, receiverCode uuid.UUID,
	amount money.Amount,
) (tx *account.Transaction, err error) {
	logger := s.logger.With("sender", senderCode, "receiver", receiverCode, "amount", amount)
	logger.Info("Transfer started")

	keys := []string{service.AccountKey(senderCode), service.AccountKey(receiverCode)}
	err = s.exec.Do(ctx, keys, func(ctx context.Context, uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		locked, err := accounts.GetForUpdate(ctx, senderCode, receiverCode)
		if err != nil {
			return err
		}
		sender, ok := locked[senderCode]
		if !ok {
			return account.ErrAccountNotFound
		}
		receiver, ok := locked[receiverCode]
		if !ok {
			return account.ErrAccountNotFound
		}
		if tx, err = account.Transfer(sender, receiver, amount, s.limits, s.now()); err != nil {
			return err
		}
		if err = accounts.UpdateBalance(ctx, sender); err != nil {
			return err
		}
		if err = accounts.UpdateBalance(ctx, receiver); err != nil {
			return err
		}
		return txs.Create(ctx, tx)
	})
	if err != nil {
		logger.Warn("Transfer failed", "error", err)
		tx = nil
		return
	}
	logger.Info("Transfer succeeded", "transaction", tx.Code)
	service.Publish(ctx, s.bus, logger, events.NewTransferCompleted(tx, s.now()))
	return
}

// ListTransfers returns the transfers sent and received by the account.
func (s *Service) ListTransfers(
	ctx context.Context,
	code uuid.UUID,
) (out *account.Transfers, err error) {
	err = s.exec.Do(ctx, nil, func(ctx context.Context, uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		a, err := getByCode(ctx, accounts, code)
		if err != nil {
			return err
		}
		sent, err := txs.ListSent(ctx, a.ID)
		if err != nil {
			return err
		}
		received, err := txs.ListReceived(ctx, a.ID)
		if err != nil {
			return err
		}
		out = &account.Transfers{Sent: sent, Received: received}
		return nil
	})
	if err != nil {
		out = nil
	}
	return
}

// ListTransactions returns every ledger entry of the account, deposits
// included, newest first.
func (s *Service) ListTransactions(
	ctx context.Context,
	code uuid.UUID,
) (out []*account.Transaction, err error) {
	err = s.exec.Do(ctx, nil, func(ctx context.Context, uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		a, err := getByCode(ctx, accounts, code)
		if err != nil {
			return err
		}
		out, err = txs.ListByAccount(ctx, a.ID)
		return err
	})
	if err != nil {
		out = nil
	}
	return
}

func getByCode(ctx context.Context, repo repository.AccountRepository, code uuid.UUID) (*account.Account, error) {
	a, err := repo.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, account.ErrAccountNotFound
	}
	return a, err
}
