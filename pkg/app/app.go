package app

import (
	"errors"
	"io"
	"log/slog"

	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/amirasaad/minibank/pkg/idempotency"
	"github.com/amirasaad/minibank/pkg/lock"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/amirasaad/minibank/pkg/service"
	accountsvc "github.com/amirasaad/minibank/pkg/service/account"
	customersvc "github.com/amirasaad/minibank/pkg/service/customer"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	Uow              repository.UnitOfWork
	Locks            *lock.Manager
	EventBus         eventbus.Bus
	IdempotencyStore idempotency.Store
	Logger           *slog.Logger
	// Closers are closed by App.Close, last first.
	Closers []io.Closer
}

type App struct {
	Deps            *Deps
	Config          *config.App
	CustomerService *customersvc.Service
	AccountService  *accountsvc.Service
	Idempotency     *idempotency.Guard
}

// New wires the services over deps using the limits in cfg.
func New(deps *Deps, cfg *config.App) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Locks == nil {
		deps.Locks = lock.New()
	}
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.setupEventBus()

	exec := service.NewExecutor(deps.Uow, deps.Locks, service.StoreOptions{
		Timeout:        cfg.Store.Timeout,
		MaxRetries:     cfg.Store.MaxRetries,
		RetryBaseDelay: cfg.Store.RetryBaseDelay,
		RetryMaxDelay:  cfg.Store.RetryMaxDelay,
	}, deps.Logger)

	app.CustomerService = customersvc.New(exec, deps.EventBus, deps.Logger,
		customersvc.WithMinAge(cfg.Customer.MinAge),
	)
	app.AccountService = accountsvc.New(exec, deps.EventBus, deps.Logger,
		accountsvc.WithLimits(account.Limits{Min: cfg.Ledger.MinAmount, Max: cfg.Ledger.MaxAmount}),
	)
	if deps.IdempotencyStore != nil {
		app.Idempotency = idempotency.New(deps.IdempotencyStore, deps.Logger,
			idempotency.WithTTL(cfg.Idempotency.TTL),
			idempotency.WithLockTTL(cfg.Idempotency.LockTTL),
		)
	}
	return app
}

// Close releases the connections held by the dependencies.
func (a *App) Close() error {
	var errs []error
	for i := len(a.Deps.Closers) - 1; i >= 0; i-- {
		if err := a.Deps.Closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
