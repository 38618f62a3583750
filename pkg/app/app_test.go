package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/minibank/infra/eventbus"
	"github.com/amirasaad/minibank/infra/cache"
	"github.com/amirasaad/minibank/infra/repository/memory"
	"github.com/amirasaad/minibank/pkg/app"
	"github.com/amirasaad/minibank/pkg/config"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.App {
	return &config.App{
		Store:       &config.Store{Timeout: time.Second, MaxRetries: 1, RetryBaseDelay: time.Millisecond, RetryMaxDelay: time.Millisecond},
		Ledger:      &config.Ledger{MinAmount: money.MustFromMajor(1), MaxAmount: money.MustFromMajor(500)},
		Customer:    &config.Customer{MinAge: 21},
		Idempotency: &config.Idempotency{TTL: time.Hour, LockTTL: time.Second},
	}
}

func TestNew_WiresServicesFromConfig(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	bus := infraeventbus.NewWithMemory(logger)

	a := app.New(&app.Deps{Uow: memory.New(), EventBus: bus, Logger: logger}, testConfig())
	require.NotNil(t, a.Deps.Locks)
	assert.Nil(t, a.Idempotency)
	assert.Equal(t, money.MustFromMajor(500), a.AccountService.Limits().Max)

	ctx := context.Background()
	_, err := a.CustomerService.CreateCustomer(ctx, customer.Profile{
		Name: "Sam", Email: "sam@example.com", DateOfBirth: time.Now().AddDate(-20, 0, 0),
	})
	require.ErrorIs(t, err, customer.ErrIneligible)

	c, err := a.CustomerService.CreateCustomer(ctx, customer.Profile{
		Name: "Alex", Email: "alex@example.com", DateOfBirth: time.Now().AddDate(-30, 0, 0),
	})
	require.NoError(t, err)
	acc, err := a.AccountService.OpenAccount(ctx, c.Code)
	require.NoError(t, err)

	_, err = a.AccountService.Deposit(ctx, acc.Code, money.MustFromMajor(501))
	require.ErrorIs(t, err, account.ErrInvalidAmount)
	_, err = a.AccountService.Deposit(ctx, acc.Code, money.MustFromMajor(500))
	require.NoError(t, err)

	published := bus.Published()
	require.Len(t, published, 3)
	assert.Equal(t, events.EventTypeCustomerRegistered.String(), published[0].Type())
	assert.Equal(t, events.EventTypeAccountOpened.String(), published[1].Type())
	assert.Equal(t, events.EventTypeAccountDeposited.String(), published[2].Type())

	// the audit subscriber saw every event
	assert.Equal(t, 3, bytes.Count(logs.Bytes(), []byte("Ledger event")))
	assert.Contains(t, logs.String(), acc.Code.String())
}

func TestNew_IdempotencyGuard(t *testing.T) {
	t.Parallel()
	a := app.New(&app.Deps{Uow: memory.New(), IdempotencyStore: cache.NewMemoryIdempotencyStore()}, testConfig())
	assert.NotNil(t, a.Idempotency)
	assert.NotNil(t, a.Deps.Logger)
}

func TestAudit_LogsEventType(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	h := app.Audit(slog.New(slog.NewTextHandler(&logs, nil)))
	require.NoError(t, h(context.Background(), &events.CustomerUpdated{CustomerCode: uuid.New()}))
	assert.Contains(t, logs.String(), "customer.updated")
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestApp_CloseInReverseOrder(t *testing.T) {
	t.Parallel()
	var order []int
	a := app.New(&app.Deps{Uow: memory.New(), Closers: []io.Closer{
		closerFunc(func() error { order = append(order, 1); return nil }),
		closerFunc(func() error { order = append(order, 2); return errors.New("boom") }),
	}}, testConfig())
	require.EqualError(t, a.Close(), "boom")
	assert.Equal(t, []int{2, 1}, order)
}
