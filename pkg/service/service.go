// Package service holds what the business services share: running a unit of
// work under per-key locks with a store timeout and transient-failure
// retries, and publishing events once the work committed.
//
// The services themselves live in sub-packages:
//
//	import "github.com/amirasaad/minibank/pkg/service/account"
//	import "github.com/amirasaad/minibank/pkg/service/customer"
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/amirasaad/minibank/pkg/lock"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/amirasaad/minibank/pkg/utils"
)

// StoreOptions bounds every unit of work.
type StoreOptions struct {
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
}

// DefaultStoreOptions returns a 5s timeout with three retries.
func DefaultStoreOptions() StoreOptions {
	return StoreOptions{
		Timeout:        5 * time.Second,
		MaxRetries:     3,
		RetryBaseDelay: 20 * time.Millisecond,
		RetryMaxDelay:  500 * time.Millisecond,
	}
}

// Executor runs units of work for the services.
type Executor struct {
	uow    repository.UnitOfWork
	locks  *lock.Manager
	opts   StoreOptions
	logger *slog.Logger
}

// NewExecutor creates an Executor. A nil lock manager gets a private one.
func NewExecutor(
	uow repository.UnitOfWork,
	locks *lock.Manager,
	opts StoreOptions,
	logger *slog.Logger,
) *Executor {
	if locks == nil {
		locks = lock.New()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultStoreOptions().Timeout
	}
	return &Executor{
		uow:    uow,
		locks:  locks,
		opts:   opts,
		logger: logger,
	}
}

// Do holds keys, then runs fn in one transaction. The whole call, lock wait
// included, is bounded by the store timeout; running out of time yields an
// error matching domain.ErrStoreUnavailable. Transient store failures roll
// the transaction back and rerun fn from scratch, so fn must load everything
// it changes from the repositories it is given.
func (e *Executor) Do(
	ctx context.Context,
	keys []string,
	fn func(ctx context.Context, uow repository.UnitOfWork) error,
) error {
	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	release, err := e.locks.Acquire(ctx, keys...)
	if err != nil {
		return domain.Unavailable(err)
	}
	defer release()

	attempt := 0
	err = utils.Retry(ctx, e.opts.MaxRetries, e.opts.RetryBaseDelay, e.opts.RetryMaxDelay, isTransient,
		func() error {
			attempt++
			if attempt > 1 {
				e.logger.Warn("retrying unit of work", "attempt", attempt)
			}
			return e.uow.Do(ctx, func(uow repository.UnitOfWork) error {
				return fn(ctx, uow)
			})
		})
	return translate(err)
}

func isTransient(err error) bool {
	return errors.Is(err, domain.ErrStoreUnavailable) &&
		!errors.Is(err, context.DeadlineExceeded) &&
		!errors.Is(err, context.Canceled)
}

func translate(err error) error {
	if err == nil || domain.Kind(err) != nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.Unavailable(err)
	}
	return err
}

// Publish emits events after a commit. Failures are logged and dropped; the
// committed change stands either way.
func Publish(ctx context.Context, bus eventbus.Bus, logger *slog.Logger, evts ...events.Event) {
	if bus == nil {
		return
	}
	for _, evt := range evts {
		if err := bus.Emit(ctx, evt); err != nil {
			logger.Error("failed to publish event", "type", evt.Type(), "error", err)
		}
	}
}
