// Package customer provides business logic for customer registration and
// profile updates.
package customer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/eventbus"
	"github.com/amirasaad/minibank/pkg/repository"
	"github.com/amirasaad/minibank/pkg/service"
	"github.com/google/uuid"
)

// Service provides business logic for customer operations.
type Service struct {
	exec   *service.Executor
	bus    eventbus.Bus
	logger *slog.Logger
	minAge int
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithMinAge overrides customer.MinAge.
func WithMinAge(age int) Option {
	return func(s *Service) { s.minAge = age }
}

// WithClock overrides time.Now for age checks and timestamps.
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
		minAge: customer.MinAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCustomer registers a new customer.
// The email must not belong to any customer and the customer must be at
// least the minimum age today.
func (s *Service) CreateCustomer(
	ctx context.Context,
	p customer.Profile,
) (c *customer.Customer, err error) {
	email := customer.NormalizeEmail(p.Email)
	logger := s.logger.With("email", email)
	logger.Info("CreateCustomer started")

	err = s.exec.Do(ctx, []string{service.EmailKey(email)}, func(ctx context.Context, uow repository.UnitOfWork) error {
		repo, err := uow.CustomerRepository()
		if err != nil {
			return err
		}
		if err = ensureEmailFree(ctx, repo, email, 0); err != nil {
			return err
		}
		c, err = customer.New(p, s.minAge, s.now())
		if err != nil {
			return err
		}
		if err = repo.Create(ctx, c); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return customer.ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		logger.Warn("CreateCustomer failed", "error", err)
		c = nil
		return
	}
	logger.Info("CreateCustomer succeeded", "code", c.Code)
	service.Publish(ctx, s.bus, logger, events.NewCustomerRegistered(c, s.now()))
	return
}

// UpdateCustomer replaces the profile of an existing customer.
func (s *Service) UpdateCustomer(
	ctx context.Context,
	code uuid.UUID,
	p customer.Profile,
) (c *customer.Customer, err error) {
	email := customer.NormalizeEmail(p.Email)
	logger := s.logger.With("code", code, "email", email)
	logger.Info("UpdateCustomer started")

	keys := []string{service.CustomerKey(code), service.EmailKey(email)}
	err = s.exec.Do(ctx, keys, func(ctx context.Context, uow repository.UnitOfWork) error {
		repo, err := uow.CustomerRepository()
		if err != nil {
			return err
		}
		c, err = getByCode(ctx, repo, code)
		if err != nil {
			return err
		}
		if err = ensureEmailFree(ctx, repo, email, c.ID); err != nil {
			return err
		}
		if err = c.Apply(p, s.minAge, s.now()); err != nil {
			return err
		}
		if err = repo.Update(ctx, c); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return customer.ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		logger.Warn("UpdateCustomer failed", "error", err)
		c = nil
		return
	}
	logger.Info("UpdateCustomer succeeded")
	service.Publish(ctx, s.bus, logger, events.NewCustomerUpdated(c, s.now()))
	return
}

// GetCustomer returns the customer with the given code.
func (s *Service) GetCustomer(
	ctx context.Context,
	code uuid.UUID,
) (c *customer.Customer, err error) {
	err = s.exec.Do(ctx, nil, func(ctx context.Context, uow repository.UnitOfWork) error {
		repo, err := uow.CustomerRepository()
		if err != nil {
			return err
		}
		c, err = getByCode(ctx, repo, code)
		return err
	})
	if err != nil {
		c = nil
	}
	return
}

// ListCustomers returns every customer in registration order.
func (s *Service) ListCustomers(ctx context.Context) (cs []*customer.Customer, err error) {
	err = s.exec.Do(ctx, nil, func(ctx context.Context, uow repository.UnitOfWork) error {
		repo, err := uow.CustomerRepository()
		if err != nil {
			return err
		}
		cs, err = repo.List(ctx)
		return err
	})
	if err != nil {
		cs = nil
	}
	return
}

func getByCode(ctx context.Context, repo repository.CustomerRepository, code uuid.UUID) (*customer.Customer, error) {
	c, err := repo.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, customer.ErrCustomerNotFound
	}
	return c, err
}

// ensureEmailFree fails with ErrEmailTaken when email belongs to a customer
// other than self. A self of 0 matches no customer.
func ensureEmailFree(ctx context.Context, repo repository.CustomerRepository, email string, self uint) error {
	if email == "" {
		return nil
	}
	other, err := repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != self:
		return customer.ErrEmailTaken
	}
	return nil
}
