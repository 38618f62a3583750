package events

import (
	"time"

	"github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/google/uuid"
)

// CustomerRegistered is emitted once a new customer is committed.
type CustomerRegistered struct {
	Meta
	CustomerCode uuid.UUID `json:"customerCode"`
	Email        string    `json:"email"`
}

// CustomerUpdated is emitted once a profile change is committed.
type CustomerUpdated struct {
	Meta
	CustomerCode uuid.UUID `json:"customerCode"`
	Email        string    `json:"email"`
}

func (e CustomerRegistered) Type() string { return EventTypeCustomerRegistered.String() }
func (e CustomerUpdated) Type() string    { return EventTypeCustomerUpdated.String() }

func NewCustomerRegistered(c *customer.Customer, now time.Time) *CustomerRegistered {
	return &CustomerRegistered{Meta: newMeta(now), CustomerCode: c.Code, Email: c.Email}
}

func NewCustomerUpdated(c *customer.Customer, now time.Time) *CustomerUpdated {
	return &CustomerUpdated{Meta: newMeta(now), CustomerCode: c.Code, Email: c.Email}
}
