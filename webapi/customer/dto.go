package customer

import (
	"time"

	customerdom "github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/google/uuid"
)

const dateLayout = time.DateOnly

// CustomerRequest is the body of customer registration and update.
type CustomerRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=254"`
	DateOfBirth string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
}

func (r *CustomerRequest) toProfile() customerdom.Profile {
	// validated by the datetime rule
	dob, _ := time.ParseInLocation(dateLayout, r.DateOfBirth, time.UTC)
	return customerdom.Profile{
		Name:        r.Name,
		Email:       r.Email,
		DateOfBirth: dob,
	}
}

// CustomerResponse is the JSON view of a customer.
type CustomerResponse struct {
	Code        uuid.UUID `json:"code"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	DateOfBirth string    `json:"dateOfBirth"`
	Age         int       `json:"age"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToCustomerResponse maps c to its JSON view with the age at now.
func ToCustomerResponse(c *customerdom.Customer, now time.Time) *CustomerResponse {
	return &CustomerResponse{
		Code:        c.Code,
		Name:        c.Name,
		Email:       c.Email,
		DateOfBirth: c.DateOfBirth.Format(dateLayout),
		Age:         c.Age(now),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toCustomerResponses(cs []*customerdom.Customer, now time.Time) []*CustomerResponse {
	out := make([]*CustomerResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToCustomerResponse(c, now))
	}
	return out
}
