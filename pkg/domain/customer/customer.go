package customer

import (
	"strings"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/utils"
	"github.com/google/uuid"
)

// MinAge is the default minimum age for registering a customer.
const MinAge = 18

var (
	// ErrCustomerNotFound is returned when a customer cannot be found in the
	// repository.
	ErrCustomerNotFound = domain.NewError(domain.ErrNotFound, "customer not found")
	// ErrEmailTaken is returned when another customer already uses the email.
	ErrEmailTaken = domain.NewError(domain.ErrConflict, "customer email is already taken")
	// ErrIneligible is returned when the customer is younger than the minimum age.
	ErrIneligible = domain.NewError(domain.ErrValidation, "customer is not old enough to register")
	// ErrInvalidProfile is returned when name, email or date of birth is missing.
	ErrInvalidProfile = domain.NewError(domain.ErrValidation, "customer name, email and date of birth are required")
	// ErrInvalidEmail is returned when the email is not a bare address.
	ErrInvalidEmail = domain.NewError(domain.ErrValidation, "customer email is invalid")
)

// Customer represents a registered bank customer.
type Customer struct {
	ID          uint
	Code        uuid.UUID
	Name        string
	Email       string
	DateOfBirth time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Profile holds the mutable customer fields.
type Profile struct {
	Name        string
	Email       string
	DateOfBirth time.Time
}

// New creates a new Customer with a fresh code after validating the profile
// against the minimum age at now.
func New(p Profile, minAge int, now time.Time) (*Customer, error) {
	p, err := p.normalize()
	if err != nil {
		return nil, err
	}
	if Age(p.DateOfBirth, now) < minAge {
		return nil, ErrIneligible
	}
	now = now.UTC()
	return &Customer{
		Code:        uuid.New(),
		Name:        p.Name,
		Email:       p.Email,
		DateOfBirth: p.DateOfBirth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Apply replaces the mutable fields after the same checks as New.
func (c *Customer) Apply(p Profile, minAge int, now time.Time) error {
	p, err := p.normalize()
	if err != nil {
		return err
	}
	if Age(p.DateOfBirth, now) < minAge {
		return ErrIneligible
	}
	c.Name = p.Name
	c.Email = p.Email
	c.DateOfBirth = p.DateOfBirth
	c.UpdatedAt = now.UTC()
	return nil
}

// Age returns the customer's age in whole years at now.
func (c *Customer) Age(now time.Time) int {
	return Age(c.DateOfBirth, now)
}

// Age returns the number of whole years between dob and now, truncated.
// Both dates are taken in UTC. Turning a year older happens on the birthday
// itself; a Feb 29 birthday is reached on Mar 1 in non-leap years.
func Age(dob, now time.Time) int {
	y1, m1, d1 := dob.UTC().Date()
	y2, m2, d2 := now.UTC().Date()
	age := y2 - y1
	if m2 < m1 || (m2 == m1 && d2 < d1) {
		age--
	}
	return age
}

// NormalizeEmail lower-cases and trims an email for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Date truncates t to a calendar date in UTC.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (p Profile) normalize() (Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = NormalizeEmail(p.Email)
	if p.Name == "" || p.Email == "" || p.DateOfBirth.IsZero() {
		return p, ErrInvalidProfile
	}
	if !utils.IsEmail(p.Email) {
		return p, ErrInvalidEmail
	}
	p.DateOfBirth = Date(p.DateOfBirth)
	return p, nil
}
