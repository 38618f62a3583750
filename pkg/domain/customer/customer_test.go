package customer_test

import (
	"testing"
	"time"

	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.October, 19, 15, 4, 5, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAge(t *testing.T) {
	tests := []struct {
		name string
		dob  time.Time
		now  time.Time
		want int
	}{
		{"birthday today", date(2008, time.October, 19), now, 18},
		{"day before birthday", date(2008, time.October, 20), now, 17},
		{"birthday passed", date(2001, time.January, 1), now, 25},
		{"later month", date(2001, time.December, 1), now, 24},
		{"leap day in common year before march", date(2008, time.February, 29), date(2026, time.February, 28), 17},
		{"leap day in common year on march first", date(2008, time.February, 29), date(2026, time.March, 1), 18},
		{"born today", date(2026, time.October, 19), now, 0},
		{"local birthday still the day before in utc", date(2008, time.October, 19), time.Date(2026, time.October, 19, 1, 0, 0, 0, time.FixedZone("UTC+3", 3*3600)), 17},
		{"local day before already birthday in utc", date(2008, time.October, 19), time.Date(2026, time.October, 18, 22, 0, 0, 0, time.FixedZone("UTC-5", -5*3600)), 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, customer.Age(tt.dob, tt.now))
		})
	}
}

func TestNew(t *testing.T) {
	c, err := customer.New(customer.Profile{
		Name:        "  Alex ",
		Email:       " Alex@Example.com",
		DateOfBirth: time.Date(2001, time.May, 3, 22, 30, 0, 0, time.UTC),
	}, customer.MinAge, now)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.Code)
	assert.Equal(t, "Alex", c.Name)
	assert.Equal(t, "alex@example.com", c.Email)
	assert.Equal(t, date(2001, time.May, 3), c.DateOfBirth)
	assert.Equal(t, now, c.CreatedAt)
	assert.Equal(t, now, c.UpdatedAt)
	assert.Equal(t, 25, c.Age(now))
}

func TestNew_MinimumAgeBoundary(t *testing.T) {
	profile := customer.Profile{Name: "Sam", Email: "sam@example.com"}

	// 17 years and 364 days
	profile.DateOfBirth = now.AddDate(-18, 0, 1)
	_, err := customer.New(profile, customer.MinAge, now)
	require.ErrorIs(t, err, customer.ErrIneligible)
	assert.ErrorIs(t, err, domain.ErrValidation)

	// exactly 18 years
	profile.DateOfBirth = now.AddDate(-18, 0, 0)
	_, err = customer.New(profile, customer.MinAge, now)
	require.NoError(t, err)
}

func TestNew_InvalidProfile(t *testing.T) {
	_, err := customer.New(customer.Profile{Email: "a@b.c", DateOfBirth: date(1990, 1, 1)}, customer.MinAge, now)
	assert.ErrorIs(t, err, customer.ErrInvalidProfile)

	_, err = customer.New(customer.Profile{Name: "A", Email: "a@b.c"}, customer.MinAge, now)
	assert.ErrorIs(t, err, customer.ErrInvalidProfile)

	_, err = customer.New(customer.Profile{Name: "A", Email: "not-an-email", DateOfBirth: date(1990, 1, 1)}, customer.MinAge, now)
	assert.ErrorIs(t, err, customer.ErrInvalidEmail)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestApply(t *testing.T) {
	c, err := customer.New(customer.Profile{Name: "Alex", Email: "alex@example.com", DateOfBirth: date(2001, 1, 1)}, customer.MinAge, now)
	require.NoError(t, err)
	code := c.Code

	later := now.Add(time.Hour)
	require.NoError(t, c.Apply(customer.Profile{Name: "Alexandra", Email: "ALEXANDRA@example.com", DateOfBirth: date(2000, 2, 2)}, customer.MinAge, later))
	assert.Equal(t, code, c.Code)
	assert.Equal(t, "Alexandra", c.Name)
	assert.Equal(t, "alexandra@example.com", c.Email)
	assert.Equal(t, date(2000, 2, 2), c.DateOfBirth)
	assert.Equal(t, later, c.UpdatedAt)
	assert.Equal(t, now, c.CreatedAt)

	err = c.Apply(customer.Profile{Name: "Kid", Email: "kid@example.com", DateOfBirth: date(2015, 1, 1)}, customer.MinAge, later)
	require.ErrorIs(t, err, customer.ErrIneligible)
	assert.Equal(t, "Alexandra", c.Name)
}
