package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	// Test with valid emails
	assert.True(t, IsEmail("test@example.com"))
	assert.True(t, IsEmail("another.test@sub.domain.co.uk"))

	// Test with invalid emails
	assert.False(t, IsEmail("invalid-email"))
	assert.False(t, IsEmail("invalid@.com"))
	assert.False(t, IsEmail("@example.com"))
	assert.False(t, IsEmail("Alex <alex@example.com>"))
}

func TestCalculateExponentialBackoffWithJitter(t *testing.T) {
	base := 100 * time.Millisecond
	assert.Zero(t, CalculateExponentialBackoffWithJitter(0, base, time.Second))

	for count, want := range map[int]time.Duration{1: 100 * time.Millisecond, 2: 200 * time.Millisecond, 3: 400 * time.Millisecond} {
		got := CalculateExponentialBackoffWithJitter(count, base, time.Second)
		assert.GreaterOrEqual(t, got, want-want/8, "count %d", count)
		assert.LessOrEqual(t, got, want+want/8, "count %d", count)
	}

	assert.Equal(t, time.Second, CalculateExponentialBackoffWithJitter(30, base, time.Second))
}

var errTransient = errors.New("transient")

func TestRetry(t *testing.T) {
	isTransient := func(err error) bool { return errors.Is(err, errTransient) }

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), 3, time.Millisecond, 5*time.Millisecond, isTransient, func() error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), 2, time.Millisecond, 5*time.Millisecond, isTransient, func() error {
			calls++
			return errTransient
		})
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		permanent := errors.New("permanent")
		calls := 0
		err := Retry(context.Background(), 5, time.Millisecond, 5*time.Millisecond, isTransient, func() error {
			calls++
			return permanent
		})
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops when context is done", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := Retry(ctx, 10, time.Hour, time.Hour, isTransient, func() error {
			calls++
			cancel()
			return errTransient
		})
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 1, calls)
	})
}
