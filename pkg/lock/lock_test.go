package lock_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/minibank/pkg/lock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire_SerializesSameKey(t *testing.T) {
	m := lock.New()
	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := m.Acquire(context.Background(), "account:1")
			if !assert.NoError(t, err) {
				return
			}
			defer release()
			v := counter
			time.Sleep(time.Microsecond)
			counter = v + 1
		}()
	}
	wg.Wait()
	assert.Equal(t, 100, counter)
	assert.Zero(t, m.Len())
}

func TestAcquire_OppositeOrderDoesNotDeadlock(t *testing.T) {
	m := lock.New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release, err := m.Acquire(ctx, "a", "b")
			if assert.NoError(t, err) {
				release()
			}
		}()
		go func() {
			defer wg.Done()
			release, err := m.Acquire(ctx, "b", "a")
			if assert.NoError(t, err) {
				release()
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, m.Len())
}

func TestAcquire_DuplicateKeys(t *testing.T) {
	m := lock.New()
	release, err := m.Acquire(context.Background(), "a", "a")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())
	release()
	release()
	assert.Zero(t, m.Len())
}

func TestAcquire_ContextTimeoutReleasesPartialLocks(t *testing.T) {
	m := lock.New()
	holdB, err := m.Acquire(context.Background(), "b")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m.Acquire(ctx, "a", "b")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// "a" must be free again
	releaseA, err := m.Acquire(context.Background(), "a")
	require.NoError(t, err)
	releaseA()
	holdB()
	assert.Zero(t, m.Len())
}

func TestAcquire_CanceledContext(t *testing.T) {
	m := lock.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Acquire(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, m.Len())
}
