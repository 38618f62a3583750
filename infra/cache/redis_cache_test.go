//go:build integration

package cache

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/amirasaad/minibank/pkg/idempotency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisStore(tb testing.TB) *RedisIdempotencyStore {
	tb.Helper()
	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.0.5",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(tb, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(tb, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	store, err := NewRedisIdempotencyStore("redis://"+host+":"+port.Port()+"/0", "test:idem:", logger)
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = store.Close() })
	require.NoError(tb, store.Ping(ctx))
	return store
}

func TestRedisIdempotencyStore(t *testing.T) {
	store := setupRedisStore(t)
	ctx := context.Background()

	rec, err := store.Reserve(ctx, "deposit-1", time.Second)
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = store.Reserve(ctx, "deposit-1", time.Second)
	assert.ErrorIs(t, err, idempotency.ErrInFlight)

	require.NoError(t, store.Release(ctx, "deposit-1"))
	rec, err = store.Reserve(ctx, "deposit-1", time.Second)
	require.NoError(t, err)
	assert.Nil(t, rec)

	saved := &idempotency.Record{Status: 200, ContentType: "application/json", Body: []byte(`{"ok":true}`), Fingerprint: "fp"}
	require.NoError(t, store.Save(ctx, "deposit-1", saved, time.Minute))
	// release only drops reservations
	require.NoError(t, store.Release(ctx, "deposit-1"))

	rec, err = store.Reserve(ctx, "deposit-1", time.Second)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, *saved, *rec)
}

func TestRedisIdempotencyStore_GuardReplay(t *testing.T) {
	store := setupRedisStore(t)
	g := idempotency.New(store, nil)
	ctx := context.Background()

	calls := 0
	fn := func() (*idempotency.Record, error) {
		calls++
		return &idempotency.Record{Status: 204}, nil
	}
	_, replayed, err := g.Do(ctx, "transfer-1", "fp", fn)
	require.NoError(t, err)
	assert.False(t, replayed)

	rec, replayed, err := g.Do(ctx, "transfer-1", "fp", fn)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, 204, rec.Status)
	assert.Equal(t, 1, calls)
}
