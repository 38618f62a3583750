package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func depositedEvent() *events.AccountDeposited {
	return &events.AccountDeposited{
		Meta:            events.Meta{ID: uuid.New(), OccurredAt: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)},
		AccountCode:     uuid.New(),
		TransactionCode: uuid.New(),
		Amount:          money.MustFromMajor(10),
		Balance:         money.MustFromMajor(25),
	}
}

func TestMemoryEventBus_DispatchesByType(t *testing.T) {
	t.Parallel()
	bus := NewWithMemory(nil)

	var got []events.Event
	bus.Register(events.EventTypeAccountDeposited, func(ctx context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})
	bus.Register(events.EventTypeTransferCompleted, func(ctx context.Context, e events.Event) error {
		t.Error("transfer handler must not see deposits")
		return nil
	})

	evt := depositedEvent()
	require.NoError(t, bus.Emit(context.Background(), evt))
	require.Len(t, got, 1)
	assert.Same(t, evt, got[0])
	assert.Len(t, bus.Published(), 1)

	bus.ClearPublished()
	assert.Empty(t, bus.Published())
}

func TestMemoryEventBus_HandlerErrorsAndPanics(t *testing.T) {
	t.Parallel()
	bus := NewWithMemory(nil)
	boom := errors.New("boom")

	calls := 0
	bus.Register(events.EventTypeAccountDeposited, func(ctx context.Context, e events.Event) error {
		return boom
	})
	bus.Register(events.EventTypeAccountDeposited, func(ctx context.Context, e events.Event) error {
		panic("handler bug")
	})
	bus.Register(events.EventTypeAccountDeposited, func(ctx context.Context, e events.Event) error {
		calls++
		return nil
	})

	err := bus.Emit(context.Background(), depositedEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "handler bug")
	assert.Equal(t, 1, calls)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	t.Parallel()
	evt := depositedEvent()

	raw, err := encode(evt)
	require.NoError(t, err)

	decoded, err := decode(raw, events.EventTypes)
	require.NoError(t, err)
	got, ok := decoded.(*events.AccountDeposited)
	require.True(t, ok)
	assert.Equal(t, evt.AccountCode, got.AccountCode)
	assert.Equal(t, evt.Amount, got.Amount)
	assert.True(t, evt.OccurredAt.Equal(got.OccurredAt))

	_, err = decode([]byte(`{"type":"account.closed","payload":{}}`), events.EventTypes)
	assert.ErrorContains(t, err, "unknown event type")

	_, err = decode([]byte(`not json`), events.EventTypes)
	assert.Error(t, err)
}

func TestStreamAndTopicNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "minibank:events:transfer:completed", streamNameFor("minibank:events", events.EventTypeTransferCompleted))
	assert.Equal(t, "minibank:events:dlq:account:opened", dlqStreamName("minibank:events", events.EventTypeAccountOpened))
	assert.Equal(t, "minibank.events.account.deposited", topicNameFor("minibank.events", events.EventTypeAccountDeposited))
	assert.Equal(t, "minibank.events.dlq.account.deposited", dlqTopicNameFor("minibank.events", events.EventTypeAccountDeposited))
	assert.Equal(t, []string{"a:9092", "b:9092"}, parseBrokers(" a:9092, ,b:9092"))
}
