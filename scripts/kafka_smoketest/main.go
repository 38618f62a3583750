// Command kafka_smoketest publishes a transfer event through the Kafka event
// bus and waits for the bus to deliver it back, verifying a local cluster.
//
//	BROKERS=localhost:9092 go run ./scripts/kafka_smoketest
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	infra_eventbus "github.com/amirasaad/minibank/infra/eventbus"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/money"
	"github.com/google/uuid"
)

func runSmokeTest(ctx context.Context, logger *slog.Logger) error {
	brokers := strings.TrimSpace(os.Getenv("BROKERS"))
	if brokers == "" {
		brokers = "localhost:9092"
	}
	cfg := infra_eventbus.DefaultKafkaEventBusConfig()
	cfg.GroupID = "minibank-smoketest-" + uuid.NewString()[:8]

	bus, err := infra_eventbus.NewWithKafka(brokers, logger, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = bus.Close() }()

	sender := uuid.New()
	tx := &account.Transaction{
		Code:         uuid.New(),
		Kind:         account.KindTransfer,
		SenderCode:   &sender,
		ReceiverCode: uuid.New(),
		Amount:       money.MustFromMajor(1),
		Status:       account.StatusCompleted,
	}
	want := events.NewTransferCompleted(tx, time.Now())

	got := make(chan *events.TransferCompleted, 1)
	bus.Register(events.EventTypeTransferCompleted, func(_ context.Context, e events.Event) error {
		if ev, ok := e.(*events.TransferCompleted); ok && ev.ID == want.ID {
			select {
			case got <- ev:
			default:
			}
		}
		return nil
	})

	if err := bus.Emit(ctx, want); err != nil {
		return err
	}
	logger.Info("produced", "event_id", want.ID, "transaction_code", tx.Code)

	select {
	case ev := <-got:
		if ev.Amount != want.Amount || ev.SenderCode != sender {
			return errors.New("consumed event does not match the produced one")
		}
		logger.Info("consumed", "event_id", ev.ID)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := runSmokeTest(ctx, logger); err != nil {
		logger.Error("kafka smoke test failed", "error", err)
		os.Exit(1)
	}
	logger.Info("kafka smoke test passed")
}
