// Package app composes the services and registers the ledger event
// subscribers on the bus.
package app

import (
	"context"
	"log/slog"

	"github.com/amirasaad/minibank/pkg/domain/events"
	"github.com/amirasaad/minibank/pkg/eventbus"
)

func (a *App) setupEventBus() {
	if a.Deps.EventBus == nil {
		return
	}
	SetupBus(a.Deps.EventBus, a.Deps.Logger)
}

// SetupBus registers the audit subscriber for every ledger event type.
func SetupBus(bus eventbus.Bus, logger *slog.Logger) {
	for eventType := range events.EventTypes {
		bus.Register(eventType, Audit(logger))
	}
}

// Audit logs each event it receives with its payload.
func Audit(logger *slog.Logger) eventbus.HandlerFunc {
	log := logger.With("handler", "audit")
	return func(ctx context.Context, e events.Event) error {
		attrs := []any{"event_type", e.Type()}
		switch ev := e.(type) {
		case *events.CustomerRegistered:
			attrs = append(attrs, "event_id", ev.ID, "customer_code", ev.CustomerCode)
		case *events.CustomerUpdated:
			attrs = append(attrs, "event_id", ev.ID, "customer_code", ev.CustomerCode)
		case *events.AccountOpened:
			attrs = append(attrs, "event_id", ev.ID, "account_code", ev.AccountCode, "customer_code", ev.CustomerCode)
		case *events.AccountDeposited:
			attrs = append(attrs,
				"event_id", ev.ID,
				"account_code", ev.AccountCode,
				"transaction_code", ev.TransactionCode,
				"amount", ev.Amount,
				"balance", ev.Balance,
			)
		case *events.TransferCompleted:
			attrs = append(attrs,
				"event_id", ev.ID,
				"transaction_code", ev.TransactionCode,
				"sender_code", ev.SenderCode,
				"receiver_code", ev.ReceiverCode,
				"amount", ev.Amount,
			)
		}
		log.InfoContext(ctx, "📒 Ledger event", attrs...)
		return nil
	}
}
