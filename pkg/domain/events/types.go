package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every domain event published after a commit.
type Event interface {
	Type() string
}

// Meta carries the fields shared by all events.
type Meta struct {
	ID         uuid.UUID `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
}

func newMeta(now time.Time) Meta {
	return Meta{ID: uuid.New(), OccurredAt: now.UTC()}
}

// EventTypes maps every event type to a constructor used when decoding
// events received from an external bus.
var EventTypes = map[EventType]func() Event{
	EventTypeCustomerRegistered: func() Event { return &CustomerRegistered{} },
	EventTypeCustomerUpdated:    func() Event { return &CustomerUpdated{} },
	EventTypeAccountOpened:      func() Event { return &AccountOpened{} },
	EventTypeAccountDeposited:   func() Event { return &AccountDeposited{} },
	EventTypeTransferCompleted:  func() Event { return &TransferCompleted{} },
}
