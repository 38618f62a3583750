package events

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	// Customer events
	EventTypeCustomerRegistered EventType = "customer.registered"
	EventTypeCustomerUpdated    EventType = "customer.updated"

	// Account events
	EventTypeAccountOpened    EventType = "account.opened"
	EventTypeAccountDeposited EventType = "account.deposited"

	// Transfer events
	EventTypeTransferCompleted EventType = "transfer.completed"
)

func (t EventType) String() string { return string(t) }
