package events

import "time"

// Kind names a successful mutating operation of the authorization engine.
type Kind string

const (
	RegistryInitialized Kind = "registry_initialized"
	AgentRegistered     Kind = "agent_registered"
	AgentLimitUpdated   Kind = "agent_limit_updated"
	AgentDeactivated    Kind = "agent_deactivated"
	PaymentMade         Kind = "payment_made"
	AgentPaymentMade    Kind = "agent_payment_made"
	PaymentRequested    Kind = "payment_requested"
	PaymentApproved     Kind = "payment_approved"
	PaymentRejected     Kind = "payment_rejected"
)

// Event carries the operation kind, the affected keys, the amount if any,
// and the counters as they stand after the mutation. Consumers (webhook
// dispatch, dashboards) subscribe; the engine never blocks on them.
type Event struct {
	Kind      Kind      `json:"kind"`
	AgentID   string    `json:"agentId,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	Amount    uint64    `json:"amount,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Resulting counters of the touched records.
	DailySpent    uint64 `json:"dailySpent,omitempty"`
	TotalSent     uint64 `json:"totalSent,omitempty"`
	TotalReceived uint64 `json:"totalReceived,omitempty"`
	AgentCount    uint64 `json:"agentCount,omitempty"`
	TotalVolume   uint64 `json:"totalVolume,omitempty"`
}

// Bus is a lightweight in-process pub-sub backed by a buffered channel.
type Bus struct {
	ch chan Event
}

// NewBus creates a bus with the given buffer size.
func NewBus(buffer int) *Bus {
	return &Bus{ch: make(chan Event, buffer)}
}

// Publish attempts to enqueue the event without blocking.
// Returns true if published, false if the buffer is full.
func (b *Bus) Publish(evt Event) bool {
	select {
	case b.ch <- evt:
		return true
	default:
		return false
	}
}

// Subscribe returns a read-only channel for consumers.
func (b *Bus) Subscribe() <-chan Event {
	return b.ch
}
