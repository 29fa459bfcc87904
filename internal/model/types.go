package model

import "time"

// Registry is the process-wide singleton tracking aggregate counters across
// all delegations. AgentCount and TotalVolume are monotonic.
type Registry struct {
	Authority    string    `json:"authority"`
	AgentCount   uint64    `json:"agentCount"`
	TotalVolume  uint64    `json:"totalVolume"`
	CreationTime time.Time `json:"creationTime"`
}

// Agent is one owner/operator delegation. Owner and Operator are immutable
// after registration; the AgentID is derived deterministically from the pair.
type Agent struct {
	AgentID       string    `json:"agentId"`
	Owner         string    `json:"owner"`
	Operator      string    `json:"operator"`
	DailyLimit    uint64    `json:"dailyLimit"`
	DailySpent    uint64    `json:"dailySpent"`
	WindowStart   time.Time `json:"windowStart"`
	IsActive      bool      `json:"isActive"`
	TotalReceived uint64    `json:"totalReceived"`
	TotalSent     uint64    `json:"totalSent"`
	CreationTime  time.Time `json:"creationTime"`
}

// PaymentRequest is an escalated transfer awaiting owner resolution. Owner
// and Operator are copied from the agent at creation time so an in-flight
// request cannot race later agent changes.
type PaymentRequest struct {
	RequestID   string        `json:"requestId"`
	AgentID     string        `json:"agentId"`
	Operator    string        `json:"operator"`
	Owner       string        `json:"owner"`
	Recipient   string        `json:"recipient"`
	Amount      uint64        `json:"amount"`
	Purpose     string        `json:"purpose"`
	Status      PaymentStatus `json:"status"`
	RequestedAt time.Time     `json:"requestedAt"`
	ProcessedAt *time.Time    `json:"processedAt,omitempty"`
}

// Account is a custodied balance addressable by the transfer primitive.
type Account struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}
