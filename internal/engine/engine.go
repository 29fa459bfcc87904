// Package engine holds the dual-key authorization rules. Every function is
// pure: it inspects a snapshot of a record plus the caller identity and
// either returns the state changes to apply or the taxonomy error that
// forbids them. Storage drivers call these inside a single transaction so
// the evaluate-then-write pair is atomic.
package engine

import (
	"time"

	"github.com/agentpay/agentpay/internal/model"
)

// MaxPurposeLen bounds the free-text justification on payment requests.
const MaxPurposeLen = 200

// SpendPlan is the agent-state delta produced by a successful autonomous
// spend evaluation.
type SpendPlan struct {
	DailySpent  uint64
	WindowStart time.Time
	TotalSent   uint64
}

// EvaluateSpend validates an operator-initiated autonomous spend and
// returns the counters to write. Check order mirrors the authorization
// path: liveness, authority, amount, then the window-resolved limit.
func EvaluateSpend(a *model.Agent, operator string, amount uint64, now time.Time) (SpendPlan, error) {
	if !a.IsActive {
		return SpendPlan{}, model.ErrAgentInactive
	}
	if operator != a.Operator {
		return SpendPlan{}, model.ErrUnauthorizedHotkey
	}
	if amount == 0 {
		return SpendPlan{}, model.ErrInvalidAmount
	}
	spent, windowStart := ResolveWindow(a, now)
	// Overflow-safe form of spent+amount > limit.
	if amount > a.DailyLimit || spent > a.DailyLimit-amount {
		return SpendPlan{}, model.ErrDailyLimitExceeded
	}
	return SpendPlan{
		DailySpent:  spent + amount,
		WindowStart: windowStart,
		TotalSent:   a.TotalSent + amount,
	}, nil
}

// EvaluateReceipt validates an inbound payment to the agent. Daily limits
// gate outgoing operator spend only, so no window check applies here.
func EvaluateReceipt(a *model.Agent, amount uint64) error {
	if !a.IsActive {
		return model.ErrAgentInactive
	}
	if amount == 0 {
		return model.ErrInvalidAmount
	}
	return nil
}

// EvaluateOwnerAction validates an owner-only administrative mutation
// (limit update, deactivation).
func EvaluateOwnerAction(a *model.Agent, caller string) error {
	if caller != a.Owner {
		return model.ErrUnauthorizedColdkey
	}
	return nil
}

// NewPaymentRequest validates an escalation and builds the Pending record.
// The daily limit is deliberately not consulted: escalation is available
// regardless of current spend.
func NewPaymentRequest(a *model.Agent, operator, recipient string, amount uint64, purpose string, now time.Time) (*model.PaymentRequest, error) {
	if !a.IsActive {
		return nil, model.ErrAgentInactive
	}
	if operator != a.Operator {
		return nil, model.ErrUnauthorizedHotkey
	}
	if amount == 0 {
		return nil, model.ErrInvalidAmount
	}
	if len(purpose) > MaxPurposeLen {
		return nil, model.ErrPurposeTooLong
	}
	return &model.PaymentRequest{
		RequestID:   RequestID(a.AgentID, operator, now.UnixNano()),
		AgentID:     a.AgentID,
		Operator:    a.Operator,
		Owner:       a.Owner,
		Recipient:   recipient,
		Amount:      amount,
		Purpose:     purpose,
		Status:      model.StatusPending,
		RequestedAt: now,
	}, nil
}

// EvaluateResolution validates an owner approving or rejecting a request.
// A request leaves Pending exactly once.
func EvaluateResolution(r *model.PaymentRequest, caller string) error {
	if caller != r.Owner {
		return model.ErrUnauthorizedColdkey
	}
	if r.Status != model.StatusPending {
		return model.ErrRequestNotPending
	}
	return nil
}
