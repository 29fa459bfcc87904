package store

import (
	"context"

	"github.com/agentpay/agentpay/internal/model"
)

// Store exposes the persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
//
// Every mutating operation is one transaction: the implementation reads the
// affected rows, evaluates the engine rules against them, and applies the
// writes (including ledger movements) atomically. No partial state is ever
// visible on an error path. Uniqueness of derived keys is enforced by
// primary-key constraints, never by a prior read.
type Store interface {
	Registry() Registries
	Agents() Agents
	Requests() Requests
	Accounts() Accounts
}

type Registries interface {
	// Init creates the singleton registry. model.ErrAlreadyInitialized if present.
	Init(ctx context.Context, authority string) (*model.Registry, error)
	Get(ctx context.Context) (*model.Registry, error)
}

type Agents interface {
	// Register creates the agent derived from (owner, operator) and bumps
	// the registry agent count in the same transaction.
	// model.ErrDuplicateAgent on the derived-key conflict.
	Register(ctx context.Context, owner, operator string, dailyLimit uint64) (*model.Agent, *model.Registry, error)
	Get(ctx context.Context, agentID string) (*model.Agent, error)
	ListByOwner(ctx context.Context, owner string) ([]*model.Agent, error)
	// UpdateDailyLimit sets the ceiling. Owner authority only; DailySpent is
	// not revalidated against the new value.
	UpdateDailyLimit(ctx context.Context, caller, agentID string, newLimit uint64) (*model.Agent, error)
	// Deactivate is terminal; there is no reactivation path.
	Deactivate(ctx context.Context, caller, agentID string) (*model.Agent, error)
	// Pay moves amount from payer to the agent's owner account and bumps
	// TotalReceived plus the registry TotalVolume.
	Pay(ctx context.Context, payer, agentID string, amount uint64) (*model.Agent, *model.Registry, error)
	// Spend moves amount from the owner account to recipient under the
	// operator's daily ceiling. The transfer and the counter update commit
	// together or not at all.
	Spend(ctx context.Context, caller, agentID, recipient string, amount uint64) (*model.Agent, error)
}

type Requests interface {
	Create(ctx context.Context, caller, agentID, recipient string, amount uint64, purpose string) (*model.PaymentRequest, error)
	Get(ctx context.Context, requestID string) (*model.PaymentRequest, error)
	ListByAgent(ctx context.Context, agentID string) ([]*model.PaymentRequest, error)
	ListPendingByOwner(ctx context.Context, owner string) ([]*model.PaymentRequest, error)
	// Approve moves the requested amount from the owner account to the
	// recipient, marks the request Approved, and bumps the agent's
	// TotalSent. Bypasses the daily limit: it is an explicit owner override.
	Approve(ctx context.Context, caller, requestID string) (*model.PaymentRequest, error)
	Reject(ctx context.Context, caller, requestID string) (*model.PaymentRequest, error)
}

type Accounts interface {
	Get(ctx context.Context, address string) (*model.Account, error)
	// Deposit credits an account, creating it if absent.
	Deposit(ctx context.Context, address string, amount uint64) (*model.Account, error)
	// Transfer is the raw atomic value-transfer primitive.
	// model.ErrInsufficientFunds when the debit would overdraw.
	Transfer(ctx context.Context, from, to string, amount uint64) error
}
