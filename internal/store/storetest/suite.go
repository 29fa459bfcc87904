package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/agentpay/agentpay/internal/model"
	"github.com/agentpay/agentpay/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	const (
		authority = "authority-1"
		owner     = "owner-cold-1"
		operator  = "operator-hot-1"
		payer     = "payer-1"
		recipient = "merchant-1"
	)

	// Registry
	reg, err := s.Registry().Init(ctx, authority)
	if err != nil {
		t.Fatalf("InitRegistry: %v", err)
	}
	if reg.AgentCount != 0 || reg.TotalVolume != 0 {
		t.Fatalf("fresh registry counters not zero: %+v", reg)
	}
	if _, err := s.Registry().Init(ctx, authority); !errors.Is(err, model.ErrAlreadyInitialized) {
		t.Fatalf("duplicate InitRegistry: want ErrAlreadyInitialized, got %v", err)
	}

	// Fund payer and owner
	if _, err := s.Accounts().Deposit(ctx, payer, 10_000); err != nil {
		t.Fatalf("Deposit payer: %v", err)
	}
	if _, err := s.Accounts().Deposit(ctx, owner, 10_000); err != nil {
		t.Fatalf("Deposit owner: %v", err)
	}

	// Agent registration
	agent, reg2, err := s.Agents().Register(ctx, owner, operator, 1000)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg2.AgentCount != 1 {
		t.Fatalf("agent_count after register: want 1, got %d", reg2.AgentCount)
	}
	if !agent.IsActive || agent.DailySpent != 0 {
		t.Fatalf("fresh agent state wrong: %+v", agent)
	}
	if _, _, err := s.Agents().Register(ctx, owner, operator, 500); !errors.Is(err, model.ErrDuplicateAgent) {
		t.Fatalf("duplicate Register: want ErrDuplicateAgent, got %v", err)
	}
	if got, err := s.Agents().Get(ctx, agent.AgentID); err != nil || got.Owner != owner {
		t.Fatalf("Get agent: got=%+v err=%v", got, err)
	}
	if lst, err := s.Agents().ListByOwner(ctx, owner); err != nil || len(lst) != 1 {
		t.Fatalf("ListByOwner: n=%d err=%v", len(lst), err)
	}

	// Receipt path
	got, reg3, err := s.Agents().Pay(ctx, payer, agent.AgentID, 250)
	if err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if got.TotalReceived != 250 || reg3.TotalVolume != 250 {
		t.Fatalf("receipt counters: agent=%d registry=%d", got.TotalReceived, reg3.TotalVolume)
	}
	if acc, err := s.Accounts().Get(ctx, owner); err != nil || acc.Balance != 10_250 {
		t.Fatalf("owner balance after receipt: got=%+v err=%v", acc, err)
	}
	if _, _, err := s.Agents().Pay(ctx, payer, agent.AgentID, 0); !errors.Is(err, model.ErrInvalidAmount) {
		t.Fatalf("zero Pay: want ErrInvalidAmount, got %v", err)
	}

	// Autonomous spend: two 50s succeed, then the big one trips the ceiling.
	if _, err := s.Agents().Spend(ctx, operator, agent.AgentID, recipient, 50); err != nil {
		t.Fatalf("Spend 1: %v", err)
	}
	got, err = s.Agents().Spend(ctx, operator, agent.AgentID, recipient, 50)
	if err != nil {
		t.Fatalf("Spend 2: %v", err)
	}
	if got.DailySpent != 100 || got.TotalSent != 100 {
		t.Fatalf("spend counters: spent=%d sent=%d", got.DailySpent, got.TotalSent)
	}
	if _, err := s.Agents().Spend(ctx, operator, agent.AgentID, recipient, 1000); !errors.Is(err, model.ErrDailyLimitExceeded) {
		t.Fatalf("over-limit Spend: want ErrDailyLimitExceeded, got %v", err)
	}
	if _, err := s.Agents().Spend(ctx, owner, agent.AgentID, recipient, 10); !errors.Is(err, model.ErrUnauthorizedHotkey) {
		t.Fatalf("owner Spend: want ErrUnauthorizedHotkey, got %v", err)
	}
	if acc, err := s.Accounts().Get(ctx, recipient); err != nil || acc.Balance != 100 {
		t.Fatalf("recipient balance: got=%+v err=%v", acc, err)
	}

	// Escalation workflow
	req, err := s.Requests().Create(ctx, operator, agent.AgentID, recipient, 1000, "large payment")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if req.Status != model.StatusPending || req.Owner != owner || req.Operator != operator {
		t.Fatalf("fresh request state wrong: %+v", req)
	}
	if _, err := s.Requests().Create(ctx, owner, agent.AgentID, recipient, 10, "x"); !errors.Is(err, model.ErrUnauthorizedHotkey) {
		t.Fatalf("owner CreateRequest: want ErrUnauthorizedHotkey, got %v", err)
	}
	if lst, err := s.Requests().ListPendingByOwner(ctx, owner); err != nil || len(lst) != 1 {
		t.Fatalf("ListPendingByOwner: n=%d err=%v", len(lst), err)
	}
	if _, err := s.Requests().Approve(ctx, operator, req.RequestID); !errors.Is(err, model.ErrUnauthorizedColdkey) {
		t.Fatalf("operator Approve: want ErrUnauthorizedColdkey, got %v", err)
	}
	approved, err := s.Requests().Approve(ctx, owner, req.RequestID)
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != model.StatusApproved || approved.ProcessedAt == nil {
		t.Fatalf("approved request state wrong: %+v", approved)
	}
	// Approval bypasses the daily limit and leaves daily_spent untouched.
	got, err = s.Agents().Get(ctx, agent.AgentID)
	if err != nil {
		t.Fatalf("Get after approve: %v", err)
	}
	if got.DailySpent != 100 || got.TotalSent != 1100 {
		t.Fatalf("post-approval counters: spent=%d sent=%d", got.DailySpent, got.TotalSent)
	}
	if _, err := s.Requests().Approve(ctx, owner, req.RequestID); !errors.Is(err, model.ErrRequestNotPending) {
		t.Fatalf("double Approve: want ErrRequestNotPending, got %v", err)
	}
	if _, err := s.Requests().Reject(ctx, owner, req.RequestID); !errors.Is(err, model.ErrRequestNotPending) {
		t.Fatalf("Reject after Approve: want ErrRequestNotPending, got %v", err)
	}

	// Reject path moves no value.
	req2, err := s.Requests().Create(ctx, operator, agent.AgentID, recipient, 42, "declined")
	if err != nil {
		t.Fatalf("CreateRequest 2: %v", err)
	}
	before, err := s.Accounts().Get(ctx, owner)
	if err != nil {
		t.Fatalf("owner balance read: %v", err)
	}
	rejected, err := s.Requests().Reject(ctx, owner, req2.RequestID)
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != model.StatusRejected || rejected.ProcessedAt == nil {
		t.Fatalf("rejected request state wrong: %+v", rejected)
	}
	after, err := s.Accounts().Get(ctx, owner)
	if err != nil || after.Balance != before.Balance {
		t.Fatalf("reject moved value: before=%d after=%d err=%v", before.Balance, after.Balance, err)
	}
	if lst, err := s.Requests().ListByAgent(ctx, agent.AgentID); err != nil || len(lst) != 2 {
		t.Fatalf("ListByAgent: n=%d err=%v", len(lst), err)
	}

	// Administrative operations
	if _, err := s.Agents().UpdateDailyLimit(ctx, operator, agent.AgentID, 2000); !errors.Is(err, model.ErrUnauthorizedColdkey) {
		t.Fatalf("non-owner UpdateDailyLimit: want ErrUnauthorizedColdkey, got %v", err)
	}
	if got, err := s.Agents().UpdateDailyLimit(ctx, owner, agent.AgentID, 2000); err != nil || got.DailyLimit != 2000 {
		t.Fatalf("UpdateDailyLimit: got=%+v err=%v", got, err)
	}
	if _, err := s.Agents().Deactivate(ctx, operator, agent.AgentID); !errors.Is(err, model.ErrUnauthorizedColdkey) {
		t.Fatalf("non-owner Deactivate: want ErrUnauthorizedColdkey, got %v", err)
	}
	if got, err := s.Agents().Deactivate(ctx, owner, agent.AgentID); err != nil || got.IsActive {
		t.Fatalf("Deactivate: got=%+v err=%v", got, err)
	}

	// Deactivation is terminal: every gated operation fails closed.
	if _, err := s.Agents().Spend(ctx, operator, agent.AgentID, recipient, 1); !errors.Is(err, model.ErrAgentInactive) {
		t.Fatalf("Spend after deactivate: want ErrAgentInactive, got %v", err)
	}
	if _, _, err := s.Agents().Pay(ctx, payer, agent.AgentID, 10); !errors.Is(err, model.ErrAgentInactive) {
		t.Fatalf("Pay after deactivate: want ErrAgentInactive, got %v", err)
	}
	if _, err := s.Requests().Create(ctx, operator, agent.AgentID, recipient, 10, "p"); !errors.Is(err, model.ErrAgentInactive) {
		t.Fatalf("CreateRequest after deactivate: want ErrAgentInactive, got %v", err)
	}

	// Transfer primitive
	if err := s.Accounts().Transfer(ctx, payer, recipient, 100); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	if err := s.Accounts().Transfer(ctx, "empty-account", recipient, 1); !errors.Is(err, model.ErrInsufficientFunds) {
		t.Fatalf("overdraw Transfer: want ErrInsufficientFunds, got %v", err)
	}
	if _, err := s.Accounts().Get(ctx, "never-seen"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("missing account: want ErrNotFound, got %v", err)
	}
}
