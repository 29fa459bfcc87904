package services

import (
	"context"
	"testing"

	"github.com/agentpay/agentpay/internal/events"
	"github.com/agentpay/agentpay/internal/model"
	"github.com/agentpay/agentpay/internal/store"
)

// --- Fakes ---

type fakeStore struct {
	agents   *fakeAgents
	requests *fakeRequests
}

func (f *fakeStore) Registry() store.Registries { return fakeRegistries{} }
func (f *fakeStore) Agents() store.Agents       { return f.agents }
func (f *fakeStore) Requests() store.Requests   { return f.requests }
func (f *fakeStore) Accounts() store.Accounts   { return fakeAccounts{} }

type fakeRegistries struct{}

func (fakeRegistries) Init(context.Context, string) (*model.Registry, error) { panic("unused") }
func (fakeRegistries) Get(context.Context) (*model.Registry, error)          { panic("unused") }

type fakeAgents struct {
	agent *model.Agent
	reg   *model.Registry
	err   error

	spendCalls []uint64
}

func (f *fakeAgents) Register(context.Context, string, string, uint64) (*model.Agent, *model.Registry, error) {
	return f.agent, f.reg, f.err
}
func (f *fakeAgents) Get(context.Context, string) (*model.Agent, error) { return f.agent, f.err }
func (f *fakeAgents) ListByOwner(context.Context, string) ([]*model.Agent, error) {
	panic("unused")
}
func (f *fakeAgents) UpdateDailyLimit(context.Context, string, string, uint64) (*model.Agent, error) {
	return f.agent, f.err
}
func (f *fakeAgents) Deactivate(context.Context, string, string) (*model.Agent, error) {
	return f.agent, f.err
}
func (f *fakeAgents) Pay(context.Context, string, string, uint64) (*model.Agent, *model.Registry, error) {
	return f.agent, f.reg, f.err
}
func (f *fakeAgents) Spend(_ context.Context, _ string, _ string, _ string, amount uint64) (*model.Agent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.spendCalls = append(f.spendCalls, amount)
	return f.agent, nil
}

type fakeRequests struct {
	req *model.PaymentRequest
	err error
}

func (f *fakeRequests) Create(context.Context, string, string, string, uint64, string) (*model.PaymentRequest, error) {
	return f.req, f.err
}
func (f *fakeRequests) Get(context.Context, string) (*model.PaymentRequest, error) {
	return f.req, f.err
}
func (f *fakeRequests) ListByAgent(context.Context, string) ([]*model.PaymentRequest, error) {
	panic("unused")
}
func (f *fakeRequests) ListPendingByOwner(context.Context, string) ([]*model.PaymentRequest, error) {
	panic("unused")
}
func (f *fakeRequests) Approve(context.Context, string, string) (*model.PaymentRequest, error) {
	return f.req, f.err
}
func (f *fakeRequests) Reject(context.Context, string, string) (*model.PaymentRequest, error) {
	return f.req, f.err
}

type fakeAccounts struct{}

func (fakeAccounts) Get(context.Context, string) (*model.Account, error) { panic("unused") }
func (fakeAccounts) Deposit(context.Context, string, uint64) (*model.Account, error) {
	panic("unused")
}
func (fakeAccounts) Transfer(context.Context, string, string, uint64) error { panic("unused") }

func drain(bus *events.Bus) []events.Event {
	var out []events.Event
	for {
		select {
		case evt := <-bus.Subscribe():
			out = append(out, evt)
		default:
			return out
		}
	}
}

// --- Tests ---

func TestAgentSpendPublishesCounters(t *testing.T) {
	fs := &fakeStore{agents: &fakeAgents{
		agent: &model.Agent{AgentID: "a1", DailySpent: 150, TotalSent: 900},
	}}
	bus := events.NewBus(8)
	svc := NewAgentService(fs, bus)

	agent, err := svc.Spend(context.Background(), "hot1", "a1", "shop", 150)
	if err != nil {
		t.Fatalf("Spend error: %v", err)
	}
	if agent.AgentID != "a1" {
		t.Fatalf("unexpected agent: %+v", agent)
	}

	evts := drain(bus)
	if len(evts) != 1 {
		t.Fatalf("want 1 event, got %d", len(evts))
	}
	evt := evts[0]
	if evt.Kind != events.PaymentMade || evt.AgentID != "a1" || evt.Amount != 150 {
		t.Fatalf("event mismatch: %+v", evt)
	}
	if evt.DailySpent != 150 || evt.TotalSent != 900 {
		t.Fatalf("event counters mismatch: %+v", evt)
	}
}

func TestAgentSpendFailurePublishesNothing(t *testing.T) {
	fs := &fakeStore{agents: &fakeAgents{err: model.ErrDailyLimitExceeded}}
	bus := events.NewBus(8)
	svc := NewAgentService(fs, bus)

	if _, err := svc.Spend(context.Background(), "hot1", "a1", "shop", 150); err != model.ErrDailyLimitExceeded {
		t.Fatalf("want ErrDailyLimitExceeded, got %v", err)
	}
	if evts := drain(bus); len(evts) != 0 {
		t.Fatalf("want no events, got %v", evts)
	}
}

func TestAgentRegisterPublishesAgentCount(t *testing.T) {
	fs := &fakeStore{agents: &fakeAgents{
		agent: &model.Agent{AgentID: "a1"},
		reg:   &model.Registry{AgentCount: 7},
	}}
	bus := events.NewBus(8)
	svc := NewAgentService(fs, bus)

	if _, err := svc.Register(context.Background(), "cold1", "hot1", 1000); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	evts := drain(bus)
	if len(evts) != 1 || evts[0].Kind != events.AgentRegistered || evts[0].AgentCount != 7 {
		t.Fatalf("event mismatch: %v", evts)
	}
}

func TestRequestApprovePublishesEvent(t *testing.T) {
	fs := &fakeStore{requests: &fakeRequests{
		req: &model.PaymentRequest{RequestID: "r1", AgentID: "a1", Amount: 5000, Status: model.StatusApproved},
	}}
	bus := events.NewBus(8)
	svc := NewRequestService(fs, bus)

	req, err := svc.Approve(context.Background(), "cold1", "r1")
	if err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	if req.Status != model.StatusApproved {
		t.Fatalf("unexpected status: %v", req.Status)
	}
	evts := drain(bus)
	if len(evts) != 1 || evts[0].Kind != events.PaymentApproved || evts[0].RequestID != "r1" || evts[0].Amount != 5000 {
		t.Fatalf("event mismatch: %v", evts)
	}
}

func TestNilBusIsOptional(t *testing.T) {
	fs := &fakeStore{agents: &fakeAgents{agent: &model.Agent{AgentID: "a1"}, reg: &model.Registry{}}}
	svc := NewAgentService(fs, nil)
	if _, err := svc.Register(context.Background(), "cold1", "hot1", 100); err != nil {
		t.Fatalf("Register with nil bus: %v", err)
	}
}
