package services

import (
	"context"
	"time"

	"github.com/agentpay/agentpay/internal/events"
	"github.com/agentpay/agentpay/internal/model"
	"github.com/agentpay/agentpay/internal/store"
)

// AgentService orchestrates agent lifecycle and payment use cases.
type AgentService struct {
	store store.Store
	bus   *events.Bus
}

func NewAgentService(s store.Store, bus *events.Bus) *AgentService {
	return &AgentService{store: s, bus: bus}
}

func (s *AgentService) Register(ctx context.Context, owner, operator string, dailyLimit uint64) (*model.Agent, error) {
	agent, reg, err := s.store.Agents().Register(ctx, owner, operator, dailyLimit)
	if err != nil {
		return nil, err
	}
	if s.bus != nil {
		s.bus.Publish(events.Event{
			Kind:       events.AgentRegistered,
			AgentID:    agent.AgentID,
			AgentCount: reg.AgentCount,
			Timestamp:  time.Now().UTC(),
		})
	}
	return agent, nil
}

func (s *AgentService) Get(ctx context.Context, agentID string) (*model.Agent, error) {
	return s.store.Agents().Get(ctx, agentID)
}

func (s *AgentService) ListByOwner(ctx context.Context, owner string) ([]*model.Agent, error) {
	return s.store.Agents().ListByOwner(ctx, owner)
}

func (s *AgentService) UpdateDailyLimit(ctx context.Context, caller, agentID string, newLimit uint64) (*model.Agent, error) {
	agent, err := s.store.Agents().UpdateDailyLimit(ctx, caller, agentID, newLimit)
	if err != nil {
		return nil, err
	}
	if s.bus != nil {
		s.bus.Publish(events.Event{
			Kind:      events.AgentLimitUpdated,
			AgentID:   agent.AgentID,
			Amount:    newLimit,
			Timestamp: time.Now().UTC(),
		})
	}
	return agent, nil
}

func (s *AgentService) Deactivate(ctx context.Context, caller, agentID string) (*model.Agent, error) {
	agent, err := s.store.Agents().Deactivate(ctx, caller, agentID)
	if err != nil {
		return nil, err
	}
	if s.bus != nil {
		s.bus.Publish(events.Event{
			Kind:      events.AgentDeactivated,
			AgentID:   agent.AgentID,
			Timestamp: time.Now().UTC(),
		})
	}
	return agent, nil
}

// Pay records a third-party payment to the agent's owner.
func (s *AgentService) Pay(ctx context.Context, payer, agentID string, amount uint64) (*model.Agent, error) {
	agent, reg, err := s.store.Agents().Pay(ctx, payer, agentID, amount)
	if err != nil {
		return nil, err
	}
	if s.bus != nil {
		s.bus.Publish(events.Event{
			Kind:          events.AgentPaymentMade,
			AgentID:       agent.AgentID,
			Amount:        amount,
			TotalReceived: agent.TotalReceived,
			TotalVolume:   reg.TotalVolume,
			Timestamp:     time.Now().UTC(),
		})
	}
	return agent, nil
}

// Spend executes an autonomous payment within the agent's daily ceiling.
func (s *AgentService) Spend(ctx context.Context, caller, agentID, recipient string, amount uint64) (*model.Agent, error) {
	agent, err := s.store.Agents().Spend(ctx, caller, agentID, recipient, amount)
	if err != nil {
		return nil, err
	}
	if s.bus != nil {
		s.bus.Publish(events.Event{
			Kind:       events.PaymentMade,
			AgentID:    agent.AgentID,
			Amount:     amount,
			DailySpent: agent.DailySpent,
			TotalSent:  agent.TotalSent,
			Timestamp:  time.Now().UTC(),
		})
	}
	return agent, nil
}
