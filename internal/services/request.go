package services

import (
	"context"
	"time"

	"github.com/agentpay/agentpay/internal/events"
	"github.com/agentpay/agentpay/internal/model"
	"github.com/agentpay/agentpay/internal/store"
)

// RequestService orchestrates the owner-approval escalation workflow.
type RequestService struct {
	store store.Store
	bus   *events.Bus
}

func NewRequestService(s store.Store, bus *events.Bus) *RequestService {
	return &RequestService{store: s, bus: bus}
}

func (s *RequestService) Create(ctx context.Context, caller, agentID, recipient string, amount uint64, purpose string) (*model.PaymentRequest, error) {
	req, err := s.store.Requests().Create(ctx, caller, agentID, recipient, amount, purpose)
	if err != nil {
		return nil, err
	}
	if s.bus != nil {
		s.bus.Publish(events.Event{
			Kind:      events.PaymentRequested,
			AgentID:   req.AgentID,
			RequestID: req.RequestID,
			Amount:    req.Amount,
			Timestamp: time.Now().UTC(),
		})
	}
	return req, nil
}

func (s *RequestService) Get(ctx context.Context, requestID string) (*model.PaymentRequest, error) {
	return s.store.Requests().Get(ctx, requestID)
}

func (s *RequestService) ListByAgent(ctx context.Context, agentID string) ([]*model.PaymentRequest, error) {
	return s.store.Requests().ListByAgent(ctx, agentID)
}

func (s *RequestService) ListPendingByOwner(ctx context.Context, owner string) ([]*model.PaymentRequest, error) {
	return s.store.Requests().ListPendingByOwner(ctx, owner)
}

func (s *RequestService) Approve(ctx context.Context, caller, requestID string) (*model.PaymentRequest, error) {
	req, err := s.store.Requests().Approve(ctx, caller, requestID)
	if err != nil {
		return nil, err
	}
	if s.bus != nil {
		s.bus.Publish(events.Event{
			Kind:      events.PaymentApproved,
			AgentID:   req.AgentID,
			RequestID: req.RequestID,
			Amount:    req.Amount,
			Timestamp: time.Now().UTC(),
		})
	}
	return req, nil
}

func (s *RequestService) Reject(ctx context.Context, caller, requestID string) (*model.PaymentRequest, error) {
	req, err := s.store.Requests().Reject(ctx, caller, requestID)
	if err != nil {
		return nil, err
	}
	if s.bus != nil {
		s.bus.Publish(events.Event{
			Kind:      events.PaymentRejected,
			AgentID:   req.AgentID,
			RequestID: req.RequestID,
			Amount:    req.Amount,
			Timestamp: time.Now().UTC(),
		})
	}
	return req, nil
}
