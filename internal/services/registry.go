package services

import (
	"context"
	"time"

	"github.com/agentpay/agentpay/internal/events"
	"github.com/agentpay/agentpay/internal/model"
	"github.com/agentpay/agentpay/internal/store"
)

// RegistryService orchestrates registry use cases.
type RegistryService struct {
	store store.Store
	bus   *events.Bus
}

func NewRegistryService(s store.Store, bus *events.Bus) *RegistryService {
	return &RegistryService{store: s, bus: bus}
}

func (s *RegistryService) Init(ctx context.Context, authority string) (*model.Registry, error) {
	reg, err := s.store.Registry().Init(ctx, authority)
	if err != nil {
		return nil, err
	}
	if s.bus != nil {
		s.bus.Publish(events.Event{
			Kind:      events.RegistryInitialized,
			Timestamp: time.Now().UTC(),
		})
	}
	return reg, nil
}

func (s *RegistryService) Get(ctx context.Context) (*model.Registry, error) {
	return s.store.Registry().Get(ctx)
}
