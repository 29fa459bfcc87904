package services

import (
	"context"

	"github.com/agentpay/agentpay/internal/model"
	"github.com/agentpay/agentpay/internal/store"
)

// AccountService exposes the ledger accounts backing payments.
type AccountService struct {
	store store.Store
}

func NewAccountService(s store.Store) *AccountService {
	return &AccountService{store: s}
}

func (s *AccountService) Get(ctx context.Context, address string) (*model.Account, error) {
	return s.store.Accounts().Get(ctx, address)
}

func (s *AccountService) Deposit(ctx context.Context, address string, amount uint64) (*model.Account, error) {
	return s.store.Accounts().Deposit(ctx, address, amount)
}

func (s *AccountService) Transfer(ctx context.Context, from, to string, amount uint64) error {
	return s.store.Accounts().Transfer(ctx, from, to, amount)
}
