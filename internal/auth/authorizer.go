package auth

import (
	"context"
	"errors"
)

// Actor is the resolved identity behind an API key. The address is the
// ledger identity used as coldkey, hotkey, or payer in engine operations.
type Actor struct {
	Address string `json:"address"`
	KeyName string `json:"keyName"`
}

// Authorizer resolves an API key to the actor it belongs to.
type Authorizer interface {
	Authorize(ctx context.Context, apiKey string) (*Actor, error)
}

// ErrInvalidAPIKey is returned when an API key is unknown or malformed.
var ErrInvalidAPIKey = errors.New("invalid API key")
