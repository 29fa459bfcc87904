package auth

import (
	"context"
	"fmt"
	"strings"
)

// StaticAuthorizer resolves API keys from a fixed in-memory table. It backs
// local deployments where the key set is provisioned through configuration.
type StaticAuthorizer struct {
	actors map[string]Actor
}

// NewStaticAuthorizer builds an authorizer from "key=address" pairs, e.g.
// "sk_owner_1=cold-wallet-1,sk_op_1=hot-wallet-1".
func NewStaticAuthorizer(pairs []string) (*StaticAuthorizer, error) {
	actors := make(map[string]Actor, len(pairs))
	for _, p := range pairs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		key, addr, ok := strings.Cut(p, "=")
		if !ok || key == "" || addr == "" {
			return nil, fmt.Errorf("malformed API key mapping %q, expected key=address", p)
		}
		actors[key] = Actor{Address: addr, KeyName: key}
	}
	return &StaticAuthorizer{actors: actors}, nil
}

// Authorize resolves the API key against the static table.
func (a *StaticAuthorizer) Authorize(_ context.Context, apiKey string) (*Actor, error) {
	actor, ok := a.actors[apiKey]
	if !ok {
		return nil, ErrInvalidAPIKey
	}
	return &actor, nil
}
