package api

import (
	"net/http"

	respond "github.com/agentpay/agentpay/internal/api/respond"
	"github.com/agentpay/agentpay/internal/auth"
	"github.com/agentpay/agentpay/internal/services"
)

// RegistryHandler is a thin HTTP transport over RegistryService.
type RegistryHandler struct {
	svc   *services.RegistryService
	authz auth.Authorizer
}

func NewRegistryHandler(svc *services.RegistryService, authz auth.Authorizer) *RegistryHandler {
	return &RegistryHandler{svc: svc, authz: authz}
}

// InitRegistry POST /api/registry
func (h *RegistryHandler) InitRegistry(w http.ResponseWriter, r *http.Request) {
	actor, ok := authorize(w, r, h.authz)
	if !ok {
		return
	}
	reg, err := h.svc.Init(r.Context(), actor.Address)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, reg)
}

// GetRegistry GET /api/registry
func (h *RegistryHandler) GetRegistry(w http.ResponseWriter, r *http.Request) {
	reg, err := h.svc.Get(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, reg)
}

// authorize resolves the caller behind the request's bearer API key.
// On failure it writes a 401 and returns ok=false.
func authorize(w http.ResponseWriter, r *http.Request, authz auth.Authorizer) (*auth.Actor, bool) {
	apiKey, err := auth.ExtractAPIKey(r)
	if err != nil {
		respond.WriteUnauthorized(w, err.Error())
		return nil, false
	}
	actor, err := authz.Authorize(r.Context(), apiKey)
	if err != nil {
		respond.WriteUnauthorized(w, err.Error())
		return nil, false
	}
	return actor, true
}
