package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/agentpay/agentpay/internal/api/respond"
	"github.com/agentpay/agentpay/internal/auth"
	"github.com/agentpay/agentpay/internal/services"
)

// AgentHandler is a thin HTTP transport over AgentService.
type AgentHandler struct {
	svc   *services.AgentService
	authz auth.Authorizer
}

func NewAgentHandler(svc *services.AgentService, authz auth.Authorizer) *AgentHandler {
	return &AgentHandler{svc: svc, authz: authz}
}

// RegisterAgent POST /api/agents
func (h *AgentHandler) RegisterAgent(w http.ResponseWriter, r *http.Request) {
	actor, ok := authorize(w, r, h.authz)
	if !ok {
		return
	}
	var req struct {
		Operator   string `json:"operator"`
		DailyLimit uint64 `json:"dailyLimit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Operator == "" {
		respond.WriteBadRequest(w, "operator is required")
		return
	}
	agent, err := h.svc.Register(r.Context(), actor.Address, req.Operator, req.DailyLimit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, agent)
}

// GetAgent GET /api/agents/{agentId}
func (h *AgentHandler) GetAgent(w http.ResponseWriter, r *http.Request) {
	agent, err := h.svc.Get(r.Context(), mux.Vars(r)["agentId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, agent)
}

// ListAgentsByOwner GET /api/owners/{owner}/agents
func (h *AgentHandler) ListAgentsByOwner(w http.ResponseWriter, r *http.Request) {
	agents, err := h.svc.ListByOwner(r.Context(), mux.Vars(r)["owner"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"agents": agents, "count": len(agents)})
}

// UpdateLimit PATCH /api/agents/{agentId}/limit
func (h *AgentHandler) UpdateLimit(w http.ResponseWriter, r *http.Request) {
	actor, ok := authorize(w, r, h.authz)
	if !ok {
		return
	}
	var req struct {
		DailyLimit uint64 `json:"dailyLimit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	agent, err := h.svc.UpdateDailyLimit(r.Context(), actor.Address, mux.Vars(r)["agentId"], req.DailyLimit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, agent)
}

// DeactivateAgent POST /api/agents/{agentId}/deactivate
func (h *AgentHandler) DeactivateAgent(w http.ResponseWriter, r *http.Request) {
	actor, ok := authorize(w, r, h.authz)
	if !ok {
		return
	}
	agent, err := h.svc.Deactivate(r.Context(), actor.Address, mux.Vars(r)["agentId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, agent)
}

// PayAgent POST /api/agents/{agentId}/payments
func (h *AgentHandler) PayAgent(w http.ResponseWriter, r *http.Request) {
	actor, ok := authorize(w, r, h.authz)
	if !ok {
		return
	}
	var req struct {
		Amount uint64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	agent, err := h.svc.Pay(r.Context(), actor.Address, mux.Vars(r)["agentId"], req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, agent)
}

// Spend POST /api/agents/{agentId}/spend
func (h *AgentHandler) Spend(w http.ResponseWriter, r *http.Request) {
	actor, ok := authorize(w, r, h.authz)
	if !ok {
		return
	}
	var req struct {
		Recipient string `json:"recipient"`
		Amount    uint64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Recipient == "" {
		respond.WriteBadRequest(w, "recipient is required")
		return
	}
	agent, err := h.svc.Spend(r.Context(), actor.Address, mux.Vars(r)["agentId"], req.Recipient, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, agent)
}
