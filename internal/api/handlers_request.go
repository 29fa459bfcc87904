package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/agentpay/agentpay/internal/api/respond"
	"github.com/agentpay/agentpay/internal/auth"
	"github.com/agentpay/agentpay/internal/services"
)

// RequestHandler is a thin HTTP transport over RequestService.
type RequestHandler struct {
	svc   *services.RequestService
	authz auth.Authorizer
}

func NewRequestHandler(svc *services.RequestService, authz auth.Authorizer) *RequestHandler {
	return &RequestHandler{svc: svc, authz: authz}
}

// CreateRequest POST /api/agents/{agentId}/requests
func (h *RequestHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := authorize(w, r, h.authz)
	if !ok {
		return
	}
	var req struct {
		Recipient string `json:"recipient"`
		Amount    uint64 `json:"amount"`
		Purpose   string `json:"purpose"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Recipient == "" {
		respond.WriteBadRequest(w, "recipient is required")
		return
	}
	out, err := h.svc.Create(r.Context(), actor.Address, mux.Vars(r)["agentId"], req.Recipient, req.Amount, req.Purpose)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// GetRequest GET /api/requests/{requestId}
func (h *RequestHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Get(r.Context(), mux.Vars(r)["requestId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// ListRequestsByAgent GET /api/agents/{agentId}/requests
func (h *RequestHandler) ListRequestsByAgent(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.ListByAgent(r.Context(), mux.Vars(r)["agentId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"requests": reqs, "count": len(reqs)})
}

// ListPendingByOwner GET /api/owners/{owner}/requests/pending
func (h *RequestHandler) ListPendingByOwner(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.svc.ListPendingByOwner(r.Context(), mux.Vars(r)["owner"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"requests": reqs, "count": len(reqs)})
}

// ApproveRequest POST /api/requests/{requestId}/approve
func (h *RequestHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := authorize(w, r, h.authz)
	if !ok {
		return
	}
	out, err := h.svc.Approve(r.Context(), actor.Address, mux.Vars(r)["requestId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// RejectRequest POST /api/requests/{requestId}/reject
func (h *RequestHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := authorize(w, r, h.authz)
	if !ok {
		return
	}
	out, err := h.svc.Reject(r.Context(), actor.Address, mux.Vars(r)["requestId"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
