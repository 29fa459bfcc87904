package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/agentpay/agentpay/internal/api/respond"
	"github.com/agentpay/agentpay/internal/services"
)

// AccountHandler is a thin HTTP transport over AccountService.
type AccountHandler struct {
	svc *services.AccountService
}

func NewAccountHandler(svc *services.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// GetAccount GET /api/accounts/{address}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := h.svc.Get(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, acc)
}

// Deposit POST /api/accounts/{address}/deposit
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount uint64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	acc, err := h.svc.Deposit(r.Context(), mux.Vars(r)["address"], req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, acc)
}
