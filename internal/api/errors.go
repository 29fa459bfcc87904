package api

import (
	"errors"
	"net/http"

	respond "github.com/agentpay/agentpay/internal/api/respond"
	"github.com/agentpay/agentpay/internal/model"
)

// writeDomainError maps engine sentinel errors onto HTTP status codes.
// Unrecognized errors are treated as internal failures.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	case errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrPurposeTooLong):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrUnauthorizedColdkey),
		errors.Is(err, model.ErrUnauthorizedHotkey):
		respond.WriteError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, model.ErrInsufficientFunds):
		respond.WriteError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, model.ErrAlreadyInitialized),
		errors.Is(err, model.ErrDuplicateAgent),
		errors.Is(err, model.ErrAgentInactive),
		errors.Is(err, model.ErrRequestNotPending),
		errors.Is(err, model.ErrDailyLimitExceeded):
		respond.WriteError(w, http.StatusConflict, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}
