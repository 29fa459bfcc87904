package api

import (
	"github.com/gorilla/mux"

	"github.com/agentpay/agentpay/internal/api/recovery"
	"github.com/agentpay/agentpay/internal/auth"
	"github.com/agentpay/agentpay/internal/events"
	"github.com/agentpay/agentpay/internal/services"
	"github.com/agentpay/agentpay/internal/store"
)

// NewRouter wires all HTTP routes over the given store.
// isHealthy feeds GET /api/health; pass nil to report unhealthy.
func NewRouter(s store.Store, bus *events.Bus, authz auth.Authorizer, isHealthy func() bool) *mux.Router {
	router := mux.NewRouter()

	router.Use(recovery.Middleware)

	registryHandler := NewRegistryHandler(services.NewRegistryService(s, bus), authz)
	agentHandler := NewAgentHandler(services.NewAgentService(s, bus), authz)
	requestHandler := NewRequestHandler(services.NewRequestService(s, bus), authz)
	accountHandler := NewAccountHandler(services.NewAccountService(s))
	healthHandler := NewHealthHandler(isHealthy)

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Registry endpoints
	router.HandleFunc("/api/registry", registryHandler.InitRegistry).Methods("POST")
	router.HandleFunc("/api/registry", registryHandler.GetRegistry).Methods("GET")

	// Agent endpoints
	router.HandleFunc("/api/agents", agentHandler.RegisterAgent).Methods("POST")
	router.HandleFunc("/api/agents/{agentId}", agentHandler.GetAgent).Methods("GET")
	router.HandleFunc("/api/agents/{agentId}/limit", agentHandler.UpdateLimit).Methods("PATCH")
	router.HandleFunc("/api/agents/{agentId}/deactivate", agentHandler.DeactivateAgent).Methods("POST")
	router.HandleFunc("/api/agents/{agentId}/payments", agentHandler.PayAgent).Methods("POST")
	router.HandleFunc("/api/agents/{agentId}/spend", agentHandler.Spend).Methods("POST")
	router.HandleFunc("/api/owners/{owner}/agents", agentHandler.ListAgentsByOwner).Methods("GET")

	// Payment request endpoints
	router.HandleFunc("/api/agents/{agentId}/requests", requestHandler.CreateRequest).Methods("POST")
	router.HandleFunc("/api/agents/{agentId}/requests", requestHandler.ListRequestsByAgent).Methods("GET")
	router.HandleFunc("/api/owners/{owner}/requests/pending", requestHandler.ListPendingByOwner).Methods("GET")
	router.HandleFunc("/api/requests/{requestId}", requestHandler.GetRequest).Methods("GET")
	router.HandleFunc("/api/requests/{requestId}/approve", requestHandler.ApproveRequest).Methods("POST")
	router.HandleFunc("/api/requests/{requestId}/reject", requestHandler.RejectRequest).Methods("POST")

	// Account endpoints
	router.HandleFunc("/api/accounts/{address}", accountHandler.GetAccount).Methods("GET")
	router.HandleFunc("/api/accounts/{address}/deposit", accountHandler.Deposit).Methods("POST")

	return router
}
