package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// Namespaces for derived record IDs. Deriving IDs from content makes
// duplicate records structurally impossible: a second registration for the
// same (owner, operator) pair produces the same ID and loses at the
// storage layer's primary-key constraint, with no prior existence read.
var (
	agentNamespace   = uuid.MustParse("8f1c9a52-3d8e-4c6b-9b1f-6c2a7f0e4d31")
	requestNamespace = uuid.MustParse("c4b7e6d0-52a1-4f3e-8d29-1b9f0a6e5c72")
)

// AgentID derives the record ID for an (owner, operator) delegation.
func AgentID(owner, operator string) string {
	return uuid.NewSHA1(agentNamespace, []byte(owner+"\x00"+operator)).String()
}

// RequestID derives the record ID for a payment request from the agent,
// the requesting operator, and a caller-supplied nonce (creation time in
// nanoseconds works).
func RequestID(agentID, operator string, nonce int64) string {
	seed := fmt.Sprintf("%s\x00%s\x00%d", agentID, operator, nonce)
	return uuid.NewSHA1(requestNamespace, []byte(seed)).String()
}
