package model

import "errors"

// Error taxonomy surfaced by the authorization engine. All of these are
// expected, recoverable-by-caller conditions; none is fatal to the process.
var (
	ErrAlreadyInitialized  = errors.New("registry already initialized")
	ErrDuplicateAgent      = errors.New("agent already registered for this owner and operator")
	ErrUnauthorizedColdkey = errors.New("unauthorized: only the owner can perform this action")
	ErrUnauthorizedHotkey  = errors.New("unauthorized: only the operator can perform this action")
	ErrAgentInactive       = errors.New("agent is not active")
	ErrDailyLimitExceeded  = errors.New("daily spending limit exceeded")
	ErrRequestNotPending   = errors.New("payment request is not pending")
	ErrPurposeTooLong      = errors.New("purpose is too long (max 200 characters)")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrNotFound            = errors.New("not found")
)
