package model

import (
	"encoding/json"
	"fmt"
)

// PaymentStatus is the closed request-lifecycle enum. The only legal
// transitions are Pending -> Approved and Pending -> Rejected.
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "PENDING"
	StatusApproved PaymentStatus = "APPROVED"
	StatusRejected PaymentStatus = "REJECTED"
)

// Valid reports whether s is one of the three known variants.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s is a resolved state.
func (s PaymentStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// UnmarshalJSON rejects unknown variants so the enum stays closed on the wire.
func (s *PaymentStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	st := PaymentStatus(raw)
	if !st.Valid() {
		return fmt.Errorf("unknown payment status %q", raw)
	}
	*s = st
	return nil
}
