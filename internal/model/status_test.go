package model

import (
	"encoding/json"
	"testing"
)

func TestPaymentStatusValid(t *testing.T) {
	for _, s := range []PaymentStatus{StatusPending, StatusApproved, StatusRejected} {
		if !s.Valid() {
			t.Fatalf("%s should be valid", s)
		}
	}
	for _, s := range []PaymentStatus{"", "pending", "DONE"} {
		if s.Valid() {
			t.Fatalf("%q should not be valid", s)
		}
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Fatal("pending is not terminal")
	}
	if !StatusApproved.Terminal() || !StatusRejected.Terminal() {
		t.Fatal("approved and rejected are terminal")
	}
}

func TestPaymentStatusJSONStaysClosed(t *testing.T) {
	var s PaymentStatus
	if err := json.Unmarshal([]byte(`"APPROVED"`), &s); err != nil || s != StatusApproved {
		t.Fatalf("got %v, %v", s, err)
	}
	if err := json.Unmarshal([]byte(`"CANCELLED"`), &s); err == nil {
		t.Fatal("want error for unknown variant")
	}
	if err := json.Unmarshal([]byte(`42`), &s); err == nil {
		t.Fatal("want error for non-string")
	}
}
