package engine

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agentpay/agentpay/internal/model"
)

func activeAgent() *model.Agent {
	return &model.Agent{
		AgentID:     "agent-1",
		Owner:       "cold-1",
		Operator:    "hot-1",
		DailyLimit:  1000,
		DailySpent:  0,
		WindowStart: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		IsActive:    true,
	}
}

func TestEvaluateSpend(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("within limit", func(t *testing.T) {
		a := activeAgent()
		a.DailySpent = 300
		a.TotalSent = 5000
		plan, err := EvaluateSpend(a, "hot-1", 700, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan.DailySpent != 1000 || plan.TotalSent != 5700 {
			t.Fatalf("plan: %+v", plan)
		}
		if !plan.WindowStart.Equal(a.WindowStart) {
			t.Fatalf("window start should be unchanged, got %v", plan.WindowStart)
		}
	})

	t.Run("one over limit", func(t *testing.T) {
		a := activeAgent()
		a.DailySpent = 300
		if _, err := EvaluateSpend(a, "hot-1", 701, now); !errors.Is(err, model.ErrDailyLimitExceeded) {
			t.Fatalf("want ErrDailyLimitExceeded, got %v", err)
		}
	})

	t.Run("amount above limit never overflows", func(t *testing.T) {
		a := activeAgent()
		a.DailySpent = 1
		if _, err := EvaluateSpend(a, "hot-1", ^uint64(0), now); !errors.Is(err, model.ErrDailyLimitExceeded) {
			t.Fatalf("want ErrDailyLimitExceeded, got %v", err)
		}
	})

	t.Run("inactive agent", func(t *testing.T) {
		a := activeAgent()
		a.IsActive = false
		if _, err := EvaluateSpend(a, "hot-1", 1, now); !errors.Is(err, model.ErrAgentInactive) {
			t.Fatalf("want ErrAgentInactive, got %v", err)
		}
	})

	t.Run("wrong operator", func(t *testing.T) {
		a := activeAgent()
		if _, err := EvaluateSpend(a, "cold-1", 1, now); !errors.Is(err, model.ErrUnauthorizedHotkey) {
			t.Fatalf("want ErrUnauthorizedHotkey, got %v", err)
		}
	})

	t.Run("zero amount", func(t *testing.T) {
		a := activeAgent()
		if _, err := EvaluateSpend(a, "hot-1", 0, now); !errors.Is(err, model.ErrInvalidAmount) {
			t.Fatalf("want ErrInvalidAmount, got %v", err)
		}
	})

	t.Run("inactive beats wrong operator", func(t *testing.T) {
		a := activeAgent()
		a.IsActive = false
		if _, err := EvaluateSpend(a, "someone-else", 1, now); !errors.Is(err, model.ErrAgentInactive) {
			t.Fatalf("want ErrAgentInactive first, got %v", err)
		}
	})
}

func TestEvaluateSpendAfterWindowElapsed(t *testing.T) {
	a := activeAgent()
	a.DailySpent = 1000 // exhausted
	now := a.WindowStart.Add(WindowDuration)

	plan, err := EvaluateSpend(a, "hot-1", 400, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.DailySpent != 400 {
		t.Fatalf("fresh window spent: want 400, got %d", plan.DailySpent)
	}
	if !plan.WindowStart.Equal(now) {
		t.Fatalf("window start: want %v, got %v", now, plan.WindowStart)
	}
}

func TestEvaluateReceipt(t *testing.T) {
	a := activeAgent()
	if err := EvaluateReceipt(a, 500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := EvaluateReceipt(a, 0); !errors.Is(err, model.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	a.IsActive = false
	if err := EvaluateReceipt(a, 500); !errors.Is(err, model.ErrAgentInactive) {
		t.Fatalf("want ErrAgentInactive, got %v", err)
	}
}

func TestEvaluateOwnerAction(t *testing.T) {
	a := activeAgent()
	if err := EvaluateOwnerAction(a, "cold-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := EvaluateOwnerAction(a, "hot-1"); !errors.Is(err, model.ErrUnauthorizedColdkey) {
		t.Fatalf("want ErrUnauthorizedColdkey, got %v", err)
	}
}

func TestNewPaymentRequest(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("builds pending record", func(t *testing.T) {
		a := activeAgent()
		req, err := NewPaymentRequest(a, "hot-1", "merchant-1", 5000, "bulk order", now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Status != model.StatusPending || req.Owner != "cold-1" || req.Operator != "hot-1" {
			t.Fatalf("request: %+v", req)
		}
		if req.RequestID == "" || req.ProcessedAt != nil {
			t.Fatalf("request: %+v", req)
		}
	})

	t.Run("amount above daily limit is allowed", func(t *testing.T) {
		a := activeAgent()
		a.DailySpent = a.DailyLimit
		if _, err := NewPaymentRequest(a, "hot-1", "m", a.DailyLimit*10, "", now); err != nil {
			t.Fatalf("escalation must ignore the daily limit: %v", err)
		}
	})

	t.Run("purpose at cap", func(t *testing.T) {
		a := activeAgent()
		if _, err := NewPaymentRequest(a, "hot-1", "m", 1, strings.Repeat("x", MaxPurposeLen), now); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("purpose over cap", func(t *testing.T) {
		a := activeAgent()
		_, err := NewPaymentRequest(a, "hot-1", "m", 1, strings.Repeat("x", MaxPurposeLen+1), now)
		if !errors.Is(err, model.ErrPurposeTooLong) {
			t.Fatalf("want ErrPurposeTooLong, got %v", err)
		}
	})

	t.Run("wrong operator", func(t *testing.T) {
		a := activeAgent()
		if _, err := NewPaymentRequest(a, "cold-1", "m", 1, "", now); !errors.Is(err, model.ErrUnauthorizedHotkey) {
			t.Fatalf("want ErrUnauthorizedHotkey, got %v", err)
		}
	})
}

func TestEvaluateResolution(t *testing.T) {
	pending := &model.PaymentRequest{RequestID: "r1", Owner: "cold-1", Status: model.StatusPending}

	if err := EvaluateResolution(pending, "cold-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := EvaluateResolution(pending, "hot-1"); !errors.Is(err, model.ErrUnauthorizedColdkey) {
		t.Fatalf("want ErrUnauthorizedColdkey, got %v", err)
	}

	for _, status := range []model.PaymentStatus{model.StatusApproved, model.StatusRejected} {
		r := &model.PaymentRequest{RequestID: "r1", Owner: "cold-1", Status: status}
		if err := EvaluateResolution(r, "cold-1"); !errors.Is(err, model.ErrRequestNotPending) {
			t.Fatalf("status %s: want ErrRequestNotPending, got %v", status, err)
		}
	}
}
