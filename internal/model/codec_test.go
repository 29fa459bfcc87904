package model

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAgentBinaryRoundTrip(t *testing.T) {
	in := Agent{
		AgentID:       uuid.NewSHA1(uuid.NameSpaceOID, []byte("agent")).String(),
		Owner:         "cold-wallet-1",
		Operator:      "hot-wallet-1",
		DailyLimit:    1_000_000,
		DailySpent:    431,
		WindowStart:   time.Date(2025, 6, 1, 9, 30, 0, 123456789, time.UTC),
		IsActive:      true,
		TotalReceived: 88,
		TotalSent:     42,
		CreationTime:  time.Date(2025, 1, 15, 8, 0, 0, 1, time.UTC),
	}

	buf, err := in.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(buf) != AgentRecordSize {
		t.Fatalf("record size: want %d, got %d", AgentRecordSize, len(buf))
	}

	var out Agent
	if err := out.UnmarshalBinary(buf); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", in, out)
	}

	// A second encode must be bit-identical.
	buf2, err := out.MarshalBinary()
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if !bytes.Equal(buf, buf2) {
		t.Fatal("re-encoded record differs")
	}
}

func TestAgentBinaryRejectsBadInput(t *testing.T) {
	a := Agent{AgentID: "not-a-uuid"}
	if _, err := a.MarshalBinary(); err == nil {
		t.Fatal("want error for non-UUID agent ID")
	}

	a = Agent{AgentID: uuid.Nil.String(), Owner: strings.Repeat("x", 65)}
	if _, err := a.MarshalBinary(); err == nil {
		t.Fatal("want error for oversize identity")
	}

	a = Agent{AgentID: uuid.Nil.String(), Owner: "a\x00b"}
	if _, err := a.MarshalBinary(); err == nil {
		t.Fatal("want error for identity containing NUL")
	}

	var out Agent
	if err := out.UnmarshalBinary(make([]byte, AgentRecordSize-1)); err == nil {
		t.Fatal("want error for truncated record")
	}
	bad := make([]byte, AgentRecordSize)
	bad[0] = 99
	if err := out.UnmarshalBinary(bad); err == nil {
		t.Fatal("want error for unknown version")
	}
}

func TestPaymentRequestBinaryRoundTrip(t *testing.T) {
	processed := time.Date(2025, 6, 2, 10, 0, 0, 42, time.UTC)
	cases := []struct {
		name string
		req  PaymentRequest
	}{
		{
			name: "pending without processed time",
			req: PaymentRequest{
				RequestID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte("req")).String(),
				AgentID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte("agent")).String(),
				Operator:    "hot-wallet-1",
				Owner:       "cold-wallet-1",
				Recipient:   "merchant-9",
				Amount:      250_000,
				Purpose:     "quarterly license renewal",
				Status:      StatusPending,
				RequestedAt: time.Date(2025, 6, 1, 9, 30, 0, 7, time.UTC),
			},
		},
		{
			name: "approved with processed time and max purpose",
			req: PaymentRequest{
				RequestID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte("req2")).String(),
				AgentID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte("agent")).String(),
				Operator:    "hot-wallet-1",
				Owner:       "cold-wallet-1",
				Recipient:   "merchant-9",
				Amount:      1,
				Purpose:     strings.Repeat("p", 200),
				Status:      StatusApproved,
				RequestedAt: time.Date(2025, 6, 1, 9, 30, 0, 7, time.UTC),
				ProcessedAt: &processed,
			},
		},
		{
			name: "rejected with empty purpose",
			req: PaymentRequest{
				RequestID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte("req3")).String(),
				AgentID:     uuid.NewSHA1(uuid.NameSpaceOID, []byte("agent")).String(),
				Operator:    "hot-wallet-1",
				Owner:       "cold-wallet-1",
				Recipient:   "merchant-9",
				Amount:      9,
				Status:      StatusRejected,
				RequestedAt: time.Date(2025, 6, 1, 9, 30, 0, 7, time.UTC),
				ProcessedAt: &processed,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf, err := tc.req.MarshalBinary()
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if len(buf) != PaymentRequestRecordSize {
				t.Fatalf("record size: want %d, got %d", PaymentRequestRecordSize, len(buf))
			}

			var out PaymentRequest
			if err := out.UnmarshalBinary(buf); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if out.RequestID != tc.req.RequestID || out.AgentID != tc.req.AgentID ||
				out.Operator != tc.req.Operator || out.Owner != tc.req.Owner ||
				out.Recipient != tc.req.Recipient || out.Amount != tc.req.Amount ||
				out.Purpose != tc.req.Purpose || out.Status != tc.req.Status ||
				!out.RequestedAt.Equal(tc.req.RequestedAt) {
				t.Fatalf("round trip mismatch:\n in=%+v\nout=%+v", tc.req, out)
			}
			if (out.ProcessedAt == nil) != (tc.req.ProcessedAt == nil) {
				t.Fatalf("processed presence mismatch: %v vs %v", out.ProcessedAt, tc.req.ProcessedAt)
			}
			if out.ProcessedAt != nil && !out.ProcessedAt.Equal(*tc.req.ProcessedAt) {
				t.Fatalf("processed time mismatch: %v vs %v", out.ProcessedAt, tc.req.ProcessedAt)
			}
		})
	}
}

func TestPaymentRequestBinaryRejectsBadInput(t *testing.T) {
	base := PaymentRequest{
		RequestID:   uuid.Nil.String(),
		AgentID:     uuid.Nil.String(),
		Status:      StatusPending,
		RequestedAt: time.Now().UTC(),
	}

	long := base
	long.Purpose = strings.Repeat("p", 201)
	if _, err := long.MarshalBinary(); err != ErrPurposeTooLong {
		t.Fatalf("want ErrPurposeTooLong, got %v", err)
	}

	badStatus := base
	badStatus.Status = PaymentStatus("MAYBE")
	if _, err := badStatus.MarshalBinary(); err == nil {
		t.Fatal("want error for unknown status")
	}

	var out PaymentRequest
	buf, err := base.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	buf[1+16+16+64*3+8] = 0xFF // corrupt purpose length high byte
	if err := out.UnmarshalBinary(buf); err == nil {
		t.Fatal("want error for out-of-range purpose length")
	}
}
