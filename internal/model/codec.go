package model

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Fixed-width binary layout for persisted records. Every field has a fixed
// offset and width so any storage backend can hold a record as one opaque,
// constant-size blob and round-trip it bit-identically.
const (
	codecVersion = 1

	identityWidth  = 64
	maxPurposeSize = 200

	// version + id + owner + operator + limit + spent + windowStart +
	// active + totalReceived + totalSent + creationTime
	AgentRecordSize = 1 + 16 + identityWidth*2 + 8 + 8 + 8 + 1 + 8 + 8 + 8

	// version + requestID + agentID + operator + owner + recipient +
	// amount + purposeLen + purpose + status + requestedAt + processed flag + processedAt
	PaymentRequestRecordSize = 1 + 16 + 16 + identityWidth*3 + 8 + 2 + maxPurposeSize + 1 + 8 + 1 + 8
)

func putIdentity(dst []byte, id string) error {
	if len(id) > identityWidth {
		return fmt.Errorf("identity %q exceeds %d bytes", id, identityWidth)
	}
	if bytes.ContainsRune([]byte(id), 0) {
		return fmt.Errorf("identity contains NUL byte")
	}
	copy(dst, id)
	return nil
}

func getIdentity(src []byte) string {
	return string(bytes.TrimRight(src, "\x00"))
}

func statusByte(s PaymentStatus) (byte, error) {
	switch s {
	case StatusPending:
		return 0, nil
	case StatusApproved:
		return 1, nil
	case StatusRejected:
		return 2, nil
	}
	return 0, fmt.Errorf("unknown payment status %q", s)
}

func statusFromByte(b byte) (PaymentStatus, error) {
	switch b {
	case 0:
		return StatusPending, nil
	case 1:
		return StatusApproved, nil
	case 2:
		return StatusRejected, nil
	}
	return "", fmt.Errorf("unknown payment status byte %d", b)
}

// MarshalBinary encodes the agent into its fixed-size record.
func (a *Agent) MarshalBinary() ([]byte, error) {
	id, err := uuid.Parse(a.AgentID)
	if err != nil {
		return nil, fmt.Errorf("agent id: %w", err)
	}
	buf := make([]byte, AgentRecordSize)
	buf[0] = codecVersion
	off := 1
	copy(buf[off:], id[:])
	off += 16
	if err := putIdentity(buf[off:off+identityWidth], a.Owner); err != nil {
		return nil, err
	}
	off += identityWidth
	if err := putIdentity(buf[off:off+identityWidth], a.Operator); err != nil {
		return nil, err
	}
	off += identityWidth
	binary.BigEndian.PutUint64(buf[off:], a.DailyLimit)
	off += 8
	binary.BigEndian.PutUint64(buf[off:], a.DailySpent)
	off += 8
	binary.BigEndian.PutUint64(buf[off:], uint64(a.WindowStart.UnixNano()))
	off += 8
	if a.IsActive {
		buf[off] = 1
	}
	off++
	binary.BigEndian.PutUint64(buf[off:], a.TotalReceived)
	off += 8
	binary.BigEndian.PutUint64(buf[off:], a.TotalSent)
	off += 8
	binary.BigEndian.PutUint64(buf[off:], uint64(a.CreationTime.UnixNano()))
	return buf, nil
}

// UnmarshalBinary decodes a fixed-size agent record.
func (a *Agent) UnmarshalBinary(buf []byte) error {
	if len(buf) != AgentRecordSize {
		return fmt.Errorf("agent record: want %d bytes, got %d", AgentRecordSize, len(buf))
	}
	if buf[0] != codecVersion {
		return fmt.Errorf("agent record: unsupported version %d", buf[0])
	}
	off := 1
	var id uuid.UUID
	copy(id[:], buf[off:off+16])
	a.AgentID = id.String()
	off += 16
	a.Owner = getIdentity(buf[off : off+identityWidth])
	off += identityWidth
	a.Operator = getIdentity(buf[off : off+identityWidth])
	off += identityWidth
	a.DailyLimit = binary.BigEndian.Uint64(buf[off:])
	off += 8
	a.DailySpent = binary.BigEndian.Uint64(buf[off:])
	off += 8
	a.WindowStart = time.Unix(0, int64(binary.BigEndian.Uint64(buf[off:]))).UTC()
	off += 8
	a.IsActive = buf[off] == 1
	off++
	a.TotalReceived = binary.BigEndian.Uint64(buf[off:])
	off += 8
	a.TotalSent = binary.BigEndian.Uint64(buf[off:])
	off += 8
	a.CreationTime = time.Unix(0, int64(binary.BigEndian.Uint64(buf[off:]))).UTC()
	return nil
}

// MarshalBinary encodes the request into its fixed-size record.
func (r *PaymentRequest) MarshalBinary() ([]byte, error) {
	reqID, err := uuid.Parse(r.RequestID)
	if err != nil {
		return nil, fmt.Errorf("request id: %w", err)
	}
	agentID, err := uuid.Parse(r.AgentID)
	if err != nil {
		return nil, fmt.Errorf("agent id: %w", err)
	}
	if len(r.Purpose) > maxPurposeSize {
		return nil, ErrPurposeTooLong
	}
	st, err := statusByte(r.Status)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, PaymentRequestRecordSize)
	buf[0] = codecVersion
	off := 1
	copy(buf[off:], reqID[:])
	off += 16
	copy(buf[off:], agentID[:])
	off += 16
	for _, ident := range []string{r.Operator, r.Owner, r.Recipient} {
		if err := putIdentity(buf[off:off+identityWidth], ident); err != nil {
			return nil, err
		}
		off += identityWidth
	}
	binary.BigEndian.PutUint64(buf[off:], r.Amount)
	off += 8
	binary.BigEndian.PutUint16(buf[off:], uint16(len(r.Purpose)))
	off += 2
	copy(buf[off:], r.Purpose)
	off += maxPurposeSize
	buf[off] = st
	off++
	binary.BigEndian.PutUint64(buf[off:], uint64(r.RequestedAt.UnixNano()))
	off += 8
	if r.ProcessedAt != nil {
		buf[off] = 1
		binary.BigEndian.PutUint64(buf[off+1:], uint64(r.ProcessedAt.UnixNano()))
	}
	return buf, nil
}

// UnmarshalBinary decodes a fixed-size payment request record.
func (r *PaymentRequest) UnmarshalBinary(buf []byte) error {
	if len(buf) != PaymentRequestRecordSize {
		return fmt.Errorf("payment request record: want %d bytes, got %d", PaymentRequestRecordSize, len(buf))
	}
	if buf[0] != codecVersion {
		return fmt.Errorf("payment request record: unsupported version %d", buf[0])
	}
	off := 1
	var reqID, agentID uuid.UUID
	copy(reqID[:], buf[off:off+16])
	r.RequestID = reqID.String()
	off += 16
	copy(agentID[:], buf[off:off+16])
	r.AgentID = agentID.String()
	off += 16
	r.Operator = getIdentity(buf[off : off+identityWidth])
	off += identityWidth
	r.Owner = getIdentity(buf[off : off+identityWidth])
	off += identityWidth
	r.Recipient = getIdentity(buf[off : off+identityWidth])
	off += identityWidth
	r.Amount = binary.BigEndian.Uint64(buf[off:])
	off += 8
	plen := int(binary.BigEndian.Uint16(buf[off:]))
	off += 2
	if plen > maxPurposeSize {
		return fmt.Errorf("payment request record: purpose length %d out of range", plen)
	}
	r.Purpose = string(buf[off : off+plen])
	off += maxPurposeSize
	st, err := statusFromByte(buf[off])
	if err != nil {
		return err
	}
	r.Status = st
	off++
	r.RequestedAt = time.Unix(0, int64(binary.BigEndian.Uint64(buf[off:]))).UTC()
	off += 8
	if buf[off] == 1 {
		t := time.Unix(0, int64(binary.BigEndian.Uint64(buf[off+1:]))).UTC()
		r.ProcessedAt = &t
	} else {
		r.ProcessedAt = nil
	}
	return nil
}
