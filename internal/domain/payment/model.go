package payment

import (
	"fmt"
	"time"
)

// Status is the payment review lifecycle. Approved and Rejected are
// terminal; a decision on a non-pending payment must fail.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var AllStatuses = map[Status]struct{}{
	StatusPending:  {},
	StatusApproved: {},
	StatusRejected: {},
}

var StatusLabels = map[Status]string{
	StatusPending:  "Pending Review",
	StatusApproved: "Approved",
	StatusRejected: "Rejected",
}

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Payment is a manually reviewed receipt submission. It is created once
// and mutated exactly once by an admin decision, never deleted.
type Payment struct {
	ID             string
	TeamID         string
	ClientID       string
	Status         Status
	Amount         int64
	MembersPaidFor int
	ReceiptToken   string
	CreatedAt      time.Time
	ReviewedAt     *time.Time
}

func (p Payment) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("payment id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("payment team id is required")
	}
	if p.ClientID == "" {
		return fmt.Errorf("payment client id is required")
	}
	if _, ok := AllStatuses[p.Status]; !ok {
		return fmt.Errorf("invalid payment status: %s", p.Status)
	}
	if p.Amount <= 0 {
		return fmt.Errorf("payment amount must be greater than zero")
	}
	if p.MembersPaidFor < 0 {
		return fmt.Errorf("members paid for cannot be negative")
	}

	return nil
}
