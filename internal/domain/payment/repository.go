package payment

import (
	"context"
	"errors"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/auditlog"
)

// ErrAlreadyProcessed is returned by ApplyDecision when the payment is no
// longer pending. The conditional status update makes the check race-safe.
var ErrAlreadyProcessed = errors.New("payment already processed")

// Decision is the single-transaction mutation applied when an admin
// reviews a pending payment. On approval the repository must, atomically:
// flip the payment to approved, reactivate the team's inactive members
// (withdrawn members stay withdrawn), decrement the team's unpaid counter
// clamped at zero, and append the audit entry. On rejection only the
// status flip and the audit entry apply.
type Decision struct {
	PaymentID       string
	TeamID          string
	Approve         bool
	UnpaidDecrement int
	Entry           auditlog.Entry
}

// Repository describes payment persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, paymentID string) (Payment, bool, error)
	Create(ctx context.Context, p Payment) error
	ListByClient(ctx context.Context, clientID string) ([]Payment, error)
	ListByTeam(ctx context.Context, teamID string) ([]Payment, error)
	ListPending(ctx context.Context) ([]Payment, error)
	HasApproved(ctx context.Context, teamID string) (bool, error)
	ApplyDecision(ctx context.Context, d Decision) error
}
