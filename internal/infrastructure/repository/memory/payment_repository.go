package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/payment"
)

// PaymentRepository keeps payments and applies review decisions against
// the sibling repositories. The pending check and the status flip
// happen under one lock, so concurrent decisions on the same payment
// see exactly one winner.
type PaymentRepository struct {
	mu    sync.RWMutex
	items map[string]payment.Payment

	teams    *TeamRepository
	members  *MemberRepository
	auditLog *AuditLogRepository
}

func NewPaymentRepository(teams *TeamRepository, members *MemberRepository, auditLog *AuditLogRepository) *PaymentRepository {
	return &PaymentRepository{
		items:    make(map[string]payment.Payment),
		teams:    teams,
		members:  members,
		auditLog: auditLog,
	}
}

func (r *PaymentRepository) GetByID(_ context.Context, paymentID string) (payment.Payment, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[paymentID]
	return clonePayment(p), ok, nil
}

func (r *PaymentRepository) Create(_ context.Context, p payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[p.ID] = clonePayment(p)
	return nil
}

func (r *PaymentRepository) ListByClient(_ context.Context, clientID string) ([]payment.Payment, error) {
	return r.list(func(p payment.Payment) bool { return p.ClientID == clientID }), nil
}

func (r *PaymentRepository) ListByTeam(_ context.Context, teamID string) ([]payment.Payment, error) {
	return r.list(func(p payment.Payment) bool { return p.TeamID == teamID }), nil
}

func (r *PaymentRepository) ListPending(_ context.Context) ([]payment.Payment, error) {
	return r.list(func(p payment.Payment) bool { return p.Status == payment.StatusPending }), nil
}

func (r *PaymentRepository) HasApproved(_ context.Context, teamID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.items {
		if p.TeamID == teamID && p.Status == payment.StatusApproved {
			return true, nil
		}
	}

	return false, nil
}

func (r *PaymentRepository) ApplyDecision(ctx context.Context, d payment.Decision) error {
	r.mu.Lock()
	p, ok := r.items[d.PaymentID]
	if !ok || p.Status != payment.StatusPending {
		r.mu.Unlock()
		return payment.ErrAlreadyProcessed
	}

	if d.Approve {
		p.Status = payment.StatusApproved
	} else {
		p.Status = payment.StatusRejected
	}
	reviewedAt := d.Entry.At
	p.ReviewedAt = &reviewedAt
	r.items[d.PaymentID] = p
	r.mu.Unlock()

	if d.Approve {
		r.members.replaceStatusByTeam(d.TeamID, lifecycle.StatusInactive, lifecycle.StatusActive)
		if d.UnpaidDecrement > 0 {
			if err := r.teams.AddUnpaid(ctx, d.TeamID, -d.UnpaidDecrement); err != nil {
				return err
			}
		}
	}

	return r.auditLog.Append(ctx, d.Entry)
}

func (r *PaymentRepository) list(match func(payment.Payment) bool) []payment.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []payment.Payment
	for _, p := range r.items {
		if match(p) {
			out = append(out, clonePayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out
}

func clonePayment(p payment.Payment) payment.Payment {
	copied := p
	if p.ReviewedAt != nil {
		v := *p.ReviewedAt
		copied.ReviewedAt = &v
	}
	return copied
}
