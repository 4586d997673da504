package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/auditlog"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/client"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/payment"
	idgen "github.com/kiacoder/AirocupWebsite-sub000/internal/platform/id"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
)

// DecideInput is an admin's verdict on a pending payment.
type DecideInput struct {
	PaymentID string
	AdminID   string
	Approve   bool
	Note      string
}

// ReconcileService is the admin review queue. A decision happens at
// most once per payment; the repository enforces that atomically, so
// two admins racing on the same payment cannot both win.
type ReconcileService struct {
	paymentRepo payment.Repository
	clientRepo  client.Repository
	auditRepo   auditlog.Repository
	notifier    Notifier
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewReconcileService(
	paymentRepo payment.Repository,
	clientRepo client.Repository,
	auditRepo auditlog.Repository,
	notifier Notifier,
	idGen idgen.Generator,
	logger *logging.Logger,
) *ReconcileService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ReconcileService{
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		auditRepo:   auditRepo,
		notifier:    notifier,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *ReconcileService) ListPending(ctx context.Context) ([]payment.Payment, error) {
	payments, err := s.paymentRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending payments: %w", err)
	}

	return payments, nil
}

func (s *ReconcileService) Decide(ctx context.Context, input DecideInput) (payment.Payment, error) {
	ctx, span := startUsecaseSpan(ctx, "ReconcileService.Decide")
	defer span.End()

	input.PaymentID = strings.TrimSpace(input.PaymentID)
	if input.PaymentID == "" {
		return payment.Payment{}, fmt.Errorf("%w: payment id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.AdminID) == "" {
		return payment.Payment{}, fmt.Errorf("%w: admin id is required", ErrInvalidInput)
	}

	p, found, err := s.paymentRepo.GetByID(ctx, input.PaymentID)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	if !found {
		return payment.Payment{}, fmt.Errorf("%w: payment %s", ErrNotFound, input.PaymentID)
	}
	if p.Status.Terminal() {
		return payment.Payment{}, fmt.Errorf("%w: payment already %s", ErrInvalidState, p.Status)
	}

	action := "payment_rejected"
	decrement := 0
	if input.Approve {
		action = "payment_approved"
		decrement = p.MembersPaidFor
	}

	entryID, err := s.idGen.NewID()
	if err != nil {
		return payment.Payment{}, fmt.Errorf("generate audit id: %w", err)
	}

	now := s.now().UTC()
	d := payment.Decision{
		PaymentID:       p.ID,
		TeamID:          p.TeamID,
		Approve:         input.Approve,
		UnpaidDecrement: decrement,
		Entry: auditlog.Entry{
			ID:       entryID,
			ClientID: p.ClientID,
			TeamID:   p.TeamID,
			Action:   action,
			Detail:   s.decisionDetail(input, p),
			At:       now,
		},
	}

	if err := s.paymentRepo.ApplyDecision(ctx, d); err != nil {
		if errors.Is(err, payment.ErrAlreadyProcessed) {
			return payment.Payment{}, fmt.Errorf("%w: payment already processed", ErrInvalidState)
		}
		return payment.Payment{}, fmt.Errorf("apply decision: %w", err)
	}

	decided, _, err := s.paymentRepo.GetByID(ctx, p.ID)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("reload payment: %w", err)
	}

	s.logger.InfoContext(ctx, "payment decided",
		"payment_id", p.ID, "team_id", p.TeamID, "approved", input.Approve, "admin_id", input.AdminID)

	s.notifyDecision(ctx, decided)

	return decided, nil
}

func (s *ReconcileService) TeamHistory(ctx context.Context, teamID string) ([]auditlog.Entry, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	entries, err := s.auditRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}

	return entries, nil
}

func (s *ReconcileService) decisionDetail(input DecideInput, p payment.Payment) string {
	verdict := "rejected"
	if input.Approve {
		verdict = "approved"
	}
	detail := fmt.Sprintf("payment of %d for %d member(s) %s by %s",
		p.Amount, p.MembersPaidFor, verdict, input.AdminID)
	if note := strings.TrimSpace(input.Note); note != "" {
		detail += ": " + note
	}

	return detail
}

// notifyDecision informs the owner over SMS. Delivery is best effort
// and never fails the decision.
func (s *ReconcileService) notifyDecision(ctx context.Context, p payment.Payment) {
	c, found, err := s.clientRepo.GetByID(ctx, p.ClientID)
	if err != nil || !found {
		s.logger.WarnContext(ctx, "decision notification skipped",
			"payment_id", p.ID, "client_id", p.ClientID, "error", err)
		return
	}

	message := fmt.Sprintf("Your AiroCup payment was %s.", payment.StatusLabels[p.Status])
	if err := s.notifier.SendSMS(ctx, c.Phone, message); err != nil {
		s.logger.WarnContext(ctx, "decision notification failed",
			"payment_id", p.ID, "error", err)
	}
}
