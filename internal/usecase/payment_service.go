package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/payment"
	idgen "github.com/kiacoder/AirocupWebsite-sub000/internal/platform/id"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
)

// ReceiptStore persists uploaded receipt images and hands back an
// opaque token. Save failures are treated as retryable by callers.
// Delete removes a stored receipt and reports no error when the token
// is already gone.
type ReceiptStore interface {
	Save(ctx context.Context, r io.Reader, size int64, contentType string) (string, error)
	Open(ctx context.Context, token string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, token string) error
}

// SubmitReceiptInput carries an uploaded bank receipt for a team.
type SubmitReceiptInput struct {
	ClientID    string
	TeamID      string
	Receipt     io.Reader
	Size        int64
	ContentType string
}

// PaymentService accepts receipt submissions. The amount is computed
// server-side from the current quote, never taken from the client.
type PaymentService struct {
	paymentRepo payment.Repository
	fees        *FeeService
	receipts    ReceiptStore
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewPaymentService(
	paymentRepo payment.Repository,
	fees *FeeService,
	receipts ReceiptStore,
	idGen idgen.Generator,
	logger *logging.Logger,
) *PaymentService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PaymentService{
		paymentRepo: paymentRepo,
		fees:        fees,
		receipts:    receipts,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *PaymentService) SubmitReceipt(ctx context.Context, input SubmitReceiptInput) (payment.Payment, error) {
	ctx, span := startUsecaseSpan(ctx, "PaymentService.SubmitReceipt")
	defer span.End()

	if input.Receipt == nil || input.Size <= 0 {
		return payment.Payment{}, fmt.Errorf("%w: a receipt file is required", ErrInvalidInput)
	}

	quote, err := s.fees.QuoteTeam(ctx, input.ClientID, input.TeamID)
	if err != nil {
		return payment.Payment{}, err
	}

	existing, err := s.paymentRepo.ListByTeam(ctx, strings.TrimSpace(input.TeamID))
	if err != nil {
		return payment.Payment{}, fmt.Errorf("list payments: %w", err)
	}
	for _, p := range existing {
		if p.Status == payment.StatusPending {
			return payment.Payment{}, fmt.Errorf("%w: a payment is already under review", ErrConflict)
		}
	}

	token, err := s.receipts.Save(ctx, input.Receipt, input.Size, input.ContentType)
	if err != nil {
		return payment.Payment{}, fmt.Errorf("%w: store receipt: %v", ErrTransientIO, err)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		s.discardReceipt(ctx, token)
		return payment.Payment{}, fmt.Errorf("generate payment id: %w", err)
	}

	p := payment.Payment{
		ID:             id,
		TeamID:         strings.TrimSpace(input.TeamID),
		ClientID:       strings.TrimSpace(input.ClientID),
		Status:         payment.StatusPending,
		Amount:         quote.Total,
		MembersPaidFor: quote.MemberCount,
		ReceiptToken:   token,
		CreatedAt:      s.now().UTC(),
	}
	if err := p.Validate(); err != nil {
		s.discardReceipt(ctx, token)
		return payment.Payment{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.paymentRepo.Create(ctx, p); err != nil {
		s.discardReceipt(ctx, token)
		return payment.Payment{}, fmt.Errorf("create payment: %w", err)
	}

	s.logger.InfoContext(ctx, "receipt submitted",
		"payment_id", p.ID, "team_id", p.TeamID, "amount", p.Amount)

	return p, nil
}

// discardReceipt removes a blob whose payment row never materialized.
// Best effort: a leftover file is logged, not surfaced.
func (s *PaymentService) discardReceipt(ctx context.Context, token string) {
	if err := s.receipts.Delete(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "orphaned receipt cleanup failed", "receipt_token", token, "error", err)
	}
}

func (s *PaymentService) ListClientPayments(ctx context.Context, clientID string) ([]payment.Payment, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}

	payments, err := s.paymentRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	return payments, nil
}

// OpenReceipt streams a stored receipt for admin review.
func (s *PaymentService) OpenReceipt(ctx context.Context, paymentID string) (io.ReadCloser, string, error) {
	p, found, err := s.paymentRepo.GetByID(ctx, strings.TrimSpace(paymentID))
	if err != nil {
		return nil, "", fmt.Errorf("get payment: %w", err)
	}
	if !found {
		return nil, "", fmt.Errorf("%w: payment %s", ErrNotFound, paymentID)
	}

	rc, contentType, err := s.receipts.Open(ctx, p.ReceiptToken)
	if err != nil {
		return nil, "", fmt.Errorf("%w: open receipt: %v", ErrTransientIO, err)
	}

	return rc, contentType, nil
}
