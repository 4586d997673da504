package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/client"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/payment"
	auditlogmock "github.com/kiacoder/AirocupWebsite-sub000/internal/mocks/domain/auditlog"
	clientmock "github.com/kiacoder/AirocupWebsite-sub000/internal/mocks/domain/client"
	paymentmock "github.com/kiacoder/AirocupWebsite-sub000/internal/mocks/domain/payment"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
)

func TestReconcileService_Decide_ApproveUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	paymentRepo := paymentmock.NewRepository(t)
	clientRepo := clientmock.NewRepository(t)
	auditRepo := auditlogmock.NewRepository(t)
	notifier := &fakeNotifier{}

	service := NewReconcileService(paymentRepo, clientRepo, auditRepo, notifier, &seqIDGenerator{}, logging.NewNop())

	pending := payment.Payment{
		ID:             "pay-1",
		TeamID:         "team-1",
		ClientID:       "client-1",
		Status:         payment.StatusPending,
		Amount:         900000,
		MembersPaidFor: 3,
		CreatedAt:      time.Now().UTC(),
	}
	approved := pending
	approved.Status = payment.StatusApproved

	paymentRepo.
		On("GetByID", mock.Anything, "pay-1").
		Return(pending, true, nil).
		Once()
	paymentRepo.
		On("ApplyDecision", mock.Anything, mock.MatchedBy(func(d payment.Decision) bool {
			return d.PaymentID == "pay-1" && d.Approve && d.UnpaidDecrement == 3 &&
				d.Entry.Action == "payment_approved" && d.Entry.TeamID == "team-1"
		})).
		Return(nil).
		Once()
	paymentRepo.
		On("GetByID", mock.Anything, "pay-1").
		Return(approved, true, nil).
		Once()
	clientRepo.
		On("GetByID", mock.Anything, "client-1").
		Return(client.Client{ID: "client-1", Phone: "09120000001"}, true, nil).
		Once()

	got, err := service.Decide(ctx, DecideInput{PaymentID: "pay-1", AdminID: "admin-1", Approve: true})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if got.Status != payment.StatusApproved {
		t.Fatalf("unexpected status: got=%s want=%s", got.Status, payment.StatusApproved)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifier.messages))
	}
}

func TestReconcileService_Decide_LostRaceUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	paymentRepo := paymentmock.NewRepository(t)
	clientRepo := clientmock.NewRepository(t)
	auditRepo := auditlogmock.NewRepository(t)

	service := NewReconcileService(paymentRepo, clientRepo, auditRepo, &fakeNotifier{}, &seqIDGenerator{}, logging.NewNop())

	pending := payment.Payment{
		ID:       "pay-2",
		TeamID:   "team-1",
		ClientID: "client-1",
		Status:   payment.StatusPending,
	}

	paymentRepo.
		On("GetByID", mock.Anything, "pay-2").
		Return(pending, true, nil).
		Once()
	paymentRepo.
		On("ApplyDecision", mock.Anything, mock.Anything).
		Return(payment.ErrAlreadyProcessed).
		Once()

	_, err := service.Decide(ctx, DecideInput{PaymentID: "pay-2", AdminID: "admin-1", Approve: false})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestReconcileService_Decide_TerminalPaymentUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	paymentRepo := paymentmock.NewRepository(t)
	clientRepo := clientmock.NewRepository(t)
	auditRepo := auditlogmock.NewRepository(t)

	service := NewReconcileService(paymentRepo, clientRepo, auditRepo, &fakeNotifier{}, &seqIDGenerator{}, logging.NewNop())

	paymentRepo.
		On("GetByID", mock.Anything, "pay-3").
		Return(payment.Payment{ID: "pay-3", Status: payment.StatusRejected}, true, nil).
		Once()

	_, err := service.Decide(ctx, DecideInput{PaymentID: "pay-3", AdminID: "admin-1", Approve: true})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}
