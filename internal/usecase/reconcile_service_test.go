package usecase

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/payment"
)

func (f *fixture) submitPendingPayment(t *testing.T, clientID, teamID string) payment.Payment {
	t.Helper()

	service := NewPaymentService(f.payments, f.fees, stubReceiptStore{}, f.idGen, nil)
	p, err := service.SubmitReceipt(t.Context(), SubmitReceiptInput{
		ClientID: clientID, TeamID: teamID,
		Receipt: bytes.NewReader([]byte("receipt-bytes")), Size: 13, ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("submit receipt: %v", err)
	}
	return p
}

func TestReconcileService_Approve(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID, teamID := f.preparePayableTeam(t)
	pending := f.submitPendingPayment(t, clientID, teamID)

	decided, err := f.reconcile.Decide(ctx, DecideInput{
		PaymentID: pending.ID, AdminID: "admin-1", Approve: true, Note: "bank ref 4411",
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}

	if decided.Status != payment.StatusApproved {
		t.Errorf("Status = %q, want approved", decided.Status)
	}
	if decided.ReviewedAt == nil {
		t.Error("ReviewedAt not set")
	}

	stored, _, _ := f.teams.GetByID(ctx, teamID)
	if stored.UnpaidMembersCount != 0 {
		t.Errorf("UnpaidMembersCount = %d, want 0", stored.UnpaidMembersCount)
	}

	entries, err := f.audits.ListByTeam(ctx, teamID)
	if err != nil {
		t.Fatalf("list audit entries: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "payment_approved" {
		t.Fatalf("audit entries = %+v, want one payment_approved", entries)
	}

	// The owner is notified.
	if len(f.notifier.messages) == 0 {
		t.Error("no notification sent")
	}
}

func TestReconcileService_ApproveReactivatesInactiveMembersOnly(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID, teamID := f.preparePayableTeam(t)

	members, _ := f.members.ListByTeam(ctx, teamID)
	inactiveID := members[0].ID
	withdrawnID := members[1].ID
	if err := f.members.UpdateStatus(ctx, inactiveID, lifecycle.StatusInactive); err != nil {
		t.Fatal(err)
	}
	if err := f.members.UpdateStatus(ctx, withdrawnID, lifecycle.StatusWithdrawn); err != nil {
		t.Fatal(err)
	}

	pending := f.submitPendingPayment(t, clientID, teamID)
	if _, err := f.reconcile.Decide(ctx, DecideInput{
		PaymentID: pending.ID, AdminID: "admin-1", Approve: true,
	}); err != nil {
		t.Fatalf("decide: %v", err)
	}

	after, _ := f.members.ListByTeam(ctx, teamID)
	for _, m := range after {
		switch m.ID {
		case inactiveID:
			if m.Status != lifecycle.StatusActive {
				t.Errorf("inactive member status = %q, want active", m.Status)
			}
		case withdrawnID:
			if m.Status != lifecycle.StatusWithdrawn {
				t.Errorf("withdrawn member status = %q, want withdrawn", m.Status)
			}
		}
	}
}

func TestReconcileService_Reject(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID, teamID := f.preparePayableTeam(t)
	pending := f.submitPendingPayment(t, clientID, teamID)

	before, _, _ := f.teams.GetByID(ctx, teamID)

	decided, err := f.reconcile.Decide(ctx, DecideInput{
		PaymentID: pending.ID, AdminID: "admin-1", Approve: false, Note: "amount mismatch",
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if decided.Status != payment.StatusRejected {
		t.Errorf("Status = %q, want rejected", decided.Status)
	}

	// Rejection leaves the unpaid counter untouched.
	after, _, _ := f.teams.GetByID(ctx, teamID)
	if after.UnpaidMembersCount != before.UnpaidMembersCount {
		t.Errorf("UnpaidMembersCount changed: %d -> %d", before.UnpaidMembersCount, after.UnpaidMembersCount)
	}

	entries, _ := f.audits.ListByTeam(ctx, teamID)
	if len(entries) != 1 || entries[0].Action != "payment_rejected" {
		t.Fatalf("audit entries = %+v, want one payment_rejected", entries)
	}
}

func TestReconcileService_DecisionIsFinal(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID, teamID := f.preparePayableTeam(t)
	pending := f.submitPendingPayment(t, clientID, teamID)

	if _, err := f.reconcile.Decide(ctx, DecideInput{
		PaymentID: pending.ID, AdminID: "admin-1", Approve: true,
	}); err != nil {
		t.Fatalf("first decision: %v", err)
	}

	_, err := f.reconcile.Decide(ctx, DecideInput{
		PaymentID: pending.ID, AdminID: "admin-2", Approve: false,
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second decision err = %v, want %v", err, ErrInvalidState)
	}
}

func TestReconcileService_ConcurrentDecisionsOneWinner(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID, teamID := f.preparePayableTeam(t)
	pending := f.submitPendingPayment(t, clientID, teamID)

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.reconcile.Decide(ctx, DecideInput{
				PaymentID: pending.ID, AdminID: "admin-1", Approve: true,
			})
		}()
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if !errors.Is(err, ErrInvalidState) {
			t.Errorf("unexpected racer error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}

	// The counter was decremented once, not once per racer.
	stored, _, _ := f.teams.GetByID(ctx, teamID)
	if stored.UnpaidMembersCount != 0 {
		t.Errorf("UnpaidMembersCount = %d, want 0", stored.UnpaidMembersCount)
	}

	entries, _ := f.audits.ListByTeam(ctx, teamID)
	if len(entries) != 1 {
		t.Errorf("audit entries = %d, want 1", len(entries))
	}
}

func TestReconcileService_UnknownPayment(t *testing.T) {
	f := newFixture()

	_, err := f.reconcile.Decide(t.Context(), DecideInput{
		PaymentID: "missing", AdminID: "admin-1", Approve: true,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("decide err = %v, want %v", err, ErrNotFound)
	}
}
