package usecase

import (
	"bytes"
	"errors"
	"testing"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/infrastructure/repository/memory"
)

func TestFeeService_FirstQuoteSingleLeague(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID := f.mustRegisterClient(ctx, "09120000001")
	teamID := f.mustCreateTeam(ctx, clientID, "Persian Gears", memory.LeagueIDSoccerSim, "")

	f.mustAddMember(ctx, clientID, teamID, "Ali Rahimi", nidAli, "member", 16)
	f.mustAddMember(ctx, clientID, teamID, "Sara Karimi", nidSara, "member", 17)
	f.mustAddMember(ctx, clientID, teamID, "Reza Moradi", nidReza, "member", 15)

	quote, err := f.fees.QuoteTeam(ctx, clientID, teamID)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if quote.Total != 33_000_000 {
		t.Fatalf("Total = %d, want 33000000", quote.Total)
	}
	if quote.MemberCount != 3 {
		t.Errorf("MemberCount = %d, want 3", quote.MemberCount)
	}
	if quote.Incremental {
		t.Error("first quote flagged incremental")
	}
}

func TestFeeService_FirstQuoteWithSecondLeague(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID := f.mustRegisterClient(ctx, "09120000001")
	teamID := f.mustCreateTeam(ctx, clientID, "Persian Gears", memory.LeagueIDSoccerSim, memory.LeagueIDRescue)

	f.mustAddMember(ctx, clientID, teamID, "Ali Rahimi", nidAli, "member", 16)
	f.mustAddMember(ctx, clientID, teamID, "Sara Karimi", nidSara, "member", 17)
	f.mustAddMember(ctx, clientID, teamID, "Reza Moradi", nidReza, "member", 15)

	quote, err := f.fees.QuoteTeam(ctx, clientID, teamID)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if quote.Total != 55_800_000 {
		t.Fatalf("Total = %d, want 55800000", quote.Total)
	}
}

func TestFeeService_IncrementalQuoteAfterApproval(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID := f.mustRegisterClient(ctx, "09120000001")
	teamID := f.mustCreateTeam(ctx, clientID, "Persian Gears", memory.LeagueIDSoccerSim, "")

	f.mustAddMember(ctx, clientID, teamID, "Ali Rahimi", nidAli, "member", 16)
	f.mustAddMember(ctx, clientID, teamID, "Sara Karimi", nidSara, "member", 17)
	f.mustAddMember(ctx, clientID, teamID, "Reza Moradi", nidReza, "member", 15)
	f.approvePayment(t, clientID, teamID)

	// Two late joiners after the approved payment.
	f.mustAddMember(ctx, clientID, teamID, "Mina Taheri", nidMina, "member", 16)
	f.mustAddMember(ctx, clientID, teamID, "Omid Naderi", nidOmid, "member", 17)

	quote, err := f.fees.QuoteTeam(ctx, clientID, teamID)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if quote.Total != 19_000_000 {
		t.Fatalf("Total = %d, want 19000000", quote.Total)
	}
	if !quote.Incremental {
		t.Error("incremental quote not flagged")
	}
	if quote.MemberCount != 2 {
		t.Errorf("MemberCount = %d, want 2", quote.MemberCount)
	}
}

func TestFeeService_Refusals(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID := f.mustRegisterClient(ctx, "09120000001")

	t.Run("empty roster", func(t *testing.T) {
		teamID := f.mustCreateTeam(ctx, clientID, "Empty Roster", memory.LeagueIDSoccerSim, "")
		if _, err := f.fees.QuoteTeam(ctx, clientID, teamID); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("quote err = %v, want %v", err, ErrInvalidState)
		}
	})

	t.Run("nothing unpaid after approval", func(t *testing.T) {
		teamID := f.mustCreateTeam(ctx, clientID, "All Paid", memory.LeagueIDRescue, "")
		f.mustAddMember(ctx, clientID, teamID, "Kian Sabzi", nidKian, "member", 16)
		f.approvePayment(t, clientID, teamID)

		if _, err := f.fees.QuoteTeam(ctx, clientID, teamID); !errors.Is(err, ErrInvalidState) {
			t.Fatalf("quote err = %v, want %v", err, ErrInvalidState)
		}
	})
}

// approvePayment pushes a receipt through submission and approval so
// later quotes take the incremental path.
func (f *fixture) approvePayment(t *testing.T, clientID, teamID string) {
	t.Helper()
	ctx := t.Context()

	payments := NewPaymentService(f.payments, f.fees, stubReceiptStore{}, f.idGen, nil)
	p, err := payments.SubmitReceipt(ctx, SubmitReceiptInput{
		ClientID:    clientID,
		TeamID:      teamID,
		Receipt:     bytes.NewReader([]byte("receipt-bytes")),
		Size:        13,
		ContentType: "image/png",
	})
	if err != nil {
		t.Fatalf("submit receipt: %v", err)
	}
	if _, err := f.reconcile.Decide(ctx, DecideInput{
		PaymentID: p.ID, AdminID: "admin-1", Approve: true,
	}); err != nil {
		t.Fatalf("approve payment: %v", err)
	}
}
