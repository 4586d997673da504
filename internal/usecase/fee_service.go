package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/billing"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/member"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/payment"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/team"
)

// FeeService computes what a team owes. The first payment covers the
// whole active roster plus the team fee; later payments cover only the
// unpaid counter, at full per-member price.
type FeeService struct {
	teamRepo    team.Repository
	memberRepo  member.Repository
	paymentRepo payment.Repository
	pricing     billing.Pricing
	roster      *RosterService
}

func NewFeeService(
	teamRepo team.Repository,
	memberRepo member.Repository,
	paymentRepo payment.Repository,
	pricing billing.Pricing,
	roster *RosterService,
) *FeeService {
	return &FeeService{
		teamRepo:    teamRepo,
		memberRepo:  memberRepo,
		paymentRepo: paymentRepo,
		pricing:     pricing,
		roster:      roster,
	}
}

func (s *FeeService) QuoteTeam(ctx context.Context, clientID, teamID string) (billing.Quote, error) {
	ctx, span := startUsecaseSpan(ctx, "FeeService.QuoteTeam")
	defer span.End()

	t, err := s.roster.ownedTeam(ctx, clientID, teamID)
	if err != nil {
		return billing.Quote{}, err
	}
	if t.Status != lifecycle.StatusActive {
		return billing.Quote{}, fmt.Errorf("%w: team is %s", ErrInvalidState, t.Status)
	}
	if t.LeagueOneID == "" {
		return billing.Quote{}, fmt.Errorf("%w: choose a league before paying", ErrInvalidState)
	}

	paidBefore, err := s.paymentRepo.HasApproved(ctx, t.ID)
	if err != nil {
		return billing.Quote{}, fmt.Errorf("check payments: %w", err)
	}

	var quote billing.Quote
	if paidBefore {
		quote, err = billing.IncrementalQuote(t.UnpaidMembersCount, s.pricing)
	} else {
		var active int
		active, err = s.memberRepo.CountActive(ctx, t.ID)
		if err != nil {
			return billing.Quote{}, fmt.Errorf("count members: %w", err)
		}
		quote, err = billing.FirstQuote(active, t.LeagueTwoID != nil, s.pricing)
	}
	if err != nil {
		if errors.Is(err, billing.ErrNothingToPay) || errors.Is(err, billing.ErrNoActiveMembers) {
			return billing.Quote{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		return billing.Quote{}, fmt.Errorf("quote team: %w", err)
	}

	return quote, nil
}
