package billing

import (
	"errors"
	"fmt"
)

var (
	ErrNothingToPay    = errors.New("nothing to pay")
	ErrNoActiveMembers = errors.New("team has no active members")
	ErrInvalidPricing  = errors.New("invalid pricing configuration")
)

// Pricing stores the registration fee parameters, injected at startup.
// Amounts are whole rials.
type Pricing struct {
	FeePerMember         int64
	TeamFee              int64
	SecondLeagueDiscount int // percent, 0-100
}

func (p Pricing) Validate() error {
	if p.FeePerMember <= 0 {
		return fmt.Errorf("%w: fee per member must be > 0", ErrInvalidPricing)
	}
	if p.TeamFee < 0 {
		return fmt.Errorf("%w: team fee cannot be negative", ErrInvalidPricing)
	}
	if p.SecondLeagueDiscount < 0 || p.SecondLeagueDiscount > 100 {
		return fmt.Errorf("%w: discount must be 0-100", ErrInvalidPricing)
	}

	return nil
}

// Line is one breakdown row of a quote.
type Line struct {
	Label  string
	Amount int64
}

// Quote is the computed amount a team owes for a registration payment.
type Quote struct {
	Total       int64
	Lines       []Line
	MemberCount int
	Incremental bool
}

// FirstQuote prices a team's initial registration: team fee plus the
// per-member fee for every active member, and a discounted second slot
// when a second league is selected. The discount applies to the member
// fees only, never the team fee.
func FirstQuote(activeMembers int, hasSecondLeague bool, p Pricing) (Quote, error) {
	if err := p.Validate(); err != nil {
		return Quote{}, err
	}
	if activeMembers <= 0 {
		return Quote{}, ErrNoActiveMembers
	}

	membersFee := int64(activeMembers) * p.FeePerMember
	leagueOne := p.TeamFee + membersFee

	quote := Quote{
		Total:       leagueOne,
		MemberCount: activeMembers,
		Lines: []Line{
			{Label: "team registration", Amount: p.TeamFee},
			{Label: fmt.Sprintf("first league, %d member(s)", activeMembers), Amount: membersFee},
		},
	}

	if hasSecondLeague {
		leagueTwo := membersFee * int64(100-p.SecondLeagueDiscount) / 100
		quote.Total += leagueTwo
		quote.Lines = append(quote.Lines, Line{
			Label:  fmt.Sprintf("second league, %d%% discount", p.SecondLeagueDiscount),
			Amount: leagueTwo,
		})
	}

	return quote, nil
}

// IncrementalQuote prices members added after an approved payment: the
// plain per-member fee, with no team fee and no second-league discount.
func IncrementalQuote(unpaidMembers int, p Pricing) (Quote, error) {
	if err := p.Validate(); err != nil {
		return Quote{}, err
	}
	if unpaidMembers <= 0 {
		return Quote{}, ErrNothingToPay
	}

	total := int64(unpaidMembers) * p.FeePerMember

	return Quote{
		Total:       total,
		MemberCount: unpaidMembers,
		Incremental: true,
		Lines: []Line{
			{Label: fmt.Sprintf("%d additional member(s)", unpaidMembers), Amount: total},
		},
	}, nil
}
