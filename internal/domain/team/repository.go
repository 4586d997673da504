package team

import (
	"context"
	"errors"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
)

// ErrNameTaken is returned when the store's unique-name constraint
// rejects a create. No retry is attempted; the caller surfaces it.
var ErrNameTaken = errors.New("team name already exists")

// Repository describes team persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, teamID string) (Team, bool, error)
	ListByClient(ctx context.Context, clientID string) ([]Team, error)
	CountActiveByClient(ctx context.Context, clientID string) (int, error)
	Create(ctx context.Context, t Team) error
	UpdateLeagues(ctx context.Context, teamID, leagueOneID string, leagueTwoID *string) error
	UpdateAggregates(ctx context.Context, teamID string, averageAge float64, distinctProvinces int) error
	UpdateStatus(ctx context.Context, teamID string, status lifecycle.Status) error
	// AddUnpaid shifts the unpaid members counter by delta, clamped at a
	// floor of zero.
	AddUnpaid(ctx context.Context, teamID string, delta int) error
}
