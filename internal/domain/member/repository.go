package member

import (
	"context"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
)

// Repository describes member persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, memberID string) (Member, bool, error)
	ListByTeam(ctx context.Context, teamID string) ([]Member, error)
	CountActive(ctx context.Context, teamID string) (int, error)
	Create(ctx context.Context, m Member) error
	Update(ctx context.Context, m Member) error
	UpdateStatus(ctx context.Context, memberID string, status lifecycle.Status) error
	// ListActivePlayersByNationalID returns active members holding the
	// given national ID in the plain member role, across all teams.
	// Leaders and coaches are excluded by construction.
	ListActivePlayersByNationalID(ctx context.Context, nationalID string) ([]Member, error)
	// HasActiveLeader reports whether the team already has an active
	// leader other than excludeMemberID (empty to consider all).
	HasActiveLeader(ctx context.Context, teamID, excludeMemberID string) (bool, error)
}
