package auditlog

import "context"

// Repository describes audit-log persistence. Entries are never updated
// or deleted.
type Repository interface {
	Append(ctx context.Context, e Entry) error
	ListByTeam(ctx context.Context, teamID string) ([]Entry, error)
}
