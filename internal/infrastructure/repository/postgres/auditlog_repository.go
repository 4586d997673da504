package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/auditlog"
	qb "github.com/kiacoder/AirocupWebsite-sub000/internal/platform/querybuilder"
)

type AuditLogRepository struct {
	db *sqlx.DB
}

func NewAuditLogRepository(db *sqlx.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Append(ctx context.Context, e auditlog.Entry) error {
	query, args, err := qb.InsertInto("audit_log").
		Columns("id", "client_id", "team_id", "action", "detail", "at").
		Values(e.ID, e.ClientID, e.TeamID, e.Action, e.Detail, e.At).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert audit entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

func (r *AuditLogRepository) ListByTeam(ctx context.Context, teamID string) ([]auditlog.Entry, error) {
	query, args, err := qb.Select("*").From("audit_log").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select audit entries query: %w", err)
	}

	var rows []struct {
		ID       string    `db:"id"`
		ClientID string    `db:"client_id"`
		TeamID   string    `db:"team_id"`
		Action   string    `db:"action"`
		Detail   string    `db:"detail"`
		At       time.Time `db:"at"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select audit entries: %w", err)
	}

	out := make([]auditlog.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, auditlog.Entry{
			ID:       row.ID,
			ClientID: row.ClientID,
			TeamID:   row.TeamID,
			Action:   row.Action,
			Detail:   row.Detail,
			At:       row.At,
		})
	}

	return out, nil
}
