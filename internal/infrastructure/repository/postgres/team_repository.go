package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/team"
	qb "github.com/kiacoder/AirocupWebsite-sub000/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *TeamRepository) ListByClient(ctx context.Context, clientID string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("client_id", clientID)).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by client: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *TeamRepository) CountActiveByClient(ctx context.Context, clientID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("teams").
		Where(
			qb.Eq("client_id", clientID),
			qb.Eq("status", string(lifecycle.StatusActive)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count teams query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count active teams: %w", err)
	}

	return count, nil
}

func (r *TeamRepository) Create(ctx context.Context, t team.Team) error {
	const query = `
INSERT INTO teams (
    id, client_id, name, league_one_id, league_two_id, education_level,
    status, unpaid_members_count, average_age, distinct_provinces, created_at, updated_at
) VALUES (
    :id, :client_id, :name, :league_one_id, :league_two_id, :education_level,
    :status, :unpaid_members_count, :average_age, :distinct_provinces, :created_at, :updated_at
)`

	_, err := r.db.NamedExecContext(ctx, query, map[string]any{
		"id":                   t.ID,
		"client_id":            t.ClientID,
		"name":                 t.Name,
		"league_one_id":        t.LeagueOneID,
		"league_two_id":        t.LeagueTwoID,
		"education_level":      string(t.EducationLevel),
		"status":               string(t.Status),
		"unpaid_members_count": t.UnpaidMembersCount,
		"average_age":          t.AverageAge,
		"distinct_provinces":   t.DistinctProvinces,
		"created_at":           t.CreatedAt,
		"updated_at":           t.UpdatedAt,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return team.ErrNameTaken
		}
		return fmt.Errorf("insert team: %w", err)
	}

	return nil
}

func (r *TeamRepository) UpdateLeagues(ctx context.Context, teamID, leagueOneID string, leagueTwoID *string) error {
	query, args, err := qb.Update("teams").
		Set("league_one_id", leagueOneID).
		Set("league_two_id", leagueTwoID).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team leagues query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team leagues: %w", err)
	}

	return nil
}

func (r *TeamRepository) UpdateAggregates(ctx context.Context, teamID string, averageAge float64, distinctProvinces int) error {
	query, args, err := qb.Update("teams").
		Set("average_age", averageAge).
		Set("distinct_provinces", distinctProvinces).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team aggregates query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team aggregates: %w", err)
	}

	return nil
}

func (r *TeamRepository) UpdateStatus(ctx context.Context, teamID string, status lifecycle.Status) error {
	query, args, err := qb.Update("teams").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team status query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team status: %w", err)
	}

	return nil
}

func (r *TeamRepository) AddUnpaid(ctx context.Context, teamID string, delta int) error {
	// GREATEST keeps the counter at zero when a decrement overshoots.
	query, args, err := qb.Update("teams").
		SetExpr("unpaid_members_count", "GREATEST(unpaid_members_count + ?, 0)", delta).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update unpaid counter query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update unpaid counter: %w", err)
	}

	return nil
}
