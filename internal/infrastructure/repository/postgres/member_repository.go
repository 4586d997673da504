package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/member"
	qb "github.com/kiacoder/AirocupWebsite-sub000/internal/platform/querybuilder"
)

type MemberRepository struct {
	db *sqlx.DB
}

func NewMemberRepository(db *sqlx.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) GetByID(ctx context.Context, memberID string) (member.Member, bool, error) {
	query, args, err := qb.Select("*").From("members").
		Where(qb.Eq("id", memberID)).
		ToSQL()
	if err != nil {
		return member.Member{}, false, fmt.Errorf("build select member query: %w", err)
	}

	var row memberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return member.Member{}, false, nil
		}
		return member.Member{}, false, fmt.Errorf("get member: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *MemberRepository) ListByTeam(ctx context.Context, teamID string) ([]member.Member, error) {
	query, args, err := qb.Select("*").From("members").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select members query: %w", err)
	}

	var rows []memberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select members by team: %w", err)
	}

	out := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *MemberRepository) CountActive(ctx context.Context, teamID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("members").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("status", string(lifecycle.StatusActive)),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count members query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count active members: %w", err)
	}

	return count, nil
}

func (r *MemberRepository) Create(ctx context.Context, m member.Member) error {
	if err := r.upsert(ctx, m, true); err != nil {
		return fmt.Errorf("insert member: %w", err)
	}
	return nil
}

func (r *MemberRepository) Update(ctx context.Context, m member.Member) error {
	if err := r.upsert(ctx, m, false); err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return nil
}

func (r *MemberRepository) upsert(ctx context.Context, m member.Member, insert bool) error {
	args := map[string]any{
		"id":          m.ID,
		"team_id":     m.TeamID,
		"full_name":   m.FullName,
		"national_id": nullString(m.NationalID),
		"role":        string(m.Role),
		"status":      string(m.Status),
		"birth_date":  nullTime(m.BirthDate),
		"city_id":     nullString(m.CityID),
		"created_at":  m.CreatedAt,
		"updated_at":  m.UpdatedAt,
	}

	query := `
UPDATE members SET
    full_name = :full_name,
    national_id = :national_id,
    role = :role,
    status = :status,
    birth_date = :birth_date,
    city_id = :city_id,
    updated_at = :updated_at
WHERE id = :id`
	if insert {
		query = `
INSERT INTO members (id, team_id, full_name, national_id, role, status, birth_date, city_id, created_at, updated_at)
VALUES (:id, :team_id, :full_name, :national_id, :role, :status, :birth_date, :city_id, :created_at, :updated_at)`
	}

	_, err := r.db.NamedExecContext(ctx, query, args)
	return err
}

func (r *MemberRepository) UpdateStatus(ctx context.Context, memberID string, status lifecycle.Status) error {
	query, args, err := qb.Update("members").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", memberID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update member status query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update member status: %w", err)
	}

	return nil
}

func (r *MemberRepository) ListActivePlayersByNationalID(ctx context.Context, nationalID string) ([]member.Member, error) {
	query, args, err := qb.Select("*").From("members").
		Where(
			qb.Eq("national_id", nationalID),
			qb.Eq("role", string(member.RoleMember)),
			qb.Eq("status", string(lifecycle.StatusActive)),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select members by national id query: %w", err)
	}

	var rows []memberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select members by national id: %w", err)
	}

	out := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *MemberRepository) HasActiveLeader(ctx context.Context, teamID, excludeMemberID string) (bool, error) {
	query, args, err := qb.Select("COUNT(*)").From("members").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("role", string(member.RoleLeader)),
			qb.Eq("status", string(lifecycle.StatusActive)),
			qb.Ne("id", excludeMemberID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build count leaders query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("count active leaders: %w", err)
	}

	return count > 0, nil
}

func nullString(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullTime(v time.Time) any {
	if v.IsZero() {
		return nil
	}
	return v
}
