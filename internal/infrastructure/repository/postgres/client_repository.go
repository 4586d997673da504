package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/client"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	qb "github.com/kiacoder/AirocupWebsite-sub000/internal/platform/querybuilder"
)

type ClientRepository struct {
	db *sqlx.DB
}

func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) GetByID(ctx context.Context, clientID string) (client.Client, bool, error) {
	query, args, err := qb.Select("*").From("clients").
		Where(qb.Eq("id", clientID)).
		ToSQL()
	if err != nil {
		return client.Client{}, false, fmt.Errorf("build select client query: %w", err)
	}

	var row clientTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return client.Client{}, false, nil
		}
		return client.Client{}, false, fmt.Errorf("get client: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ClientRepository) Create(ctx context.Context, c client.Client) error {
	const query = `
INSERT INTO clients (id, full_name, phone, email, status, phone_verified, created_at, updated_at)
VALUES (:id, :full_name, :phone, NULLIF(:email, ''), :status, :phone_verified, :created_at, :updated_at)`

	_, err := r.db.NamedExecContext(ctx, query, map[string]any{
		"id":             c.ID,
		"full_name":      c.FullName,
		"phone":          c.Phone,
		"email":          c.Email,
		"status":         string(c.Status),
		"phone_verified": c.PhoneVerified,
		"created_at":     c.CreatedAt,
		"updated_at":     c.UpdatedAt,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return client.ErrDuplicateContact
		}
		return fmt.Errorf("insert client: %w", err)
	}

	return nil
}

func (r *ClientRepository) UpdateStatus(ctx context.Context, clientID string, status lifecycle.Status) error {
	query, args, err := qb.Update("clients").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", clientID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update client status query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update client status: %w", err)
	}

	return nil
}

func (r *ClientRepository) SetVerification(ctx context.Context, clientID, code string, sentAt time.Time) error {
	query, args, err := qb.Update("clients").
		Set("verify_code", code).
		Set("verify_sent_at", sentAt).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", clientID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set verification query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set verification: %w", err)
	}

	return nil
}

func (r *ClientRepository) ConfirmVerification(ctx context.Context, clientID string) error {
	query, args, err := qb.Update("clients").
		SetExpr("verify_code", "NULL").
		Set("phone_verified", true).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", clientID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build confirm verification query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("confirm verification: %w", err)
	}

	return nil
}

func (r *ClientRepository) DeactivateCascade(ctx context.Context, clientID string) error {
	return r.cascade(ctx, clientID, lifecycle.StatusActive, lifecycle.StatusInactive)
}

func (r *ClientRepository) ActivateCascade(ctx context.Context, clientID string) error {
	return r.cascade(ctx, clientID, lifecycle.StatusInactive, lifecycle.StatusActive)
}

// cascade flips the client, its teams and their members from one status
// to the other inside a single transaction. Withdrawn records are never
// touched.
func (r *ClientRepository) cascade(ctx context.Context, clientID string, from, to lifecycle.Status) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for client cascade: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const clientQuery = `
UPDATE clients SET status = $1, updated_at = NOW()
WHERE id = $2 AND status = $3`
	if _, err := tx.ExecContext(ctx, clientQuery, string(to), clientID, string(from)); err != nil {
		return fmt.Errorf("cascade client status: %w", err)
	}

	const memberQuery = `
UPDATE members SET status = $1, updated_at = NOW()
WHERE status = $2
  AND team_id IN (SELECT id FROM teams WHERE client_id = $3)`
	if _, err := tx.ExecContext(ctx, memberQuery, string(to), string(from), clientID); err != nil {
		return fmt.Errorf("cascade member status: %w", err)
	}

	const teamQuery = `
UPDATE teams SET status = $1, updated_at = NOW()
WHERE client_id = $2 AND status = $3`
	if _, err := tx.ExecContext(ctx, teamQuery, string(to), clientID, string(from)); err != nil {
		return fmt.Errorf("cascade team status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit client cascade: %w", err)
	}

	return nil
}
