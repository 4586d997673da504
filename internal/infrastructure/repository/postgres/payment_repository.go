package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/payment"
	qb "github.com/kiacoder/AirocupWebsite-sub000/internal/platform/querybuilder"
)

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) GetByID(ctx context.Context, paymentID string) (payment.Payment, bool, error) {
	query, args, err := qb.Select("*").From("payments").
		Where(qb.Eq("id", paymentID)).
		ToSQL()
	if err != nil {
		return payment.Payment{}, false, fmt.Errorf("build select payment query: %w", err)
	}

	var row paymentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return payment.Payment{}, false, nil
		}
		return payment.Payment{}, false, fmt.Errorf("get payment: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p payment.Payment) error {
	const query = `
INSERT INTO payments (id, team_id, client_id, status, amount, members_paid_for, receipt_token, created_at)
VALUES (:id, :team_id, :client_id, :status, :amount, :members_paid_for, :receipt_token, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, map[string]any{
		"id":               p.ID,
		"team_id":          p.TeamID,
		"client_id":        p.ClientID,
		"status":           string(p.Status),
		"amount":           p.Amount,
		"members_paid_for": p.MembersPaidFor,
		"receipt_token":    p.ReceiptToken,
		"created_at":       p.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

func (r *PaymentRepository) ListByClient(ctx context.Context, clientID string) ([]payment.Payment, error) {
	return r.list(ctx, qb.Eq("client_id", clientID))
}

func (r *PaymentRepository) ListByTeam(ctx context.Context, teamID string) ([]payment.Payment, error) {
	return r.list(ctx, qb.Eq("team_id", teamID))
}

func (r *PaymentRepository) ListPending(ctx context.Context) ([]payment.Payment, error) {
	return r.list(ctx, qb.Eq("status", string(payment.StatusPending)))
}

func (r *PaymentRepository) list(ctx context.Context, cond qb.Condition) ([]payment.Payment, error) {
	query, args, err := qb.Select("*").From("payments").
		Where(cond).
		OrderBy("created_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select payments query: %w", err)
	}

	var rows []paymentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select payments: %w", err)
	}

	out := make([]payment.Payment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *PaymentRepository) HasApproved(ctx context.Context, teamID string) (bool, error) {
	query, args, err := qb.Select("COUNT(*)").From("payments").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("status", string(payment.StatusApproved)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build count approved payments query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("count approved payments: %w", err)
	}

	return count > 0, nil
}

// ApplyDecision flips the payment and applies the side effects in one
// transaction. The conditional status update is the race guard: a
// payment that is no longer pending matches zero rows and the whole
// decision aborts with ErrAlreadyProcessed.
func (r *PaymentRepository) ApplyDecision(ctx context.Context, d payment.Decision) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for payment decision: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	status := payment.StatusRejected
	if d.Approve {
		status = payment.StatusApproved
	}

	const flipQuery = `
UPDATE payments SET status = $1, reviewed_at = $2
WHERE id = $3 AND status = $4`
	result, err := tx.ExecContext(ctx, flipQuery,
		string(status), d.Entry.At, d.PaymentID, string(payment.StatusPending))
	if err != nil {
		return fmt.Errorf("flip payment status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	if affected == 0 {
		return payment.ErrAlreadyProcessed
	}

	if d.Approve {
		const reactivateQuery = `
UPDATE members SET status = $1, updated_at = NOW()
WHERE team_id = $2 AND status = $3`
		if _, err := tx.ExecContext(ctx, reactivateQuery,
			string(lifecycle.StatusActive), d.TeamID, string(lifecycle.StatusInactive)); err != nil {
			return fmt.Errorf("reactivate members: %w", err)
		}

		if d.UnpaidDecrement > 0 {
			const counterQuery = `
UPDATE teams SET unpaid_members_count = GREATEST(unpaid_members_count - $1, 0), updated_at = NOW()
WHERE id = $2`
			if _, err := tx.ExecContext(ctx, counterQuery, d.UnpaidDecrement, d.TeamID); err != nil {
				return fmt.Errorf("decrement unpaid counter: %w", err)
			}
		}
	}

	const auditQuery = `
INSERT INTO audit_log (id, client_id, team_id, action, detail, at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, auditQuery,
		d.Entry.ID, d.Entry.ClientID, d.Entry.TeamID, d.Entry.Action, d.Entry.Detail, d.Entry.At); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit payment decision: %w", err)
	}

	return nil
}
