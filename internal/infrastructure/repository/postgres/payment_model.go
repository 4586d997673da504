package postgres

import (
	"database/sql"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/payment"
)

type paymentTableModel struct {
	ID             string       `db:"id"`
	TeamID         string       `db:"team_id"`
	ClientID       string       `db:"client_id"`
	Status         string       `db:"status"`
	Amount         int64        `db:"amount"`
	MembersPaidFor int          `db:"members_paid_for"`
	ReceiptToken   string       `db:"receipt_token"`
	CreatedAt      time.Time    `db:"created_at"`
	ReviewedAt     sql.NullTime `db:"reviewed_at"`
}

func (m paymentTableModel) toDomain() payment.Payment {
	p := payment.Payment{
		ID:             m.ID,
		TeamID:         m.TeamID,
		ClientID:       m.ClientID,
		Status:         payment.Status(m.Status),
		Amount:         m.Amount,
		MembersPaidFor: m.MembersPaidFor,
		ReceiptToken:   m.ReceiptToken,
		CreatedAt:      m.CreatedAt,
	}
	if m.ReviewedAt.Valid {
		v := m.ReviewedAt.Time
		p.ReviewedAt = &v
	}
	return p
}
