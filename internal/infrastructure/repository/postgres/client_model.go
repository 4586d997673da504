package postgres

import (
	"database/sql"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/client"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
)

type clientTableModel struct {
	ID            string         `db:"id"`
	FullName      string         `db:"full_name"`
	Phone         string         `db:"phone"`
	Email         sql.NullString `db:"email"`
	Status        string         `db:"status"`
	VerifyCode    sql.NullString `db:"verify_code"`
	VerifySentAt  sql.NullTime   `db:"verify_sent_at"`
	PhoneVerified bool           `db:"phone_verified"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (m clientTableModel) toDomain() client.Client {
	return client.Client{
		ID:            m.ID,
		FullName:      m.FullName,
		Phone:         m.Phone,
		Email:         m.Email.String,
		Status:        lifecycle.Status(m.Status),
		VerifyCode:    m.VerifyCode.String,
		VerifySentAt:  m.VerifySentAt.Time,
		PhoneVerified: m.PhoneVerified,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
