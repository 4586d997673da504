package postgres

import (
	"database/sql"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/member"
)

type memberTableModel struct {
	ID         string         `db:"id"`
	TeamID     string         `db:"team_id"`
	FullName   string         `db:"full_name"`
	NationalID sql.NullString `db:"national_id"`
	Role       string         `db:"role"`
	Status     string         `db:"status"`
	BirthDate  sql.NullTime   `db:"birth_date"`
	CityID     sql.NullString `db:"city_id"`
	CreatedAt  time.Time      `db:"created_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func (m memberTableModel) toDomain() member.Member {
	return member.Member{
		ID:         m.ID,
		TeamID:     m.TeamID,
		FullName:   m.FullName,
		NationalID: m.NationalID.String,
		Role:       member.Role(m.Role),
		Status:     lifecycle.Status(m.Status),
		BirthDate:  m.BirthDate.Time,
		CityID:     m.CityID.String,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
