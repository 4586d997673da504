package postgres

import (
	"database/sql"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/team"
)

type teamTableModel struct {
	ID                 string         `db:"id"`
	ClientID           string         `db:"client_id"`
	Name               string         `db:"name"`
	LeagueOneID        string         `db:"league_one_id"`
	LeagueTwoID        sql.NullString `db:"league_two_id"`
	EducationLevel     string         `db:"education_level"`
	Status             string         `db:"status"`
	UnpaidMembersCount int            `db:"unpaid_members_count"`
	AverageAge         float64        `db:"average_age"`
	DistinctProvinces  int            `db:"distinct_provinces"`
	CreatedAt          time.Time      `db:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at"`
}

func (m teamTableModel) toDomain() team.Team {
	t := team.Team{
		ID:                 m.ID,
		ClientID:           m.ClientID,
		Name:               m.Name,
		LeagueOneID:        m.LeagueOneID,
		EducationLevel:     team.EducationLevel(m.EducationLevel),
		Status:             lifecycle.Status(m.Status),
		UnpaidMembersCount: m.UnpaidMembersCount,
		AverageAge:         m.AverageAge,
		DistinctProvinces:  m.DistinctProvinces,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if m.LeagueTwoID.Valid {
		v := m.LeagueTwoID.String
		t.LeagueTwoID = &v
	}
	return t
}
