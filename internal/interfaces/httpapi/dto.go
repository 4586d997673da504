package httpapi

import (
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/auditlog"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/billing"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/client"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/geo"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/league"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/member"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/payment"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/team"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/usecase"
)

const dateLayout = "2006-01-02"

type clientDTO struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email,omitempty"`
	Status        string    `json:"status"`
	PhoneVerified bool      `json:"phone_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func clientToDTO(c client.Client) clientDTO {
	return clientDTO{
		ID:            c.ID,
		FullName:      c.FullName,
		Phone:         c.Phone,
		Email:         c.Email,
		Status:        string(c.Status),
		PhoneVerified: c.PhoneVerified,
		CreatedAt:     c.CreatedAt,
	}
}

type teamDTO struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	LeagueOneID        string    `json:"league_one_id"`
	LeagueTwoID        *string   `json:"league_two_id,omitempty"`
	EducationLevel     string    `json:"education_level"`
	Status             string    `json:"status"`
	UnpaidMembersCount int       `json:"unpaid_members_count"`
	AverageAge         float64   `json:"average_age"`
	DistinctProvinces  int       `json:"distinct_provinces"`
	CreatedAt          time.Time `json:"created_at"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:                 t.ID,
		Name:               t.Name,
		LeagueOneID:        t.LeagueOneID,
		LeagueTwoID:        t.LeagueTwoID,
		EducationLevel:     string(t.EducationLevel),
		Status:             string(t.Status),
		UnpaidMembersCount: t.UnpaidMembersCount,
		AverageAge:         t.AverageAge,
		DistinctProvinces:  t.DistinctProvinces,
		CreatedAt:          t.CreatedAt,
	}
}

type memberDTO struct {
	ID         string `json:"id"`
	TeamID     string `json:"team_id"`
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id,omitempty"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	BirthDate  string `json:"birth_date,omitempty"`
	CityID     string `json:"city_id,omitempty"`
}

func memberToDTO(m member.Member) memberDTO {
	dto := memberDTO{
		ID:         m.ID,
		TeamID:     m.TeamID,
		FullName:   m.FullName,
		NationalID: m.NationalID,
		Role:       string(m.Role),
		Status:     string(m.Status),
		CityID:     m.CityID,
	}
	if !m.BirthDate.IsZero() {
		dto.BirthDate = m.BirthDate.Format(dateLayout)
	}
	return dto
}

type quoteLineDTO struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type quoteDTO struct {
	Total       int64          `json:"total"`
	MemberCount int            `json:"member_count"`
	Incremental bool           `json:"incremental"`
	Lines       []quoteLineDTO `json:"lines"`
}

func quoteToDTO(q billing.Quote) quoteDTO {
	lines := make([]quoteLineDTO, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, quoteLineDTO{Label: l.Label, Amount: l.Amount})
	}
	return quoteDTO{
		Total:       q.Total,
		MemberCount: q.MemberCount,
		Incremental: q.Incremental,
		Lines:       lines,
	}
}

type paymentDTO struct {
	ID             string     `json:"id"`
	TeamID         string     `json:"team_id"`
	ClientID       string     `json:"client_id"`
	Status         string     `json:"status"`
	Amount         int64      `json:"amount"`
	MembersPaidFor int        `json:"members_paid_for"`
	CreatedAt      time.Time  `json:"created_at"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
}

func paymentToDTO(p payment.Payment) paymentDTO {
	return paymentDTO{
		ID:             p.ID,
		TeamID:         p.TeamID,
		ClientID:       p.ClientID,
		Status:         string(p.Status),
		Amount:         p.Amount,
		MembersPaidFor: p.MembersPaidFor,
		CreatedAt:      p.CreatedAt,
		ReviewedAt:     p.ReviewedAt,
	}
}

type findingDTO struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	MemberID string `json:"member_id,omitempty"`
	Field    string `json:"field"`
	Problem  string `json:"problem"`
}

type auditReportDTO struct {
	ClientID string       `json:"client_id"`
	Complete bool         `json:"complete"`
	Findings []findingDTO `json:"findings"`
}

func auditReportToDTO(r usecase.AuditReport) auditReportDTO {
	findings := make([]findingDTO, 0, len(r.Findings))
	for _, f := range r.Findings {
		findings = append(findings, findingDTO{
			TeamID:   f.TeamID,
			TeamName: f.TeamName,
			MemberID: f.MemberID,
			Field:    f.Field,
			Problem:  f.Problem,
		})
	}
	return auditReportDTO{
		ClientID: r.ClientID,
		Complete: r.Complete(),
		Findings: findings,
	}
}

type sessionDTO struct {
	Token      string          `json:"token"`
	Restricted bool            `json:"restricted"`
	Report     *auditReportDTO `json:"report,omitempty"`
}

func loginResultToDTO(res usecase.LoginResult) sessionDTO {
	dto := sessionDTO{
		Token:      res.Token,
		Restricted: res.Restricted,
	}
	if res.Restricted {
		report := auditReportToDTO(res.Report)
		dto.Report = &report
	}
	return dto
}

type leagueDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func leagueToDTO(l league.League) leagueDTO {
	return leagueDTO{ID: l.ID, Name: l.Name}
}

type provinceDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type cityDTO struct {
	ID         string `json:"id"`
	ProvinceID string `json:"province_id"`
	Name       string `json:"name"`
}

func provinceToDTO(p geo.Province) provinceDTO {
	return provinceDTO{ID: p.ID, Name: p.Name}
}

func cityToDTO(c geo.City) cityDTO {
	return cityDTO{ID: c.ID, ProvinceID: c.ProvinceID, Name: c.Name}
}

type auditEntryDTO struct {
	ID       string    `json:"id"`
	ClientID string    `json:"client_id"`
	TeamID   string    `json:"team_id,omitempty"`
	Action   string    `json:"action"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

func auditEntryToDTO(e auditlog.Entry) auditEntryDTO {
	return auditEntryDTO{
		ID:       e.ID,
		ClientID: e.ClientID,
		TeamID:   e.TeamID,
		Action:   e.Action,
		Detail:   e.Detail,
		At:       e.At,
	}
}
