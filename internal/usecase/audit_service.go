package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/eligibility"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/member"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/team"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
)

// Finding is one defect found on a client's data during a completion
// audit. MemberID is empty for team-level findings.
type Finding struct {
	TeamID   string
	TeamName string
	MemberID string
	Field    string
	Problem  string
}

// AuditReport is the full result of auditing one client. An empty
// Findings slice means the account is complete.
type AuditReport struct {
	ClientID string
	Findings []Finding
}

func (r AuditReport) Complete() bool {
	return len(r.Findings) == 0
}

// AuditService walks every non-withdrawn team of a client and reports
// missing or invalid data. Teams are audited concurrently; the report
// is sorted so output is deterministic regardless of completion order.
type AuditService struct {
	teamRepo   team.Repository
	memberRepo member.Repository

	eligibility *eligibility.Validator
	logger      *logging.Logger
	now         func() time.Time

	maxConcurrent int
}

func NewAuditService(
	teamRepo team.Repository,
	memberRepo member.Repository,
	validator *eligibility.Validator,
	logger *logging.Logger,
) *AuditService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AuditService{
		teamRepo:      teamRepo,
		memberRepo:    memberRepo,
		eligibility:   validator,
		logger:        logger,
		now:           time.Now,
		maxConcurrent: 4,
	}
}

func (s *AuditService) AuditClient(ctx context.Context, clientID string) (AuditReport, error) {
	ctx, span := startUsecaseSpan(ctx, "AuditService.AuditClient")
	defer span.End()

	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return AuditReport{}, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}

	teams, err := s.teamRepo.ListByClient(ctx, clientID)
	if err != nil {
		return AuditReport{}, fmt.Errorf("list teams: %w", err)
	}

	ref := s.now().UTC()
	p := pool.NewWithResults[[]Finding]().
		WithContext(ctx).
		WithMaxGoroutines(s.maxConcurrent)

	for _, t := range teams {
		if t.Status == lifecycle.StatusWithdrawn {
			continue
		}
		p.Go(func(ctx context.Context) ([]Finding, error) {
			return s.auditTeam(ctx, t, ref)
		})
	}

	perTeam, err := p.Wait()
	if err != nil {
		return AuditReport{}, fmt.Errorf("audit teams: %w", err)
	}

	report := AuditReport{ClientID: clientID}
	for _, findings := range perTeam {
		report.Findings = append(report.Findings, findings...)
	}
	sort.Slice(report.Findings, func(i, j int) bool {
		a, b := report.Findings[i], report.Findings[j]
		if a.TeamName != b.TeamName {
			return a.TeamName < b.TeamName
		}
		if a.MemberID != b.MemberID {
			return a.MemberID < b.MemberID
		}
		return a.Field < b.Field
	})

	s.logger.InfoContext(ctx, "client audited",
		"client_id", clientID, "findings", len(report.Findings))

	return report, nil
}

func (s *AuditService) auditTeam(ctx context.Context, t team.Team, ref time.Time) ([]Finding, error) {
	var findings []Finding
	add := func(memberID, field, problem string) {
		findings = append(findings, Finding{
			TeamID:   t.ID,
			TeamName: t.Name,
			MemberID: memberID,
			Field:    field,
			Problem:  problem,
		})
	}

	if t.LeagueOneID == "" {
		add("", "league", "no league chosen")
	}
	if _, ok := team.AllEducationLevels[t.EducationLevel]; !ok {
		add("", "education_level", "education level not set")
	}

	members, err := s.memberRepo.ListByTeam(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list members of team %s: %w", t.ID, err)
	}

	// Inactive members still count: accounts under resolution were
	// deactivated in cascade and must be able to audit clean.
	var rosterCount int
	var hasLeader bool
	for _, m := range members {
		if m.Status == lifecycle.StatusWithdrawn {
			continue
		}
		rosterCount++
		if m.Role == member.RoleLeader {
			hasLeader = true
		}
		findings = append(findings, s.auditMember(t, m, ref)...)
	}

	if rosterCount == 0 {
		add("", "roster", "team has no members")
	} else if !hasLeader {
		add("", "leader", "team has no leader")
	}

	return findings, nil
}

func (s *AuditService) auditMember(t team.Team, m member.Member, ref time.Time) []Finding {
	var findings []Finding
	add := func(field, problem string) {
		findings = append(findings, Finding{
			TeamID:   t.ID,
			TeamName: t.Name,
			MemberID: m.ID,
			Field:    field,
			Problem:  problem,
		})
	}

	if err := eligibility.ValidateFullName(m.FullName); err != nil {
		add("full_name", err.Error())
	}
	if m.NationalID == "" {
		add("national_id", "national ID is missing")
	} else if err := eligibility.ValidateNationalID(m.NationalID); err != nil {
		add("national_id", err.Error())
	}
	if m.CityID == "" {
		add("city", "city is missing")
	}

	if m.BirthDate.IsZero() {
		add("birth_date", "birth date is missing")
	} else if err := s.eligibility.ValidateMember(m.Role, m.BirthDate, t.EducationLevel, ref); err != nil {
		add("birth_date", err.Error())
	}

	return findings
}
