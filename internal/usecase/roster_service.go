package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/client"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/eligibility"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/geo"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/league"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/member"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/team"
	idgen "github.com/kiacoder/AirocupWebsite-sub000/internal/platform/id"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/profanity"
)

// CreateTeamInput is the incoming payload for team creation.
type CreateTeamInput struct {
	ClientID       string
	Name           string
	LeagueOneID    string
	LeagueTwoID    string
	EducationLevel string
}

// SelectLeaguesInput changes a team's league slots after creation.
type SelectLeaguesInput struct {
	ClientID    string
	TeamID      string
	LeagueOneID string
	LeagueTwoID string
}

// UpsertMemberInput carries member fields for add and update. A zero
// BirthDate is stored as-is; the completion audit reports it later.
type UpsertMemberInput struct {
	ClientID   string
	TeamID     string
	MemberID   string
	FullName   string
	NationalID string
	Role       string
	BirthDate  time.Time
	CityID     string
}

// LeagueConflict names the roster exclusivity violation found for a
// national ID: the other team and the leagues shared with it.
type LeagueConflict struct {
	NationalID    string
	OtherTeamID   string
	OtherTeamName string
	SharedLeagues []string
}

func (c LeagueConflict) Error() string {
	return fmt.Sprintf("national id %s already plays for team %q in %s",
		c.NationalID, c.OtherTeamName, strings.Join(c.SharedLeagues, ", "))
}

// RosterService owns team and member lifecycle: creation, league
// selection, roster mutation and the exclusivity checks around them.
type RosterService struct {
	clientRepo client.Repository
	teamRepo   team.Repository
	memberRepo member.Repository
	leagueRepo league.Repository
	geoRepo    geo.Repository

	eligibility *eligibility.Validator
	filter      *profanity.Filter
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time

	maxTeamsPerClient int
	maxMembersPerTeam int
}

func NewRosterService(
	clientRepo client.Repository,
	teamRepo team.Repository,
	memberRepo member.Repository,
	leagueRepo league.Repository,
	geoRepo geo.Repository,
	validator *eligibility.Validator,
	filter *profanity.Filter,
	idGen idgen.Generator,
	logger *logging.Logger,
	maxTeamsPerClient int,
	maxMembersPerTeam int,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		clientRepo:        clientRepo,
		teamRepo:          teamRepo,
		memberRepo:        memberRepo,
		leagueRepo:        leagueRepo,
		geoRepo:           geoRepo,
		eligibility:       validator,
		filter:            filter,
		idGen:             idGen,
		logger:            logger,
		now:               time.Now,
		maxTeamsPerClient: maxTeamsPerClient,
		maxMembersPerTeam: maxMembersPerTeam,
	}
}

func (s *RosterService) CreateTeam(ctx context.Context, input CreateTeamInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.CreateTeam")
	defer span.End()

	input.ClientID = strings.TrimSpace(input.ClientID)
	input.Name = strings.TrimSpace(input.Name)
	input.LeagueOneID = strings.TrimSpace(input.LeagueOneID)
	input.LeagueTwoID = strings.TrimSpace(input.LeagueTwoID)

	if input.ClientID == "" {
		return team.Team{}, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if s.filter.Contains(input.Name) {
		return team.Team{}, fmt.Errorf("%w: team name contains a blocked word", ErrInvalidInput)
	}

	level := team.EducationLevel(strings.TrimSpace(input.EducationLevel))
	if _, ok := team.AllEducationLevels[level]; !ok {
		return team.Team{}, fmt.Errorf("%w: unknown education level %q", ErrInvalidInput, input.EducationLevel)
	}

	leagueOneID, leagueTwoID, err := s.resolveLeagues(ctx, input.LeagueOneID, input.LeagueTwoID)
	if err != nil {
		return team.Team{}, err
	}

	owner, found, err := s.clientRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get client: %w", err)
	}
	if !found {
		return team.Team{}, fmt.Errorf("%w: client %s", ErrNotFound, input.ClientID)
	}
	if owner.Status != lifecycle.StatusActive {
		return team.Team{}, fmt.Errorf("%w: client is %s", ErrInvalidState, owner.Status)
	}

	count, err := s.teamRepo.CountActiveByClient(ctx, input.ClientID)
	if err != nil {
		return team.Team{}, fmt.Errorf("count teams: %w", err)
	}
	if count >= s.maxTeamsPerClient {
		return team.Team{}, fmt.Errorf("%w: at most %d active teams per client", ErrConflict, s.maxTeamsPerClient)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	now := s.now().UTC()
	t := team.Team{
		ID:             id,
		ClientID:       input.ClientID,
		Name:           input.Name,
		LeagueOneID:    leagueOneID,
		LeagueTwoID:    leagueTwoID,
		EducationLevel: level,
		Status:         lifecycle.StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := t.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.teamRepo.Create(ctx, t); err != nil {
		if errors.Is(err, team.ErrNameTaken) {
			return team.Team{}, fmt.Errorf("%w: team name %q is taken", ErrConflict, input.Name)
		}
		return team.Team{}, fmt.Errorf("create team: %w", err)
	}

	s.logger.InfoContext(ctx, "team created", "team_id", t.ID, "client_id", t.ClientID)

	return t, nil
}

func (s *RosterService) SelectLeagues(ctx context.Context, input SelectLeaguesInput) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.SelectLeagues")
	defer span.End()

	t, err := s.ownedTeam(ctx, input.ClientID, input.TeamID)
	if err != nil {
		return team.Team{}, err
	}

	leagueOneID, leagueTwoID, err := s.resolveLeagues(ctx,
		strings.TrimSpace(input.LeagueOneID), strings.TrimSpace(input.LeagueTwoID))
	if err != nil {
		return team.Team{}, err
	}

	candidate := t
	candidate.LeagueOneID = leagueOneID
	candidate.LeagueTwoID = leagueTwoID

	members, err := s.memberRepo.ListByTeam(ctx, t.ID)
	if err != nil {
		return team.Team{}, fmt.Errorf("list members: %w", err)
	}
	for _, m := range members {
		if m.Status != lifecycle.StatusActive || m.Role.Staff() || m.NationalID == "" {
			continue
		}
		if conflict, err := s.findConflict(ctx, candidate, m.NationalID, m.ID); err != nil {
			return team.Team{}, err
		} else if conflict != nil {
			return team.Team{}, fmt.Errorf("%w: %v", ErrConflict, conflict)
		}
	}

	if err := s.teamRepo.UpdateLeagues(ctx, t.ID, leagueOneID, leagueTwoID); err != nil {
		return team.Team{}, fmt.Errorf("update leagues: %w", err)
	}

	return candidate, nil
}

func (s *RosterService) GetTeam(ctx context.Context, clientID, teamID string) (team.Team, []member.Member, error) {
	t, err := s.ownedTeam(ctx, clientID, teamID)
	if err != nil {
		return team.Team{}, nil, err
	}

	members, err := s.memberRepo.ListByTeam(ctx, t.ID)
	if err != nil {
		return team.Team{}, nil, fmt.Errorf("list members: %w", err)
	}

	return t, members, nil
}

func (s *RosterService) ListTeams(ctx context.Context, clientID string) ([]team.Team, error) {
	if strings.TrimSpace(clientID) == "" {
		return nil, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}

	teams, err := s.teamRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return teams, nil
}

func (s *RosterService) AddMember(ctx context.Context, input UpsertMemberInput) (member.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.AddMember")
	defer span.End()

	t, err := s.ownedTeam(ctx, input.ClientID, input.TeamID)
	if err != nil {
		return member.Member{}, err
	}

	m, err := s.buildMember(ctx, t, input, "")
	if err != nil {
		return member.Member{}, err
	}

	count, err := s.memberRepo.CountActive(ctx, t.ID)
	if err != nil {
		return member.Member{}, fmt.Errorf("count members: %w", err)
	}
	if count >= s.maxMembersPerTeam {
		return member.Member{}, fmt.Errorf("%w: at most %d active members per team", ErrConflict, s.maxMembersPerTeam)
	}

	if m.Role == member.RoleLeader {
		hasLeader, err := s.memberRepo.HasActiveLeader(ctx, t.ID, "")
		if err != nil {
			return member.Member{}, fmt.Errorf("check leader: %w", err)
		}
		if hasLeader {
			return member.Member{}, fmt.Errorf("%w: team already has an active leader", ErrConflict)
		}
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return member.Member{}, fmt.Errorf("generate member id: %w", err)
	}
	now := s.now().UTC()
	m.ID = id
	m.Status = lifecycle.StatusActive
	m.CreatedAt = now
	m.UpdatedAt = now

	if err := s.memberRepo.Create(ctx, m); err != nil {
		return member.Member{}, fmt.Errorf("create member: %w", err)
	}
	if err := s.teamRepo.AddUnpaid(ctx, t.ID, 1); err != nil {
		return member.Member{}, fmt.Errorf("bump unpaid counter: %w", err)
	}
	if err := s.recomputeAggregates(ctx, t.ID); err != nil {
		return member.Member{}, err
	}

	s.logger.InfoContext(ctx, "member added",
		"member_id", m.ID, "team_id", t.ID, "role", string(m.Role))

	return m, nil
}

func (s *RosterService) UpdateMember(ctx context.Context, input UpsertMemberInput) (member.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.UpdateMember")
	defer span.End()

	t, err := s.ownedTeam(ctx, input.ClientID, input.TeamID)
	if err != nil {
		return member.Member{}, err
	}

	existing, found, err := s.memberRepo.GetByID(ctx, strings.TrimSpace(input.MemberID))
	if err != nil {
		return member.Member{}, fmt.Errorf("get member: %w", err)
	}
	if !found || existing.TeamID != t.ID {
		return member.Member{}, fmt.Errorf("%w: member %s", ErrNotFound, input.MemberID)
	}
	if existing.Status == lifecycle.StatusWithdrawn {
		return member.Member{}, fmt.Errorf("%w: member is withdrawn", ErrInvalidState)
	}

	m, err := s.buildMember(ctx, t, input, existing.ID)
	if err != nil {
		return member.Member{}, err
	}

	if m.Role == member.RoleLeader && existing.Role != member.RoleLeader {
		hasLeader, err := s.memberRepo.HasActiveLeader(ctx, t.ID, existing.ID)
		if err != nil {
			return member.Member{}, fmt.Errorf("check leader: %w", err)
		}
		if hasLeader {
			return member.Member{}, fmt.Errorf("%w: team already has an active leader", ErrConflict)
		}
	}

	m.ID = existing.ID
	m.Status = existing.Status
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = s.now().UTC()

	if err := s.memberRepo.Update(ctx, m); err != nil {
		return member.Member{}, fmt.Errorf("update member: %w", err)
	}
	if err := s.recomputeAggregates(ctx, t.ID); err != nil {
		return member.Member{}, err
	}

	return m, nil
}

// WithdrawMember is the only removal path; records are never deleted.
// Withdrawing an active member also releases one unpaid slot.
func (s *RosterService) WithdrawMember(ctx context.Context, clientID, teamID, memberID string) error {
	ctx, span := startUsecaseSpan(ctx, "RosterService.WithdrawMember")
	defer span.End()

	t, err := s.ownedTeam(ctx, clientID, teamID)
	if err != nil {
		return err
	}

	m, found, err := s.memberRepo.GetByID(ctx, strings.TrimSpace(memberID))
	if err != nil {
		return fmt.Errorf("get member: %w", err)
	}
	if !found || m.TeamID != t.ID {
		return fmt.Errorf("%w: member %s", ErrNotFound, memberID)
	}
	if !lifecycle.CanTransition(m.Status, lifecycle.StatusWithdrawn) {
		return fmt.Errorf("%w: member is %s", ErrInvalidState, m.Status)
	}

	wasActive := m.Status == lifecycle.StatusActive

	if err := s.memberRepo.UpdateStatus(ctx, m.ID, lifecycle.StatusWithdrawn); err != nil {
		return fmt.Errorf("withdraw member: %w", err)
	}
	if wasActive {
		if err := s.teamRepo.AddUnpaid(ctx, t.ID, -1); err != nil {
			return fmt.Errorf("release unpaid slot: %w", err)
		}
	}
	if err := s.recomputeAggregates(ctx, t.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "member withdrawn", "member_id", m.ID, "team_id", t.ID)

	return nil
}

// WithdrawTeam flips the team and its non-withdrawn members to withdrawn.
func (s *RosterService) WithdrawTeam(ctx context.Context, clientID, teamID string) error {
	ctx, span := startUsecaseSpan(ctx, "RosterService.WithdrawTeam")
	defer span.End()

	t, err := s.ownedTeam(ctx, clientID, teamID)
	if err != nil {
		return err
	}
	if !lifecycle.CanTransition(t.Status, lifecycle.StatusWithdrawn) {
		return fmt.Errorf("%w: team is %s", ErrInvalidState, t.Status)
	}

	members, err := s.memberRepo.ListByTeam(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	for _, m := range members {
		if m.Status == lifecycle.StatusWithdrawn {
			continue
		}
		if err := s.memberRepo.UpdateStatus(ctx, m.ID, lifecycle.StatusWithdrawn); err != nil {
			return fmt.Errorf("withdraw member %s: %w", m.ID, err)
		}
	}

	if err := s.teamRepo.UpdateStatus(ctx, t.ID, lifecycle.StatusWithdrawn); err != nil {
		return fmt.Errorf("withdraw team: %w", err)
	}

	return nil
}

func (s *RosterService) ownedTeam(ctx context.Context, clientID, teamID string) (team.Team, error) {
	clientID = strings.TrimSpace(clientID)
	teamID = strings.TrimSpace(teamID)
	if clientID == "" {
		return team.Team{}, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	t, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team: %w", err)
	}
	if !found {
		return team.Team{}, fmt.Errorf("%w: team %s", ErrNotFound, teamID)
	}
	if t.ClientID != clientID {
		return team.Team{}, fmt.Errorf("%w: team %s", ErrForbidden, teamID)
	}
	if t.Status == lifecycle.StatusWithdrawn {
		return team.Team{}, fmt.Errorf("%w: team is withdrawn", ErrInvalidState)
	}

	return t, nil
}

func (s *RosterService) resolveLeagues(ctx context.Context, oneID, twoID string) (string, *string, error) {
	if oneID == "" {
		return "", nil, fmt.Errorf("%w: a primary league is required", ErrInvalidInput)
	}
	if twoID == oneID {
		return "", nil, fmt.Errorf("%w: second league must differ from the first", ErrInvalidInput)
	}

	if _, found, err := s.leagueRepo.GetByID(ctx, oneID); err != nil {
		return "", nil, fmt.Errorf("get league: %w", err)
	} else if !found {
		return "", nil, fmt.Errorf("%w: league %s", ErrNotFound, oneID)
	}

	if twoID == "" {
		return oneID, nil, nil
	}
	if _, found, err := s.leagueRepo.GetByID(ctx, twoID); err != nil {
		return "", nil, fmt.Errorf("get league: %w", err)
	} else if !found {
		return "", nil, fmt.Errorf("%w: league %s", ErrNotFound, twoID)
	}

	return oneID, &twoID, nil
}

// buildMember validates the payload against eligibility rules and, for
// the plain member role, roster exclusivity across teams.
func (s *RosterService) buildMember(ctx context.Context, t team.Team, input UpsertMemberInput, selfID string) (member.Member, error) {
	fullName := strings.TrimSpace(input.FullName)
	nationalID := strings.TrimSpace(input.NationalID)
	cityID := strings.TrimSpace(input.CityID)
	role := member.Role(strings.TrimSpace(input.Role))

	if _, ok := member.AllRoles[role]; !ok {
		return member.Member{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, input.Role)
	}
	if err := eligibility.ValidateFullName(fullName); err != nil {
		return member.Member{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := eligibility.ValidateNationalID(nationalID); err != nil {
		return member.Member{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	// A zero birth date passes through; the completion audit reports
	// it and the resolution flow collects it later.
	if !input.BirthDate.IsZero() {
		if err := s.eligibility.ValidateMember(role, input.BirthDate, t.EducationLevel, s.now().UTC()); err != nil {
			return member.Member{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	if cityID != "" {
		if _, found, err := s.geoRepo.GetCity(ctx, cityID); err != nil {
			return member.Member{}, fmt.Errorf("get city: %w", err)
		} else if !found {
			return member.Member{}, fmt.Errorf("%w: city %s", ErrNotFound, cityID)
		}
	}

	if !role.Staff() {
		if conflict, err := s.findConflict(ctx, t, nationalID, selfID); err != nil {
			return member.Member{}, err
		} else if conflict != nil {
			return member.Member{}, fmt.Errorf("%w: %v", ErrConflict, conflict)
		}
	}

	return member.Member{
		TeamID:     t.ID,
		FullName:   fullName,
		NationalID: nationalID,
		Role:       role,
		BirthDate:  input.BirthDate,
		CityID:     cityID,
	}, nil
}

// findConflict looks for another active team sharing a league with t
// that fields an active plain-role member holding the same national ID.
// Leaders and coaches never conflict.
func (s *RosterService) findConflict(ctx context.Context, t team.Team, nationalID, selfID string) (*LeagueConflict, error) {
	leagueIDs := t.LeagueIDs()
	if len(leagueIDs) == 0 || nationalID == "" {
		return nil, nil
	}

	holders, err := s.memberRepo.ListActivePlayersByNationalID(ctx, nationalID)
	if err != nil {
		return nil, fmt.Errorf("list members by national id: %w", err)
	}

	mine := make(map[string]struct{}, len(leagueIDs))
	for _, id := range leagueIDs {
		mine[id] = struct{}{}
	}

	for _, h := range holders {
		if h.ID == selfID || h.TeamID == t.ID {
			continue
		}

		other, found, err := s.teamRepo.GetByID(ctx, h.TeamID)
		if err != nil {
			return nil, fmt.Errorf("get team: %w", err)
		}
		if !found || other.Status != lifecycle.StatusActive {
			continue
		}

		var shared []string
		for _, id := range other.LeagueIDs() {
			if _, ok := mine[id]; ok {
				shared = append(shared, s.leagueName(ctx, id))
			}
		}
		if len(shared) > 0 {
			sort.Strings(shared)
			return &LeagueConflict{
				NationalID:    nationalID,
				OtherTeamID:   other.ID,
				OtherTeamName: other.Name,
				SharedLeagues: shared,
			}, nil
		}
	}

	return nil, nil
}

func (s *RosterService) leagueName(ctx context.Context, leagueID string) string {
	l, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil || !found {
		return leagueID
	}

	return l.Name
}

// recomputeAggregates refreshes the team's derived average age and
// distinct province count from its active roster.
func (s *RosterService) recomputeAggregates(ctx context.Context, teamID string) error {
	members, err := s.memberRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}

	ref := s.now().UTC()
	var ageSum, aged int
	provinces := make(map[string]struct{})
	for _, m := range members {
		if m.Status != lifecycle.StatusActive {
			continue
		}
		if !m.BirthDate.IsZero() {
			ageSum += eligibility.AgeAt(m.BirthDate, ref)
			aged++
		}
		if m.CityID != "" {
			if city, found, err := s.geoRepo.GetCity(ctx, m.CityID); err == nil && found {
				provinces[city.ProvinceID] = struct{}{}
			}
		}
	}

	var avg float64
	if aged > 0 {
		avg = float64(ageSum) / float64(aged)
	}

	if err := s.teamRepo.UpdateAggregates(ctx, teamID, avg, len(provinces)); err != nil {
		return fmt.Errorf("update aggregates: %w", err)
	}

	return nil
}
