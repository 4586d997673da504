package usecase

import (
	"errors"
	"strings"
	"testing"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/infrastructure/repository/memory"
)

func TestRosterService_CreateTeam(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID := f.mustRegisterClient(ctx, "09120000001")

	created, err := f.roster.CreateTeam(ctx, CreateTeamInput{
		ClientID:       clientID,
		Name:           "Persian Gears",
		LeagueOneID:    memory.LeagueIDSoccerSim,
		EducationLevel: "senior_high",
	})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if created.LeagueOneID != memory.LeagueIDSoccerSim {
		t.Errorf("LeagueOneID = %q", created.LeagueOneID)
	}
	if created.LeagueTwoID != nil {
		t.Errorf("LeagueTwoID = %v, want nil", *created.LeagueTwoID)
	}
	if created.UnpaidMembersCount != 0 {
		t.Errorf("UnpaidMembersCount = %d, want 0", created.UnpaidMembersCount)
	}
}

func TestRosterService_CreateTeamRejections(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID := f.mustRegisterClient(ctx, "09120000001")
	f.mustCreateTeam(ctx, clientID, "Persian Gears", memory.LeagueIDSoccerSim, "")

	cases := []struct {
		name    string
		input   CreateTeamInput
		wantErr error
	}{
		{
			name: "duplicate name",
			input: CreateTeamInput{
				ClientID: clientID, Name: "persian gears",
				LeagueOneID: memory.LeagueIDRescue, EducationLevel: "senior_high",
			},
			wantErr: ErrConflict,
		},
		{
			name: "blocked word",
			input: CreateTeamInput{
				ClientID: clientID, Name: "The Badword Crew",
				LeagueOneID: memory.LeagueIDRescue, EducationLevel: "senior_high",
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "missing league",
			input: CreateTeamInput{
				ClientID: clientID, Name: "No League",
				EducationLevel: "senior_high",
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "same league twice",
			input: CreateTeamInput{
				ClientID: clientID, Name: "Twins",
				LeagueOneID: memory.LeagueIDRescue, LeagueTwoID: memory.LeagueIDRescue,
				EducationLevel: "senior_high",
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown education level",
			input: CreateTeamInput{
				ClientID: clientID, Name: "Unknown Level",
				LeagueOneID: memory.LeagueIDRescue, EducationLevel: "kindergarten",
			},
			wantErr: ErrInvalidInput,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.roster.CreateTeam(ctx, tc.input); !errors.Is(err, tc.wantErr) {
				t.Errorf("CreateTeam err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestRosterService_TeamLimitPerClient(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID := f.mustRegisterClient(ctx, "09120000001")

	f.mustCreateTeam(ctx, clientID, "Team One", memory.LeagueIDSoccerSim, "")
	f.mustCreateTeam(ctx, clientID, "Team Two", memory.LeagueIDRescue, "")
	f.mustCreateTeam(ctx, clientID, "Team Three", memory.LeagueIDDrone, "")

	_, err := f.roster.CreateTeam(ctx, CreateTeamInput{
		ClientID:       clientID,
		Name:           "Team Four",
		LeagueOneID:    memory.LeagueIDMaze,
		EducationLevel: "senior_high",
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("fourth team err = %v, want %v", err, ErrConflict)
	}
}

func TestRosterService_AddMemberBumpsUnpaidCounter(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID := f.mustRegisterClient(ctx, "09120000001")
	teamID := f.mustCreateTeam(ctx, clientID, "Persian Gears", memory.LeagueIDSoccerSim, "")

	f.mustAddMember(ctx, clientID, teamID, "Ali Rahimi", nidAli, "member", 16)
	f.mustAddMember(ctx, clientID, teamID, "Sara Karimi", nidSara, "member", 17)

	stored, _, _ := f.teams.GetByID(ctx, teamID)
	if stored.UnpaidMembersCount != 2 {
		t.Fatalf("UnpaidMembersCount = %d, want 2", stored.UnpaidMembersCount)
	}
	if stored.AverageAge < 16 || stored.AverageAge > 17 {
		t.Errorf("AverageAge = %v, want within [16, 17]", stored.AverageAge)
	}
	if stored.DistinctProvinces != 1 {
		t.Errorf("DistinctProvinces = %d, want 1", stored.DistinctProvinces)
	}
}

func TestRosterService_AddMemberRejections(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID := f.mustRegisterClient(ctx, "09120000001")
	teamID := f.mustCreateTeam(ctx, clientID, "Persian Gears", memory.LeagueIDSoccerSim, "")
	f.mustAddMember(ctx, clientID, teamID, "Omid Naderi", nidOmid, "leader", 30)

	cases := []struct {
		name    string
		input   UpsertMemberInput
		wantErr error
	}{
		{
			name: "second leader",
			input: UpsertMemberInput{
				ClientID: clientID, TeamID: teamID,
				FullName: "Mina Taheri", NationalID: nidMina,
				Role: "leader", BirthDate: birthDateForAge(25),
			},
			wantErr: ErrConflict,
		},
		{
			name: "bad national id",
			input: UpsertMemberInput{
				ClientID: clientID, TeamID: teamID,
				FullName: "Reza Moradi", NationalID: "0013542410",
				Role: "member", BirthDate: birthDateForAge(16),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "single word name",
			input: UpsertMemberInput{
				ClientID: clientID, TeamID: teamID,
				FullName: "Reza", NationalID: nidReza,
				Role: "member", BirthDate: birthDateForAge(16),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "age outside education band",
			input: UpsertMemberInput{
				ClientID: clientID, TeamID: teamID,
				FullName: "Reza Moradi", NationalID: nidReza,
				Role: "member", BirthDate: birthDateForAge(25),
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown city",
			input: UpsertMemberInput{
				ClientID: clientID, TeamID: teamID,
				FullName: "Reza Moradi", NationalID: nidReza,
				Role: "member", BirthDate: birthDateForAge(16), CityID: "nowhere",
			},
			wantErr: ErrNotFound,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.roster.AddMember(ctx, tc.input); !errors.Is(err, tc.wantErr) {
				t.Errorf("AddMember err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestRosterService_MissingBirthDateDeferredToAudit(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID := f.mustRegisterClient(ctx, "09120000001")
	teamID := f.mustCreateTeam(ctx, clientID, "Persian Gears", memory.LeagueIDSoccerSim, "")

	// An omitted birth date is an incompleteness, not a rejection.
	m, err := f.roster.AddMember(ctx, UpsertMemberInput{
		ClientID: clientID, TeamID: teamID,
		FullName: "Reza Moradi", NationalID: nidReza,
		Role: "member", CityID: "thr-tehran",
	})
	if err != nil {
		t.Fatalf("AddMember without birth date: %v", err)
	}

	report, err := f.audit.AuditClient(ctx, clientID)
	if err != nil {
		t.Fatalf("AuditClient: %v", err)
	}
	var found bool
	for _, finding := range report.Findings {
		if finding.MemberID == m.ID && finding.Field == "birth_date" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Findings = %+v, want a birth_date finding for %s", report.Findings, m.ID)
	}

	if _, err := f.roster.UpdateMember(ctx, UpsertMemberInput{
		ClientID: clientID, TeamID: teamID, MemberID: m.ID,
		FullName: "Reza Moradi", NationalID: nidReza,
		Role: "member", BirthDate: birthDateForAge(16), CityID: "thr-tehran",
	}); err != nil {
		t.Fatalf("UpdateMember with birth date: %v", err)
	}

	report, err = f.audit.AuditClient(ctx, clientID)
	if err != nil {
		t.Fatalf("AuditClient after fix: %v", err)
	}
	for _, finding := range report.Findings {
		if finding.MemberID == m.ID && finding.Field == "birth_date" {
			t.Fatalf("birth_date finding survived the fix: %+v", finding)
		}
	}
}

func TestRosterService_MemberLimitPerTeam(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID := f.mustRegisterClient(ctx, "09120000001")
	teamID := f.mustCreateTeam(ctx, clientID, "Persian Gears", memory.LeagueIDSoccerSim, "")

	nids := []string{nidAli, nidSara, nidReza, nidMina, nidOmid, nidLeila}
	for i, nid := range nids {
		f.mustAddMember(ctx, clientID, teamID, "Player Number"+strings.Repeat("x", i+1), nid, "member", 16)
	}

	_, err := f.roster.AddMember(ctx, UpsertMemberInput{
		ClientID: clientID, TeamID: teamID,
		FullName: "Kian Sabzi", NationalID: nidKian,
		Role: "member", BirthDate: birthDateForAge(16),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("seventh member err = %v, want %v", err, ErrConflict)
	}
}

func TestRosterService_LeagueConflictAcrossTeams(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientA := f.mustRegisterClient(ctx, "09120000001")
	clientB := f.mustRegisterClient(ctx, "09120000002")

	teamA := f.mustCreateTeam(ctx, clientA, "Persian Gears", memory.LeagueIDSoccerSim, memory.LeagueIDRescue)
	teamB := f.mustCreateTeam(ctx, clientB, "Shiraz Circuits", memory.LeagueIDRescue, "")

	f.mustAddMember(ctx, clientA, teamA, "Ali Rahimi", nidAli, "member", 16)

	// Same national ID on another team sharing the rescue league.
	_, err := f.roster.AddMember(ctx, UpsertMemberInput{
		ClientID: clientB, TeamID: teamB,
		FullName: "Ali Rahimi", NationalID: nidAli,
		Role: "member", BirthDate: birthDateForAge(16),
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("conflicting member err = %v, want %v", err, ErrConflict)
	}
	if !strings.Contains(err.Error(), "Persian Gears") {
		t.Errorf("error %q does not name the conflicting team", err)
	}
	if !strings.Contains(err.Error(), "Rescue Robot") {
		t.Errorf("error %q does not name the shared league", err)
	}
}

func TestRosterService_CoachExemptFromConflict(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientA := f.mustRegisterClient(ctx, "09120000001")
	clientB := f.mustRegisterClient(ctx, "09120000002")

	teamA := f.mustCreateTeam(ctx, clientA, "Persian Gears", memory.LeagueIDRescue, "")
	teamB := f.mustCreateTeam(ctx, clientB, "Shiraz Circuits", memory.LeagueIDRescue, "")

	f.mustAddMember(ctx, clientA, teamA, "Mina Taheri", nidMina, "coach", 35)

	// The same person may coach two teams in the same league.
	if _, err := f.roster.AddMember(ctx, UpsertMemberInput{
		ClientID: clientB, TeamID: teamB,
		FullName: "Mina Taheri", NationalID: nidMina,
		Role: "coach", BirthDate: birthDateForAge(35),
	}); err != nil {
		t.Fatalf("coach on second team: %v", err)
	}
}

func TestRosterService_NoConflictWithoutSharedLeague(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientA := f.mustRegisterClient(ctx, "09120000001")
	clientB := f.mustRegisterClient(ctx, "09120000002")

	teamA := f.mustCreateTeam(ctx, clientA, "Persian Gears", memory.LeagueIDSoccerSim, "")
	teamB := f.mustCreateTeam(ctx, clientB, "Shiraz Circuits", memory.LeagueIDRescue, "")

	f.mustAddMember(ctx, clientA, teamA, "Ali Rahimi", nidAli, "member", 16)

	if _, err := f.roster.AddMember(ctx, UpsertMemberInput{
		ClientID: clientB, TeamID: teamB,
		FullName: "Ali Rahimi", NationalID: nidAli,
		Role: "member", BirthDate: birthDateForAge(16),
	}); err != nil {
		t.Fatalf("member in disjoint league: %v", err)
	}
}

func TestRosterService_SelectLeaguesRechecksConflicts(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientA := f.mustRegisterClient(ctx, "09120000001")
	clientB := f.mustRegisterClient(ctx, "09120000002")

	teamA := f.mustCreateTeam(ctx, clientA, "Persian Gears", memory.LeagueIDSoccerSim, "")
	teamB := f.mustCreateTeam(ctx, clientB, "Shiraz Circuits", memory.LeagueIDRescue, "")

	f.mustAddMember(ctx, clientA, teamA, "Ali Rahimi", nidAli, "member", 16)
	f.mustAddMember(ctx, clientB, teamB, "Ali Rahimi", nidAli, "member", 16)

	// Moving team A into the rescue league collides with team B.
	_, err := f.roster.SelectLeagues(ctx, SelectLeaguesInput{
		ClientID: clientA, TeamID: teamA,
		LeagueOneID: memory.LeagueIDRescue,
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("SelectLeagues err = %v, want %v", err, ErrConflict)
	}

	// A disjoint league is fine.
	updated, err := f.roster.SelectLeagues(ctx, SelectLeaguesInput{
		ClientID: clientA, TeamID: teamA,
		LeagueOneID: memory.LeagueIDDrone,
	})
	if err != nil {
		t.Fatalf("SelectLeagues: %v", err)
	}
	if updated.LeagueOneID != memory.LeagueIDDrone {
		t.Errorf("LeagueOneID = %q", updated.LeagueOneID)
	}
}

func TestRosterService_WithdrawMember(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID := f.mustRegisterClient(ctx, "09120000001")
	teamID := f.mustCreateTeam(ctx, clientID, "Persian Gears", memory.LeagueIDSoccerSim, "")
	memberID := f.mustAddMember(ctx, clientID, teamID, "Ali Rahimi", nidAli, "member", 16)

	if err := f.roster.WithdrawMember(ctx, clientID, teamID, memberID); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	stored, _, _ := f.teams.GetByID(ctx, teamID)
	if stored.UnpaidMembersCount != 0 {
		t.Errorf("UnpaidMembersCount = %d, want 0", stored.UnpaidMembersCount)
	}

	// Withdrawn is terminal.
	err := f.roster.WithdrawMember(ctx, clientID, teamID, memberID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second withdraw err = %v, want %v", err, ErrInvalidState)
	}

	// The freed national ID may register elsewhere.
	otherTeam := f.mustCreateTeam(ctx, clientID, "Second Wind", memory.LeagueIDSoccerSim, "")
	if _, err := f.roster.AddMember(ctx, UpsertMemberInput{
		ClientID: clientID, TeamID: otherTeam,
		FullName: "Ali Rahimi", NationalID: nidAli,
		Role: "member", BirthDate: birthDateForAge(16),
	}); err != nil {
		t.Fatalf("re-register withdrawn national id: %v", err)
	}
}

func TestRosterService_UnpaidCounterNeverNegative(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientID := f.mustRegisterClient(ctx, "09120000001")
	teamID := f.mustCreateTeam(ctx, clientID, "Persian Gears", memory.LeagueIDSoccerSim, "")
	memberID := f.mustAddMember(ctx, clientID, teamID, "Ali Rahimi", nidAli, "member", 16)

	// Drain the counter below the member count through a direct shift,
	// then withdraw; the floor holds.
	if err := f.teams.AddUnpaid(ctx, teamID, -5); err != nil {
		t.Fatalf("add unpaid: %v", err)
	}
	if err := f.roster.WithdrawMember(ctx, clientID, teamID, memberID); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	stored, _, _ := f.teams.GetByID(ctx, teamID)
	if stored.UnpaidMembersCount != 0 {
		t.Fatalf("UnpaidMembersCount = %d, want 0", stored.UnpaidMembersCount)
	}
}

func TestRosterService_ForeignTeamRejected(t *testing.T) {
	f := newFixture()
	ctx := t.Context()
	clientA := f.mustRegisterClient(ctx, "09120000001")
	clientB := f.mustRegisterClient(ctx, "09120000002")
	teamA := f.mustCreateTeam(ctx, clientA, "Persian Gears", memory.LeagueIDSoccerSim, "")

	_, err := f.roster.AddMember(ctx, UpsertMemberInput{
		ClientID: clientB, TeamID: teamA,
		FullName: "Ali Rahimi", NationalID: nidAli,
		Role: "member", BirthDate: birthDateForAge(16),
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign team err = %v, want %v", err, ErrForbidden)
	}
}
