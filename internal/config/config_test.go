package config

import (
	"testing"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/team"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Errorf("AppEnv = %q, want %q", cfg.AppEnv, EnvDev)
	}
	if cfg.Pricing.FeePerMember != 9_500_000 {
		t.Errorf("FeePerMember = %d, want 9500000", cfg.Pricing.FeePerMember)
	}
	if cfg.Pricing.TeamFee != 4_500_000 {
		t.Errorf("TeamFee = %d, want 4500000", cfg.Pricing.TeamFee)
	}
	if cfg.Pricing.SecondLeagueDiscount != 20 {
		t.Errorf("SecondLeagueDiscount = %d, want 20", cfg.Pricing.SecondLeagueDiscount)
	}
	if cfg.MaxTeamsPerClient != 3 || cfg.MaxMembersPerTeam != 6 {
		t.Errorf("limits = %d/%d, want 3/6", cfg.MaxTeamsPerClient, cfg.MaxMembersPerTeam)
	}
	if len(cfg.Leagues) != 6 {
		t.Errorf("len(Leagues) = %d, want 6", len(cfg.Leagues))
	}
	if len(cfg.EducationAgeTable) != 5 {
		t.Errorf("len(EducationAgeTable) = %d, want 5", len(cfg.EducationAgeTable))
	}
}

func TestLoadRejectsInvalidEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid APP_ENV")
	}
}

func TestLoadRejectsUptraceWithoutDSN(t *testing.T) {
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when UPTRACE_ENABLED without DSN")
	}
}

func TestParseAgeTable(t *testing.T) {
	table, err := parseAgeTable("elementary:7-13, university:17- ,open:-")
	if err != nil {
		t.Fatalf("parseAgeTable: %v", err)
	}

	rng := table[team.LevelElementary]
	if rng.Min == nil || *rng.Min != 7 || rng.Max == nil || *rng.Max != 13 {
		t.Errorf("elementary = %s, want 7-13", rng)
	}

	rng = table[team.LevelUniversity]
	if rng.Min == nil || *rng.Min != 17 || rng.Max != nil {
		t.Errorf("university = %s, want 17-", rng)
	}

	rng = table[team.LevelOpen]
	if rng.Min != nil || rng.Max != nil {
		t.Errorf("open = %s, want unbounded", rng)
	}
}

func TestParseAgeTableRejects(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"unknown level", "kindergarten:3-6"},
		{"missing bounds", "elementary:13"},
		{"min above max", "elementary:14-13"},
		{"negative min", "elementary:-1-13"},
		{"empty", " , "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseAgeTable(tc.raw); err == nil {
				t.Errorf("parseAgeTable(%q) accepted", tc.raw)
			}
		})
	}
}

func TestParseLeagueCatalog(t *testing.T) {
	leagues, err := parseLeagueCatalog("soccer-sim=Soccer Simulation; rescue=Rescue Robot")
	if err != nil {
		t.Fatalf("parseLeagueCatalog: %v", err)
	}
	if len(leagues) != 2 {
		t.Fatalf("len = %d, want 2", len(leagues))
	}
	if leagues[0].ID != "soccer-sim" || leagues[0].Name != "Soccer Simulation" {
		t.Errorf("leagues[0] = %+v", leagues[0])
	}
}

func TestParseLeagueCatalogRejectsDuplicates(t *testing.T) {
	if _, err := parseLeagueCatalog("rescue=Rescue;rescue=Rescue Line"); err == nil {
		t.Fatal("expected duplicate id error")
	}
}
