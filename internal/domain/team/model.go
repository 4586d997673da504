package team

import (
	"fmt"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
)

// EducationLevel is the schooling band a team competes under. Member-role
// age bounds are looked up per level from static configuration.
type EducationLevel string

const (
	LevelElementary EducationLevel = "elementary"
	LevelJuniorHigh EducationLevel = "junior_high"
	LevelSeniorHigh EducationLevel = "senior_high"
	LevelUniversity EducationLevel = "university"
	LevelOpen       EducationLevel = "open"
)

var AllEducationLevels = map[EducationLevel]struct{}{
	LevelElementary: {},
	LevelJuniorHigh: {},
	LevelSeniorHigh: {},
	LevelUniversity: {},
	LevelOpen:       {},
}

var EducationLevelLabels = map[EducationLevel]string{
	LevelElementary: "Elementary",
	LevelJuniorHigh: "Junior High",
	LevelSeniorHigh: "Senior High",
	LevelUniversity: "University",
	LevelOpen:       "Open",
}

// Team is a named roster owned by a client, competing in one required
// league and an optional second one.
type Team struct {
	ID             string
	ClientID       string
	Name           string
	LeagueOneID    string
	LeagueTwoID    *string
	EducationLevel EducationLevel
	Status         lifecycle.Status

	// UnpaidMembersCount tracks active members not yet covered by an
	// approved payment. Invariant: never negative.
	UnpaidMembersCount int

	// Derived roster aggregates, recomputed on roster mutation.
	AverageAge        float64
	DistinctProvinces int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.ClientID == "" {
		return fmt.Errorf("team client id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if _, ok := AllEducationLevels[t.EducationLevel]; !ok {
		return fmt.Errorf("invalid education level: %s", t.EducationLevel)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("invalid team status: %s", t.Status)
	}
	if t.UnpaidMembersCount < 0 {
		return fmt.Errorf("unpaid members count cannot be negative")
	}

	return nil
}

// LeagueIDs returns the team's non-empty league slots.
func (t Team) LeagueIDs() []string {
	out := make([]string, 0, 2)
	if t.LeagueOneID != "" {
		out = append(out, t.LeagueOneID)
	}
	if t.LeagueTwoID != nil && *t.LeagueTwoID != "" {
		out = append(out, *t.LeagueTwoID)
	}

	return out
}
