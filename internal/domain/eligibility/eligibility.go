package eligibility

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/member"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/team"
)

var (
	ErrInvalidNationalID    = errors.New("invalid national ID")
	ErrNameIncomplete       = errors.New("full name must contain at least two words")
	ErrAgeOutOfRange        = errors.New("age out of allowed range")
	ErrEducationLevelNotSet = errors.New("education level not set")
	ErrUnknownRole          = errors.New("unknown member role")
	ErrBirthDateMissing     = errors.New("birth date is required")
)

// AgeRange bounds an education level. Either bound may be nil, meaning
// unbounded on that side.
type AgeRange struct {
	Min *int
	Max *int
}

func (r AgeRange) contains(age int) bool {
	if r.Min != nil && age < *r.Min {
		return false
	}
	if r.Max != nil && age > *r.Max {
		return false
	}

	return true
}

func (r AgeRange) String() string {
	switch {
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("%d-%d", *r.Min, *r.Max)
	case r.Min != nil:
		return fmt.Sprintf("%d and above", *r.Min)
	case r.Max != nil:
		return fmt.Sprintf("up to %d", *r.Max)
	default:
		return "unrestricted"
	}
}

const (
	leaderMinAge = 18
	coachMinAge  = 16
	staffMaxAge  = 70
)

// Validator applies per-member eligibility rules. The education-level age
// table is injected at startup and immutable afterwards.
type Validator struct {
	ageTable map[team.EducationLevel]AgeRange
}

func NewValidator(ageTable map[team.EducationLevel]AgeRange) *Validator {
	table := make(map[team.EducationLevel]AgeRange, len(ageTable))
	for level, bounds := range ageTable {
		table[level] = bounds
	}

	return &Validator{ageTable: table}
}

// ValidateMember checks the role-dependent age rules against the
// reference date. Members in the plain member role are bounded by the
// team's education level; leaders and coaches carry fixed windows.
func (v *Validator) ValidateMember(role member.Role, birthDate time.Time, level team.EducationLevel, ref time.Time) error {
	if birthDate.IsZero() {
		return ErrBirthDateMissing
	}

	age := AgeAt(birthDate, ref)

	switch role {
	case member.RoleLeader:
		if age < leaderMinAge || age > staffMaxAge {
			return fmt.Errorf("%w: leader must be %d-%d, got %d", ErrAgeOutOfRange, leaderMinAge, staffMaxAge, age)
		}
		return nil
	case member.RoleCoach:
		if age < coachMinAge || age > staffMaxAge {
			return fmt.Errorf("%w: coach must be %d-%d, got %d", ErrAgeOutOfRange, coachMinAge, staffMaxAge, age)
		}
		return nil
	case member.RoleMember:
		if level == "" {
			return ErrEducationLevelNotSet
		}
		bounds, ok := v.ageTable[level]
		if !ok {
			return fmt.Errorf("%w: no age table for level %s", ErrEducationLevelNotSet, level)
		}
		if !bounds.contains(age) {
			return fmt.Errorf("%w: level %s allows %s, got %d", ErrAgeOutOfRange, team.EducationLevelLabels[level], bounds, age)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
}

// ValidateFullName requires at least two whitespace-separated tokens.
func ValidateFullName(name string) error {
	if len(strings.Fields(name)) < 2 {
		return ErrNameIncomplete
	}

	return nil
}

// AgeAt is the completed-years age at the reference date.
func AgeAt(birthDate, ref time.Time) int {
	age := ref.Year() - birthDate.Year()
	if ref.Month() < birthDate.Month() ||
		(ref.Month() == birthDate.Month() && ref.Day() < birthDate.Day()) {
		age--
	}

	return age
}
