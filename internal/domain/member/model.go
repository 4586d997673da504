package member

import (
	"fmt"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
)

// Role is a member's function on the roster. Leaders and coaches are
// exempt from education-level age bounds and cross-team league conflicts.
type Role string

const (
	RoleLeader Role = "leader"
	RoleCoach  Role = "coach"
	RoleMember Role = "member"
)

var AllRoles = map[Role]struct{}{
	RoleLeader: {},
	RoleCoach:  {},
	RoleMember: {},
}

var RoleLabels = map[Role]string{
	RoleLeader: "Leader",
	RoleCoach:  "Coach",
	RoleMember: "Member",
}

// Staff reports whether the role is exempt from roster exclusivity.
func (r Role) Staff() bool {
	return r == RoleLeader || r == RoleCoach
}

// Member is a person on a team. BirthDate may be the zero time when the
// record is incomplete; the data completion auditor reports it.
type Member struct {
	ID         string
	TeamID     string
	FullName   string
	NationalID string
	Role       Role
	Status     lifecycle.Status
	BirthDate  time.Time
	CityID     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (m Member) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("member id is required")
	}
	if m.TeamID == "" {
		return fmt.Errorf("member team id is required")
	}
	if _, ok := AllRoles[m.Role]; !ok {
		return fmt.Errorf("invalid member role: %s", m.Role)
	}
	if !m.Status.Valid() {
		return fmt.Errorf("invalid member status: %s", m.Status)
	}

	return nil
}
