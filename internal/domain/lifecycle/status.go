package lifecycle

import "fmt"

// Status is the shared lifecycle vocabulary for clients, teams and members.
// Records are never hard-deleted; removal is a transition to Withdrawn.
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusWithdrawn Status = "withdrawn"
)

var AllStatuses = map[Status]struct{}{
	StatusActive:    {},
	StatusInactive:  {},
	StatusWithdrawn: {},
}

// Labels maps status values to display strings, keeping the display
// concern out of the domain type itself.
var Labels = map[Status]string{
	StatusActive:    "Active",
	StatusInactive:  "Inactive",
	StatusWithdrawn: "Withdrawn",
}

func (s Status) Valid() bool {
	_, ok := AllStatuses[s]
	return ok
}

// CanTransition reports whether the move from one status to another is
// permitted. Withdrawn is terminal; Inactive can return to Active only
// through the resolution workflow or an explicit reactivation.
func CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() || from == to {
		return false
	}
	if from == StatusWithdrawn {
		return false
	}

	return true
}

func Parse(v string) (Status, error) {
	s := Status(v)
	if !s.Valid() {
		return "", fmt.Errorf("invalid status %q", v)
	}

	return s, nil
}
