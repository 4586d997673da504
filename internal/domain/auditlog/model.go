package auditlog

import (
	"fmt"
	"time"
)

// Entry is an append-only record of an administrative or reconciliation
// action taken on a client's data.
type Entry struct {
	ID       string
	ClientID string
	TeamID   string
	Action   string
	Detail   string
	At       time.Time
}

func (e Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("audit entry id is required")
	}
	if e.ClientID == "" {
		return fmt.Errorf("audit entry client id is required")
	}
	if e.Action == "" {
		return fmt.Errorf("audit entry action is required")
	}

	return nil
}
