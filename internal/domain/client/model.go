package client

import (
	"fmt"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
)

// Client is a registered account that owns teams. Phone and email are
// unique at the store.
type Client struct {
	ID        string
	FullName  string
	Phone     string
	Email     string
	Status    lifecycle.Status
	CreatedAt time.Time
	UpdatedAt time.Time

	// Phone verification state. Code is empty once confirmed.
	VerifyCode    string
	VerifySentAt  time.Time
	PhoneVerified bool
}

func (c Client) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("client id is required")
	}
	if c.Phone == "" {
		return fmt.Errorf("client phone is required")
	}
	if !c.Status.Valid() {
		return fmt.Errorf("invalid client status: %s", c.Status)
	}

	return nil
}
