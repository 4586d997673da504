package client

import (
	"context"
	"errors"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
)

// ErrDuplicateContact is returned when the store's phone/email uniqueness
// constraint rejects a create.
var ErrDuplicateContact = errors.New("phone or email already registered")

// Repository describes client persistence needs from use cases.
// DeactivateCascade and ActivateCascade flip the client together with all
// of its teams and their members inside one transaction.
type Repository interface {
	GetByID(ctx context.Context, clientID string) (Client, bool, error)
	Create(ctx context.Context, c Client) error
	UpdateStatus(ctx context.Context, clientID string, status lifecycle.Status) error
	SetVerification(ctx context.Context, clientID, code string, sentAt time.Time) error
	ConfirmVerification(ctx context.Context, clientID string) error
	DeactivateCascade(ctx context.Context, clientID string) error
	ActivateCascade(ctx context.Context, clientID string) error
}
