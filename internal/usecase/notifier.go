package usecase

import "context"

// Notifier delivers out-of-band messages to clients. Implementations
// are expected to queue and return quickly; delivery failures are their
// concern, not the caller's.
type Notifier interface {
	SendSMS(ctx context.Context, phone, message string) error
}
