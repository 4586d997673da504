package session

import "context"

// Principal is the identity attached to a request by the session
// collaborator. A resolution principal unlocks only the resolution form
// and logout.
type Principal struct {
	ClientID             string
	Admin                bool
	ResolutionInProgress bool
}

// Store is the boundary to the external session service. The engine
// reads and writes session state but does not own its transport.
type Store interface {
	Issue(ctx context.Context, p Principal) (string, error)
	Verify(ctx context.Context, token string) (Principal, error)
	Revoke(ctx context.Context, token string) error
}
