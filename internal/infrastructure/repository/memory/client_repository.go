package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/client"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
)

// ClientRepository keeps clients and carries out the status cascades
// over the sibling team and member repositories.
type ClientRepository struct {
	mu    sync.RWMutex
	items map[string]client.Client

	teams   *TeamRepository
	members *MemberRepository
}

func NewClientRepository(teams *TeamRepository, members *MemberRepository) *ClientRepository {
	return &ClientRepository{
		items:   make(map[string]client.Client),
		teams:   teams,
		members: members,
	}
}

func (r *ClientRepository) GetByID(_ context.Context, clientID string) (client.Client, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[clientID]
	return c, ok, nil
}

func (r *ClientRepository) Create(_ context.Context, c client.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Phone == c.Phone {
			return client.ErrDuplicateContact
		}
		if c.Email != "" && strings.EqualFold(existing.Email, c.Email) {
			return client.ErrDuplicateContact
		}
	}

	r.items[c.ID] = c
	return nil
}

func (r *ClientRepository) UpdateStatus(_ context.Context, clientID string, status lifecycle.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.setStatusLocked(clientID, status)
	return nil
}

func (r *ClientRepository) SetVerification(_ context.Context, clientID, code string, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[clientID]
	if !ok {
		return nil
	}
	c.VerifyCode = code
	c.VerifySentAt = sentAt
	c.UpdatedAt = time.Now().UTC()
	r.items[clientID] = c

	return nil
}

func (r *ClientRepository) ConfirmVerification(_ context.Context, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[clientID]
	if !ok {
		return nil
	}
	c.PhoneVerified = true
	c.VerifyCode = ""
	c.UpdatedAt = time.Now().UTC()
	r.items[clientID] = c

	return nil
}

func (r *ClientRepository) DeactivateCascade(_ context.Context, clientID string) error {
	r.mu.Lock()
	r.setStatusLocked(clientID, lifecycle.StatusInactive)
	r.mu.Unlock()

	r.teams.replaceStatusByClient(clientID, lifecycle.StatusActive, lifecycle.StatusInactive)
	for _, teamID := range r.teams.listIDsByClient(clientID) {
		r.members.replaceStatusByTeam(teamID, lifecycle.StatusActive, lifecycle.StatusInactive)
	}

	return nil
}

func (r *ClientRepository) ActivateCascade(_ context.Context, clientID string) error {
	r.mu.Lock()
	r.setStatusLocked(clientID, lifecycle.StatusActive)
	r.mu.Unlock()

	r.teams.replaceStatusByClient(clientID, lifecycle.StatusInactive, lifecycle.StatusActive)
	for _, teamID := range r.teams.listIDsByClient(clientID) {
		r.members.replaceStatusByTeam(teamID, lifecycle.StatusInactive, lifecycle.StatusActive)
	}

	return nil
}

func (r *ClientRepository) setStatusLocked(clientID string, status lifecycle.Status) {
	c, ok := r.items[clientID]
	if !ok {
		return
	}
	c.Status = status
	c.UpdatedAt = time.Now().UTC()
	r.items[clientID] = c
}
