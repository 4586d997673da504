package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/member"
)

type MemberRepository struct {
	mu    sync.RWMutex
	items map[string]member.Member
}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{items: make(map[string]member.Member)}
}

func (r *MemberRepository) GetByID(_ context.Context, memberID string) (member.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[memberID]
	return m, ok, nil
}

func (r *MemberRepository) ListByTeam(_ context.Context, teamID string) ([]member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []member.Member
	for _, m := range r.items {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out, nil
}

func (r *MemberRepository) CountActive(_ context.Context, teamID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, m := range r.items {
		if m.TeamID == teamID && m.Status == lifecycle.StatusActive {
			count++
		}
	}

	return count, nil
}

func (r *MemberRepository) Create(_ context.Context, m member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[m.ID] = m
	return nil
}

func (r *MemberRepository) Update(_ context.Context, m member.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[m.ID] = m
	return nil
}

func (r *MemberRepository) UpdateStatus(_ context.Context, memberID string, status lifecycle.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[memberID]
	if !ok {
		return nil
	}
	m.Status = status
	m.UpdatedAt = time.Now().UTC()
	r.items[memberID] = m

	return nil
}

func (r *MemberRepository) ListActivePlayersByNationalID(_ context.Context, nationalID string) ([]member.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []member.Member
	for _, m := range r.items {
		if m.NationalID == nationalID && m.Role == member.RoleMember && m.Status == lifecycle.StatusActive {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *MemberRepository) HasActiveLeader(_ context.Context, teamID, excludeMemberID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.items {
		if m.TeamID != teamID || m.ID == excludeMemberID {
			continue
		}
		if m.Role == member.RoleLeader && m.Status == lifecycle.StatusActive {
			return true, nil
		}
	}

	return false, nil
}

// replaceStatusByTeam flips a team's members from one status to
// another. Used by sibling repositories for cascades.
func (r *MemberRepository) replaceStatusByTeam(teamID string, from, to lifecycle.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, m := range r.items {
		if m.TeamID == teamID && m.Status == from {
			m.Status = to
			m.UpdatedAt = time.Now().UTC()
			r.items[id] = m
		}
	}
}
