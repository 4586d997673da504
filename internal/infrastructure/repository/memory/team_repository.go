package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[string]team.Team
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{items: make(map[string]team.Team)}
}

func (r *TeamRepository) GetByID(_ context.Context, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[teamID]
	return cloneTeam(t), ok, nil
}

func (r *TeamRepository) ListByClient(_ context.Context, clientID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []team.Team
	for _, t := range r.items {
		if t.ClientID == clientID {
			out = append(out, cloneTeam(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out, nil
}

func (r *TeamRepository) CountActiveByClient(_ context.Context, clientID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, t := range r.items {
		if t.ClientID == clientID && t.Status == lifecycle.StatusActive {
			count++
		}
	}

	return count, nil
}

func (r *TeamRepository) Create(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := strings.ToLower(t.Name)
	for _, existing := range r.items {
		if existing.Status != lifecycle.StatusWithdrawn && strings.ToLower(existing.Name) == name {
			return team.ErrNameTaken
		}
	}

	r.items[t.ID] = cloneTeam(t)
	return nil
}

func (r *TeamRepository) UpdateLeagues(_ context.Context, teamID, leagueOneID string, leagueTwoID *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[teamID]
	if !ok {
		return nil
	}
	t.LeagueOneID = leagueOneID
	if leagueTwoID != nil {
		v := *leagueTwoID
		t.LeagueTwoID = &v
	} else {
		t.LeagueTwoID = nil
	}
	t.UpdatedAt = time.Now().UTC()
	r.items[teamID] = t

	return nil
}

func (r *TeamRepository) UpdateAggregates(_ context.Context, teamID string, averageAge float64, distinctProvinces int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[teamID]
	if !ok {
		return nil
	}
	t.AverageAge = averageAge
	t.DistinctProvinces = distinctProvinces
	r.items[teamID] = t

	return nil
}

func (r *TeamRepository) UpdateStatus(_ context.Context, teamID string, status lifecycle.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[teamID]
	if !ok {
		return nil
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	r.items[teamID] = t

	return nil
}

func (r *TeamRepository) AddUnpaid(_ context.Context, teamID string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[teamID]
	if !ok {
		return nil
	}
	t.UnpaidMembersCount += delta
	if t.UnpaidMembersCount < 0 {
		t.UnpaidMembersCount = 0
	}
	r.items[teamID] = t

	return nil
}

// replaceStatusByClient flips a client's teams from one status to
// another and reports the affected team IDs. Used for cascades.
func (r *TeamRepository) replaceStatusByClient(clientID string, from, to lifecycle.Status) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var ids []string
	for id, t := range r.items {
		if t.ClientID == clientID && t.Status == from {
			t.Status = to
			t.UpdatedAt = time.Now().UTC()
			r.items[id] = t
			ids = append(ids, id)
		}
	}

	return ids
}

// listIDsByClient reports the client's non-withdrawn team IDs.
func (r *TeamRepository) listIDsByClient(clientID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, t := range r.items {
		if t.ClientID == clientID && t.Status != lifecycle.StatusWithdrawn {
			ids = append(ids, id)
		}
	}

	return ids
}

func cloneTeam(t team.Team) team.Team {
	copied := t
	if t.LeagueTwoID != nil {
		v := *t.LeagueTwoID
		copied.LeagueTwoID = &v
	}
	return copied
}
