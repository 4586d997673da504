package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/auditlog"
)

type AuditLogRepository struct {
	mu      sync.RWMutex
	entries []auditlog.Entry
}

func NewAuditLogRepository() *AuditLogRepository {
	return &AuditLogRepository{}
}

func (r *AuditLogRepository) Append(_ context.Context, e auditlog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, e)
	return nil
}

func (r *AuditLogRepository) ListByTeam(_ context.Context, teamID string) ([]auditlog.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []auditlog.Entry
	for _, e := range r.entries {
		if e.TeamID == teamID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })

	return out, nil
}
