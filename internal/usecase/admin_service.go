package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/auditlog"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/client"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	idgen "github.com/kiacoder/AirocupWebsite-sub000/internal/platform/id"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
)

// AdminService drives manual account interventions: cascade deactivation
// of a client and reactivation once its data audits clean. Both leave an
// audit trail.
type AdminService struct {
	clientRepo client.Repository
	auditRepo  auditlog.Repository
	audit      *AuditService
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewAdminService(
	clientRepo client.Repository,
	auditRepo auditlog.Repository,
	audit *AuditService,
	idGen idgen.Generator,
	logger *logging.Logger,
) *AdminService {
	if logger == nil {
		logger = logging.Default()
	}

	return &AdminService{
		clientRepo: clientRepo,
		auditRepo:  auditRepo,
		audit:      audit,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// DeactivateClient suspends the client and, in cascade, all of its teams
// and their members.
func (s *AdminService) DeactivateClient(ctx context.Context, clientID, adminID, reason string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.DeactivateClient")
	defer span.End()

	clientID = strings.TrimSpace(clientID)
	if clientID == "" || strings.TrimSpace(adminID) == "" {
		return fmt.Errorf("%w: client id and admin id are required", ErrInvalidInput)
	}

	c, found, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("load client: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: client %s", ErrNotFound, clientID)
	}
	if c.Status == lifecycle.StatusWithdrawn {
		return fmt.Errorf("%w: client %s is withdrawn", ErrInvalidState, clientID)
	}

	if err := s.clientRepo.DeactivateCascade(ctx, clientID); err != nil {
		return fmt.Errorf("deactivate client cascade: %w", err)
	}

	s.appendEntry(ctx, clientID, "client_deactivated", s.cascadeDetail(adminID, reason))
	s.logger.InfoContext(ctx, "client deactivated", "client_id", clientID, "admin_id", adminID)
	return nil
}

// ReactivateClient re-runs the completion audit and lifts the suspension
// only when the account data is complete. The report comes back either
// way so the caller can show what still blocks reactivation.
func (s *AdminService) ReactivateClient(ctx context.Context, clientID, adminID string) (AuditReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AdminService.ReactivateClient")
	defer span.End()

	clientID = strings.TrimSpace(clientID)
	if clientID == "" || strings.TrimSpace(adminID) == "" {
		return AuditReport{}, fmt.Errorf("%w: client id and admin id are required", ErrInvalidInput)
	}

	c, found, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return AuditReport{}, fmt.Errorf("load client: %w", err)
	}
	if !found {
		return AuditReport{}, fmt.Errorf("%w: client %s", ErrNotFound, clientID)
	}
	if c.Status == lifecycle.StatusWithdrawn {
		return AuditReport{}, fmt.Errorf("%w: client %s is withdrawn", ErrInvalidState, clientID)
	}

	report, err := s.audit.AuditClient(ctx, clientID)
	if err != nil {
		return AuditReport{}, err
	}
	if !report.Complete() {
		return report, nil
	}

	if c.Status == lifecycle.StatusInactive {
		if err := s.clientRepo.ActivateCascade(ctx, clientID); err != nil {
			return report, fmt.Errorf("activate client cascade: %w", err)
		}
		s.appendEntry(ctx, clientID, "client_reactivated", s.cascadeDetail(adminID, ""))
		s.logger.InfoContext(ctx, "client reactivated", "client_id", clientID, "admin_id", adminID)
	}

	return report, nil
}

func (s *AdminService) cascadeDetail(adminID, reason string) string {
	detail := "admin=" + strings.TrimSpace(adminID)
	if r := strings.TrimSpace(reason); r != "" {
		detail += " reason=" + r
	}
	return detail
}

// appendEntry is best effort: a lost trail entry must not undo the
// cascade that already happened.
func (s *AdminService) appendEntry(ctx context.Context, clientID, action, detail string) {
	entryID, err := s.idGen.NewID()
	if err != nil {
		s.logger.WarnContext(ctx, "generate audit entry id failed", "client_id", clientID, "action", action, "error", err)
		return
	}
	entry := auditlog.Entry{
		ID:       entryID,
		ClientID: clientID,
		Action:   action,
		Detail:   detail,
		At:       s.now(),
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "append audit entry failed", "client_id", clientID, "action", action, "error", err)
	}
}
