package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/client"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/lifecycle"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/session"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
)

// LoginResult carries the session issued at login. When the completion
// audit fails, the session is restricted to the resolution form and the
// report explains what must be fixed.
type LoginResult struct {
	Token      string
	Restricted bool
	Report     AuditReport
}

// ResolutionService runs the completion audit at session establishment
// and drives the fix-and-reactivate loop. An account that fails the
// audit is deactivated in cascade and kept on a restricted session
// until a later audit passes.
type ResolutionService struct {
	clientRepo client.Repository
	audit      *AuditService
	sessions   session.Store
	logger     *logging.Logger
}

func NewResolutionService(
	clientRepo client.Repository,
	audit *AuditService,
	sessions session.Store,
	logger *logging.Logger,
) *ResolutionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ResolutionService{
		clientRepo: clientRepo,
		audit:      audit,
		sessions:   sessions,
		logger:     logger,
	}
}

// EstablishSession is the login hook. The identity collaborator has
// already authenticated the client; this decides what kind of session
// they get.
func (s *ResolutionService) EstablishSession(ctx context.Context, clientID string) (LoginResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ResolutionService.EstablishSession")
	defer span.End()

	clientID = strings.TrimSpace(clientID)
	c, found, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("get client: %w", err)
	}
	if !found {
		return LoginResult{}, fmt.Errorf("%w: client %s", ErrNotFound, clientID)
	}
	if c.Status == lifecycle.StatusWithdrawn {
		return LoginResult{}, fmt.Errorf("%w: account is withdrawn", ErrInvalidState)
	}

	report, err := s.audit.AuditClient(ctx, clientID)
	if err != nil {
		return LoginResult{}, err
	}

	if report.Complete() {
		if c.Status == lifecycle.StatusInactive {
			if err := s.clientRepo.ActivateCascade(ctx, clientID); err != nil {
				return LoginResult{}, fmt.Errorf("reactivate client: %w", err)
			}
		}

		token, err := s.issue(ctx, session.Principal{ClientID: clientID})
		if err != nil {
			return LoginResult{}, err
		}
		return LoginResult{Token: token}, nil
	}

	if c.Status == lifecycle.StatusActive {
		if err := s.clientRepo.DeactivateCascade(ctx, clientID); err != nil {
			return LoginResult{}, fmt.Errorf("deactivate client: %w", err)
		}
		s.logger.WarnContext(ctx, "client deactivated pending resolution",
			"client_id", clientID, "findings", len(report.Findings))
	}

	token, err := s.issue(ctx, session.Principal{
		ClientID:             clientID,
		ResolutionInProgress: true,
	})
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, Restricted: true, Report: report}, nil
}

// Resolve re-audits after the client submitted fixes. On a clean audit
// the account is reactivated in cascade, the restricted token revoked
// and a full session issued. Otherwise the remaining findings come back
// and the restricted session stands.
func (s *ResolutionService) Resolve(ctx context.Context, clientID, restrictedToken string) (LoginResult, error) {
	ctx, span := startUsecaseSpan(ctx, "ResolutionService.Resolve")
	defer span.End()

	clientID = strings.TrimSpace(clientID)
	report, err := s.audit.AuditClient(ctx, clientID)
	if err != nil {
		return LoginResult{}, err
	}

	if !report.Complete() {
		return LoginResult{Token: restrictedToken, Restricted: true, Report: report}, nil
	}

	if err := s.clientRepo.ActivateCascade(ctx, clientID); err != nil {
		return LoginResult{}, fmt.Errorf("reactivate client: %w", err)
	}

	if err := s.sessions.Revoke(ctx, restrictedToken); err != nil {
		s.logger.WarnContext(ctx, "restricted token not revoked",
			"client_id", clientID, "error", err)
	}

	token, err := s.issue(ctx, session.Principal{ClientID: clientID})
	if err != nil {
		return LoginResult{}, err
	}

	s.logger.InfoContext(ctx, "client resolved and reactivated", "client_id", clientID)

	return LoginResult{Token: token}, nil
}

func (s *ResolutionService) Logout(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return fmt.Errorf("%w: revoke session: %v", ErrDependencyUnavailable, err)
	}

	return nil
}

func (s *ResolutionService) issue(ctx context.Context, p session.Principal) (string, error) {
	token, err := s.sessions.Issue(ctx, p)
	if err != nil {
		return "", fmt.Errorf("%w: issue session: %v", ErrDependencyUnavailable, err)
	}

	return token, nil
}
