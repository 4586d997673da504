package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/session"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/resilience"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/usecase"
)

// Client talks to the external session service over HTTP. All three
// operations run behind one circuit breaker; when it opens, callers
// get a dependency-unavailable error instead of piling onto a dead
// collaborator.
type Client struct {
	httpClient *http.Client
	issueURL   string
	verifyURL  string
	revokeURL  string
	breaker    *resilience.CircuitBreaker
	cache      *principalCache
	logger     *logging.Logger
}

const (
	verifyCacheTTL        = 30 * time.Second
	verifyCacheMaxEntries = 10_000
)

func NewClient(
	httpClient *http.Client,
	baseURL string,
	cfg resilience.CircuitBreakerConfig,
	logger *logging.Logger,
) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 3 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}

	var breaker *resilience.CircuitBreaker
	if cfg.Enabled {
		breaker = resilience.NewCircuitBreaker(cfg.FailureThreshold, cfg.OpenTimeout, cfg.HalfOpenMaxReq)
	}

	return &Client{
		httpClient: httpClient,
		issueURL:   buildURL(baseURL, "/v1/sessions"),
		verifyURL:  buildURL(baseURL, "/v1/sessions/verify"),
		revokeURL:  buildURL(baseURL, "/v1/sessions/revoke"),
		breaker:    breaker,
		cache:      newPrincipalCache(verifyCacheTTL, verifyCacheMaxEntries),
		logger:     logger,
	}
}

type principalPayload struct {
	ClientID             string `json:"client_id"`
	Admin                bool   `json:"admin"`
	ResolutionInProgress bool   `json:"resolution_in_progress"`
}

type issueResponse struct {
	Token string `json:"token"`
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Active    bool             `json:"active"`
	Principal principalPayload `json:"principal"`
}

func (c *Client) Issue(ctx context.Context, p session.Principal) (string, error) {
	payload := principalPayload{
		ClientID:             p.ClientID,
		Admin:                p.Admin,
		ResolutionInProgress: p.ResolutionInProgress,
	}

	var decoded issueResponse
	if err := c.post(ctx, c.issueURL, payload, &decoded); err != nil {
		return "", err
	}
	if strings.TrimSpace(decoded.Token) == "" {
		return "", fmt.Errorf("invalid issue response: token is empty")
	}

	return decoded.Token, nil
}

func (c *Client) Verify(ctx context.Context, token string) (session.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return session.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	key := hashToken(token)
	if principal, ok := c.cache.Get(key); ok {
		return principal, nil
	}

	var decoded verifyResponse
	if err := c.post(ctx, c.verifyURL, verifyRequest{Token: token}, &decoded); err != nil {
		return session.Principal{}, err
	}
	if !decoded.Active {
		return session.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.Principal.ClientID) == "" && !decoded.Principal.Admin {
		return session.Principal{}, fmt.Errorf("invalid verify response: principal is empty")
	}

	principal := session.Principal{
		ClientID:             decoded.Principal.ClientID,
		Admin:                decoded.Principal.Admin,
		ResolutionInProgress: decoded.Principal.ResolutionInProgress,
	}
	c.cache.Set(key, principal)

	return principal, nil
}

func (c *Client) Revoke(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	c.cache.Delete(hashToken(token))

	return c.post(ctx, c.revokeURL, verifyRequest{Token: token}, nil)
}

func (c *Client) post(ctx context.Context, url string, payload, out any) error {
	if c.breaker != nil {
		if err := c.breaker.Allow(); err != nil {
			return fmt.Errorf("%w: session service: %v", usecase.ErrDependencyUnavailable, err)
		}
	}

	err := c.doPost(ctx, url, payload, out)
	if c.breaker != nil {
		if err != nil && !isCallerFault(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}

	return err
}

func (c *Client) doPost(ctx context.Context, url string, payload, out any) error {
	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("create session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request session service: %v", usecase.ErrDependencyUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read session response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: session denied", usecase.ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		c.logger.WarnContext(ctx, "session service non-200", "status_code", resp.StatusCode)
		return fmt.Errorf("%w: session service status %d", usecase.ErrDependencyUnavailable, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal session response: %w", err)
	}

	return nil
}

// isCallerFault keeps auth rejections from tripping the breaker.
func isCallerFault(err error) bool {
	return errors.Is(err, usecase.ErrUnauthorized)
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
