package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/session"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/resilience"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/usecase"
)

func TestClientVerify_ParsesResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/sessions/verify" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}

		var req map[string]string
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if req["token"] != "token-abc" {
			t.Fatalf("unexpected token value: %s", req["token"])
		}

		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]any{
			"active": true,
			"principal": map[string]any{
				"client_id":              "client-1",
				"admin":                  false,
				"resolution_in_progress": true,
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, resilience.CircuitBreakerConfig{}, logging.NewNop())

	principal, err := client.Verify(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("verify token failed: %v", err)
	}
	if principal.ClientID != "client-1" {
		t.Fatalf("unexpected client id: %s", principal.ClientID)
	}
	if !principal.ResolutionInProgress {
		t.Fatalf("expected resolution flag set")
	}
}

func TestClientVerify_CachesHotTokens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]any{
			"active":    true,
			"principal": map[string]any{"client_id": "client-1"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, resilience.CircuitBreakerConfig{}, logging.NewNop())

	for i := 0; i < 3; i++ {
		if _, err := client.Verify(context.Background(), "token-hot"); err != nil {
			t.Fatalf("verify token failed: %v", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}

	if err := client.Revoke(context.Background(), "token-hot"); err != nil {
		t.Fatalf("revoke token failed: %v", err)
	}
	if _, err := client.Verify(context.Background(), "token-hot"); err != nil {
		t.Fatalf("verify after revoke failed: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("expected revoke to drop the cached entry, got %d upstream calls", got)
	}
}

func TestClientVerify_InactiveToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]any{"active": false})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, resilience.CircuitBreakerConfig{}, logging.NewNop())

	_, err := client.Verify(context.Background(), "token-dead")
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClientVerify_UpstreamDown(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, resilience.CircuitBreakerConfig{}, logging.NewNop())

	_, err := client.Verify(context.Background(), "token-abc")
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestClientIssue_ReturnsToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/sessions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(map[string]string{"token": "issued-1"})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, resilience.CircuitBreakerConfig{}, logging.NewNop())

	token, err := client.Issue(context.Background(), session.Principal{ClientID: "client-1"})
	if err != nil {
		t.Fatalf("issue session failed: %v", err)
	}
	if token != "issued-1" {
		t.Fatalf("unexpected token: %s", token)
	}
}
