package notification

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/resilience"
)

func TestGatewaySendSMS_PostsForm(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/api-key-1/sms/send.json" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("receptor"); got != "09123456789" {
			t.Fatalf("unexpected receptor: %s", got)
		}
		if got := r.PostForm.Get("sender"); got != "10004000" {
			t.Fatalf("unexpected sender: %s", got)
		}
		if got := r.PostForm.Get("message"); got != "hello there" {
			t.Fatalf("unexpected message: %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"return":{"status":200,"message":"ok"}}`))
	}))
	defer srv.Close()

	gateway := NewGateway(GatewayConfig{
		BaseURL: srv.URL,
		APIKey:  "api-key-1",
		Sender:  "10004000",
	}, logging.NewNop())
	gateway.client = srv.Client()

	if err := gateway.SendSMS(context.Background(), "09123456789", "hello there"); err != nil {
		t.Fatalf("send sms failed: %v", err)
	}
}

func TestGatewaySendSMS_RetryableStatusIsTransient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	gateway := NewGateway(GatewayConfig{BaseURL: srv.URL, APIKey: "k"}, logging.NewNop())
	gateway.client = srv.Client()

	err := gateway.SendSMS(context.Background(), "09123456789", "hello")
	if !errors.Is(err, errGatewayTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestGatewaySendSMS_GatewayLevelFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"return":{"status":411,"message":"invalid receptor"}}`))
	}))
	defer srv.Close()

	gateway := NewGateway(GatewayConfig{BaseURL: srv.URL, APIKey: "k"}, logging.NewNop())
	gateway.client = srv.Client()

	err := gateway.SendSMS(context.Background(), "09123456789", "hello")
	if err == nil {
		t.Fatalf("expected gateway-level failure")
	}
	if errors.Is(err, errGatewayTransient) {
		t.Fatalf("gateway rejection must not count as transient: %v", err)
	}
}

func TestGatewaySendSMS_OpenCircuitRejects(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	gateway := NewGateway(GatewayConfig{
		BaseURL: srv.URL,
		APIKey:  "k",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
		},
	}, logging.NewNop())
	gateway.client = srv.Client()

	for i := 0; i < 2; i++ {
		if err := gateway.SendSMS(context.Background(), "09123456789", "hello"); err == nil {
			t.Fatalf("expected failure on attempt %d", i)
		}
	}

	err := gateway.SendSMS(context.Background(), "09123456789", "hello")
	if err == nil || !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open-circuit rejection, got %v", err)
	}
}
