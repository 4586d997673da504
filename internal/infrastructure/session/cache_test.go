package session

import (
	"testing"
	"time"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/domain/session"
)

func TestPrincipalCache_SetGet(t *testing.T) {
	t.Parallel()

	cache := newPrincipalCache(200*time.Millisecond, 10)
	cache.Set("k1", session.Principal{ClientID: "client-1"})

	principal, ok := cache.Get("k1")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if principal.ClientID != "client-1" {
		t.Fatalf("unexpected client id: %s", principal.ClientID)
	}
}

func TestPrincipalCache_Expired(t *testing.T) {
	t.Parallel()

	cache := newPrincipalCache(20*time.Millisecond, 10)
	cache.Set("k1", session.Principal{ClientID: "client-1"})
	time.Sleep(40 * time.Millisecond)

	if _, ok := cache.Get("k1"); ok {
		t.Fatalf("expected cache miss after expiry")
	}
}

func TestPrincipalCache_DeleteAndBound(t *testing.T) {
	t.Parallel()

	cache := newPrincipalCache(time.Minute, 2)
	cache.Set("k1", session.Principal{ClientID: "client-1"})
	cache.Set("k2", session.Principal{ClientID: "client-2"})
	cache.Set("k3", session.Principal{ClientID: "client-3"})

	if len(cache.entries) > 2 {
		t.Fatalf("cache exceeded max entries: %d", len(cache.entries))
	}

	cache.Delete("k3")
	if _, ok := cache.Get("k3"); ok {
		t.Fatalf("expected miss after delete")
	}
}
