package notification

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
)

type recordingSender struct {
	mu     sync.Mutex
	phones []string
	fail   bool
}

func (s *recordingSender) SendSMS(_ context.Context, phone, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return fmt.Errorf("gateway down")
	}
	s.phones = append(s.phones, phone)
	return nil
}

func TestDispatcherDeliversAsync(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	dispatcher, err := NewDispatcher(sender, 2, logging.NewNop())
	if err != nil {
		t.Fatalf("create dispatcher: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := dispatcher.SendSMS(context.Background(), fmt.Sprintf("0912000000%d", i), "hi"); err != nil {
			t.Fatalf("queue send %d: %v", i, err)
		}
	}
	dispatcher.Close()

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.phones) != 5 {
		t.Fatalf("expected 5 deliveries, got %d", len(sender.phones))
	}
}

func TestDispatcherSwallowsDeliveryFailures(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{fail: true}
	dispatcher, err := NewDispatcher(sender, 1, logging.NewNop())
	if err != nil {
		t.Fatalf("create dispatcher: %v", err)
	}

	if err := dispatcher.SendSMS(context.Background(), "09120000001", "hi"); err != nil {
		t.Fatalf("queue send: %v", err)
	}
	dispatcher.Close()
}
