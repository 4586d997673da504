package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/kiacoder/AirocupWebsite-sub000/internal/platform/logging"
)

const sendTimeout = 10 * time.Second

// Sender is the synchronous delivery half of the dispatcher.
type Sender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// Dispatcher fans SMS deliveries out over a bounded worker pool so
// request handlers never block on the gateway.
type Dispatcher struct {
	sender  Sender
	pool    *ants.Pool
	logger  *logging.Logger
	pending sync.WaitGroup
}

func NewDispatcher(sender Sender, workerCount int, logger *logging.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if workerCount <= 0 {
		workerCount = 4
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create notification worker pool: %w", err)
	}

	return &Dispatcher{
		sender: sender,
		pool:   pool,
		logger: logger,
	}, nil
}

// SendSMS queues the delivery and returns immediately. Delivery
// failures are logged, not surfaced: notifications are best effort
// and must never fail the operation that triggered them.
func (d *Dispatcher) SendSMS(ctx context.Context, phone, message string) error {
	d.pending.Add(1)
	err := d.pool.Submit(func() {
		defer d.pending.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		defer cancel()

		if err := d.sender.SendSMS(sendCtx, phone, message); err != nil {
			d.logger.WarnContext(sendCtx, "sms delivery failed", "receptor", maskPhone(phone), "error", err)
		}
	})
	if err != nil {
		d.pending.Done()
		return fmt.Errorf("queue sms delivery: %w", err)
	}
	return nil
}

// Close waits for queued deliveries to drain and releases the pool.
func (d *Dispatcher) Close() {
	d.pending.Wait()
	d.pool.Release()
}
