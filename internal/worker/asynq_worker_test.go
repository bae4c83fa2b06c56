package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/onlinestore/internal/config"
	"github.com/onlinestore/internal/queue"
	"github.com/onlinestore/internal/service"

	"github.com/hibiken/asynq"
)

type fakeSender struct {
	err      error
	orderIDs []uint
	requests []string
}

func (f *fakeSender) SendOrderConfirmation(_ context.Context, orderID uint, requestID string) error {
	f.orderIDs = append(f.orderIDs, orderID)
	f.requests = append(f.requests, requestID)
	return f.err
}

func newConfirmationTask(t *testing.T, orderID uint) *asynq.Task {
	t.Helper()
	task, err := queue.NewOrderConfirmationEmailTask(queue.OrderConfirmationEmailPayload{OrderID: orderID, RequestID: "req-1"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	return task
}

func TestHandleOrderConfirmationEmailSends(t *testing.T) {
	sender := &fakeSender{}
	consumer := &Consumer{notifier: sender}

	if err := consumer.handleOrderConfirmationEmail(context.Background(), newConfirmationTask(t, 42)); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(sender.orderIDs) != 1 || sender.orderIDs[0] != 42 || sender.requests[0] != "req-1" {
		t.Fatalf("unexpected calls: %v %v", sender.orderIDs, sender.requests)
	}
}

func TestHandleOrderConfirmationEmailErrors(t *testing.T) {
	cases := []struct {
		name      string
		sendErr   error
		wantRetry bool
	}{
		{"order gone", service.ErrNotFound, false},
		{"recipient rejected", service.ErrEmailRecipientRejected, false},
		{"smtp down", errors.New("dial tcp: refused"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			consumer := &Consumer{notifier: &fakeSender{err: tc.sendErr}}
			err := consumer.handleOrderConfirmationEmail(context.Background(), newConfirmationTask(t, 7))
			if tc.wantRetry && err == nil {
				t.Fatalf("expected error for retry")
			}
			if !tc.wantRetry && err != nil {
				t.Fatalf("expected no retry, got %v", err)
			}
		})
	}
}

func TestHandleOrderConfirmationEmailInvalidPayloadSkipsRetry(t *testing.T) {
	consumer := &Consumer{notifier: &fakeSender{}}
	err := consumer.handleOrderConfirmationEmail(context.Background(), asynq.NewTask(queue.TaskOrderConfirmationEmail, []byte("{bad")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected skip retry, got %v", err)
	}
}

type countingPurger struct {
	mu    sync.Mutex
	calls int
	last  time.Duration
}

func (p *countingPurger) PurgeStaleRefreshTokens(retention time.Duration) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.last = retention
	return 1, nil
}

func (p *countingPurger) snapshot() (int, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls, p.last
}

func TestNewPurgeServiceDefaults(t *testing.T) {
	svc := NewPurgeService(nil, &countingPurger{})
	if svc.interval != defaultPurgeInterval || svc.retention != defaultPurgeRetention {
		t.Fatalf("unexpected defaults: %v %v", svc.interval, svc.retention)
	}
	svc = NewPurgeService(&config.QueueConfig{RefreshTokenPurgeMinutes: 5, RefreshTokenRetentionDays: 2}, &countingPurger{})
	if svc.interval != 5*time.Minute || svc.retention != 48*time.Hour {
		t.Fatalf("unexpected configured values: %v %v", svc.interval, svc.retention)
	}
}

func TestPurgeServiceRunsUntilCancelled(t *testing.T) {
	purger := &countingPurger{}
	svc := &PurgeService{purger: purger, interval: 10 * time.Millisecond, retention: time.Hour}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("purge loop did not stop")
	}
	calls, retention := purger.snapshot()
	if calls < 2 {
		t.Fatalf("expected repeated purges, got %d", calls)
	}
	if retention != time.Hour {
		t.Fatalf("unexpected retention: %v", retention)
	}
}
