package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/devlink/bookings-api/internal/core/domain"
	"github.com/devlink/bookings-api/internal/core/ports"
)

// recordingService captures the order in which webhook events reach
// HandleWebhook, grouped by reference.
type recordingService struct {
	mu     sync.Mutex
	seen   map[string][]string
	total  int
	wg     sync.WaitGroup
	handle func(event ports.WebhookEvent) error
}

func newRecordingService() *recordingService {
	return &recordingService{seen: make(map[string][]string)}
}

func (s *recordingService) InitializePayment(_ context.Context, _ ports.InitializePaymentInput) (*ports.InitializePaymentResult, error) {
	panic("not used")
}

func (s *recordingService) VerifyPayment(_ context.Context, _ string) (*domain.Payment, error) {
	panic("not used")
}

func (s *recordingService) HandleWebhook(_ context.Context, event ports.WebhookEvent) error {
	defer s.wg.Done()
	if s.handle != nil {
		if err := s.handle(event); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.seen[event.Reference] = append(s.seen[event.Reference], event.Status)
	s.total++
	s.mu.Unlock()
	return nil
}

func TestDispatcher_DeliversAllEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := newRecordingService()
	d := NewDispatcher(4, svc, zerolog.Nop())
	d.Start(ctx)

	const events = 100
	svc.wg.Add(events)
	for i := 0; i < events; i++ {
		d.Enqueue(ports.WebhookEvent{
			Event:     "charge.success",
			Reference: fmt.Sprintf("DV-PAY-1-%d", i),
			Status:    "success",
		})
	}

	waitOrFail(t, &svc.wg)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.total != events {
		t.Fatalf("expected %d events handled, got %d", events, svc.total)
	}
}

func TestDispatcher_PerReferenceOrdering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc := newRecordingService()
	// Slow the handler down so out-of-order delivery would actually show up
	// if two workers ever shared a reference.
	svc.handle = func(ports.WebhookEvent) error {
		time.Sleep(time.Millisecond)
		return nil
	}
	d := NewDispatcher(4, svc, zerolog.Nop())
	d.Start(ctx)

	refs := []string{"DV-PAY-1-1", "DV-PAY-1-2", "DV-PAY-1-3"}
	statuses := []string{"pending", "failed", "success"}

	svc.wg.Add(len(refs) * len(statuses))
	for _, status := range statuses {
		for _, ref := range refs {
			d.Enqueue(ports.WebhookEvent{Reference: ref, Status: status})
		}
	}

	waitOrFail(t, &svc.wg)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	for _, ref := range refs {
		got := svc.seen[ref]
		if len(got) != len(statuses) {
			t.Fatalf("reference %s: expected %d deliveries, got %d", ref, len(statuses), len(got))
		}
		for i, status := range statuses {
			if got[i] != status {
				t.Fatalf("reference %s: delivery %d out of order: expected %s, got %s", ref, i, status, got[i])
			}
		}
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(8, newRecordingService(), zerolog.Nop())

	for i := 0; i < 50; i++ {
		ref := fmt.Sprintf("DV-PAY-1-%d", i)
		first := d.shardIndex(ref)
		for j := 0; j < 5; j++ {
			if got := d.shardIndex(ref); got != first {
				t.Fatalf("shard index for %s changed: %d vs %d", ref, first, got)
			}
		}
		if first < 0 || first >= 8 {
			t.Fatalf("shard index out of range: %d", first)
		}
	}
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for webhook deliveries")
	}
}
