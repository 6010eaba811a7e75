package eventpublisher

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/feefines/internal/domain"
)

type stubSink struct {
	mu         sync.Mutex
	published  []*domain.Event
	errorsByID map[string]error
}

func (s *stubSink) Publish(ctx context.Context, event *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.errorsByID[event.ID]; err != nil {
		return err
	}
	s.published = append(s.published, event)
	return nil
}

func (s *stubSink) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.published))
	for _, e := range s.published {
		ids = append(ids, e.ID)
	}
	return ids
}

type countingRecorder struct {
	mu                        sync.Mutex
	published, failed, dropped int
}

func (r *countingRecorder) EventPublished(string) {
	r.mu.Lock()
	r.published++
	r.mu.Unlock()
}

func (r *countingRecorder) EventPublishFailed(string) {
	r.mu.Lock()
	r.failed++
	r.mu.Unlock()
}

func (r *countingRecorder) EventDropped() {
	r.mu.Lock()
	r.dropped++
	r.mu.Unlock()
}

func (r *countingRecorder) counts() (int, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.published, r.failed, r.dropped
}

func event(id string) *domain.Event {
	return &domain.Event{ID: id, EventType: domain.EventTypeBalanceChanged, AggregateID: "ff-1"}
}

func TestDispatcherDeliversInOrderAndDrainsOnStop(t *testing.T) {
	sink := &stubSink{}
	rec := &countingRecorder{}
	d := NewDispatcher(Config{Sink: sink, Recorder: rec, Logger: zerolog.Nop(), BufferSize: 8})

	for _, id := range []string{"evt-1", "evt-2", "evt-3"} {
		if err := d.Publish(context.Background(), event(id)); err != nil {
			t.Fatalf("publish returned error: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}

	got := strings.Join(sink.ids(), ",")
	if got != "evt-1,evt-2,evt-3" {
		t.Fatalf("expected all events delivered in order, got %s", got)
	}
	if published, _, _ := rec.counts(); published != 3 {
		t.Fatalf("expected 3 published, got %d", published)
	}
}

func TestDispatcherContinuesOnSinkError(t *testing.T) {
	sink := &stubSink{errorsByID: map[string]error{"evt-1": errors.New("broker down")}}
	rec := &countingRecorder{}
	d := NewDispatcher(Config{Sink: sink, Recorder: rec, Logger: zerolog.Nop()})

	_ = d.Publish(context.Background(), event("evt-1"))
	_ = d.Publish(context.Background(), event("evt-2"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = d.Run(ctx)

	if got := strings.Join(sink.ids(), ","); got != "evt-2" {
		t.Fatalf("expected only evt-2 delivered, got %s", got)
	}
	if published, failed, _ := rec.counts(); published != 1 || failed != 1 {
		t.Fatalf("expected 1 published and 1 failed, got %d/%d", published, failed)
	}
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	rec := &countingRecorder{}
	d := NewDispatcher(Config{Sink: &stubSink{}, Recorder: rec, Logger: zerolog.Nop(), BufferSize: 1})

	_ = d.Publish(context.Background(), event("evt-1"))
	if err := d.Publish(context.Background(), event("evt-2")); err != nil {
		t.Fatalf("a full queue must not fail the caller, got %v", err)
	}

	if _, _, dropped := rec.counts(); dropped != 1 {
		t.Fatalf("expected 1 dropped event, got %d", dropped)
	}
}

func TestDispatcherRunDeliversWhileRunning(t *testing.T) {
	sink := &stubSink{}
	d := NewDispatcher(Config{Sink: sink, Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	_ = d.Publish(context.Background(), event("evt-1"))

	deadline := time.After(time.Second)
	for len(sink.ids()) == 0 {
		select {
		case <-deadline:
			t.Fatal("event was not delivered")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop after cancel")
	}

	_ = d.Publish(context.Background(), event("evt-late"))
	if len(sink.ids()) != 1 {
		t.Fatalf("expected events after stop to be dropped, got %v", sink.ids())
	}
}

func TestLogPublisherWritesPayload(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(zerolog.New(&buf))

	err := p.Publish(context.Background(), &domain.Event{
		ID:        "evt-1",
		EventType: domain.EventTypeLoanClosed,
		Payload:   domain.LoanClosedEvent{LoanID: "loan-1", FeeFineID: "ff-1"},
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"loanId":"loan-1"`) || !strings.Contains(out, domain.EventTypeLoanClosed) {
		t.Fatalf("expected payload in log output, got %s", out)
	}
}
