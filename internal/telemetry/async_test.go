package telemetry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"nss-bloodbank/backend/internal/telemetry/domain"
)

// mockEventEmitter implements EventEmitter for tests.
type mockEventEmitter struct {
	mu      sync.Mutex
	events  []*domain.Event
	emitErr error
	done    chan struct{}
}

func (m *mockEventEmitter) Emit(ctx context.Context, event *domain.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	if m.done != nil {
		m.done <- struct{}{}
	}
	return m.emitErr
}

func (m *mockEventEmitter) getEvents() []*domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}

func TestEmitAsync_NilEmitter(t *testing.T) {
	// Should not panic
	EmitAsync(nil, context.Background(), &domain.Event{Type: "test"})
}

func TestEmitAsync_NilEvent(t *testing.T) {
	emitter := &mockEventEmitter{}
	EmitAsync(emitter, context.Background(), nil)

	time.Sleep(10 * time.Millisecond)
	if n := len(emitter.getEvents()); n != 0 {
		t.Errorf("expected 0 events, got %d", n)
	}
}

func TestEmitAsync_SuccessfulEmit(t *testing.T) {
	emitter := &mockEventEmitter{done: make(chan struct{}, 1)}
	event := NewEvent(domain.EventDonorRegistered, "test", "user-1", map[string]string{"blood_group": "O+"})

	EmitAsync(emitter, context.Background(), event)

	select {
	case <-emitter.done:
	case <-time.After(time.Second):
		t.Fatal("emit did not run")
	}
	events := emitter.getEvents()
	if len(events) != 1 || events[0].Type != domain.EventDonorRegistered {
		t.Fatalf("events = %v", events)
	}
}

func TestEmitAsync_CancelledRequestContextStillEmits(t *testing.T) {
	emitter := &mockEventEmitter{done: make(chan struct{}, 1)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	EmitAsync(emitter, ctx, NewEvent("test", "test", "", nil))

	select {
	case <-emitter.done:
	case <-time.After(time.Second):
		t.Fatal("emit should not be aborted by request cancellation")
	}
}

func TestMulti_JoinsErrors(t *testing.T) {
	ok := &mockEventEmitter{}
	bad := &mockEventEmitter{emitErr: errors.New("kafka down")}
	m := Multi{ok, nil, bad}

	err := m.Emit(context.Background(), NewEvent("test", "test", "", nil))
	if err == nil || err.Error() != "kafka down" {
		t.Errorf("err = %v, want kafka down", err)
	}
	if len(ok.getEvents()) != 1 || len(bad.getEvents()) != 1 {
		t.Error("every emitter should receive the event")
	}
}

func TestNewEvent_Metadata(t *testing.T) {
	ev := NewEvent("x", "src", "", map[string]int{"units": 2})
	if string(ev.Metadata) != `{"units":2}` {
		t.Errorf("metadata = %s", ev.Metadata)
	}
	if ev.ID == "" || ev.CreatedAt.IsZero() {
		t.Error("ID and CreatedAt should be set")
	}
	if NewEvent("x", "src", "", nil).Metadata != nil {
		t.Error("nil metadata should stay empty")
	}
}
