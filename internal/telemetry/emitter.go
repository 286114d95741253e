package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"nss-bloodbank/backend/internal/telemetry/domain"
)

// EventEmitter emits telemetry events (e.g. to Kafka or OTel Logs). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event *domain.Event) error
}

// Multi fans an event out to every non-nil emitter and joins their errors.
type Multi []EventEmitter

func (m Multi) Emit(ctx context.Context, event *domain.Event) error {
	var errs []error
	for _, e := range m {
		if e == nil {
			continue
		}
		if err := e.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewEvent builds an event with a fresh ID and the current time. metadata is marshaled to JSON;
// a marshal failure leaves Metadata empty.
func NewEvent(eventType, source, userID string, metadata any) *domain.Event {
	ev := &domain.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    source,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	if metadata != nil {
		if raw, err := json.Marshal(metadata); err == nil {
			ev.Metadata = raw
		}
	}
	return ev
}
