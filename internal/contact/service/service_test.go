package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"nss-bloodbank/backend/internal/contact/repository"
	"nss-bloodbank/backend/internal/platform/validate"
	telemetrydomain "nss-bloodbank/backend/internal/telemetry/domain"
)

type chanEmitter chan *telemetrydomain.Event

func (c chanEmitter) Emit(_ context.Context, ev *telemetrydomain.Event) error {
	c <- ev
	return nil
}

func validForm() Form {
	return Form{Name: "Priya", Email: "Priya@Example.com", Subject: "Event-Info", Message: "When is the next camp?"}
}

func TestSubmit(t *testing.T) {
	repo := repository.NewMemoryRepository()
	events := make(chanEmitter, 1)
	svc := New(repo, events, 0, nil)

	ack, err := svc.Submit(context.Background(), validForm(), "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	msgs, _ := svc.Recent(context.Background(), 0)
	if len(msgs) != 1 || msgs[0].ID != ack.ID || msgs[0].Email != "priya@example.com" || msgs[0].Subject != "event-info" {
		t.Fatalf("stored = %+v", msgs)
	}
	select {
	case ev := <-events:
		if ev.Type != telemetrydomain.EventContactSubmitted {
			t.Errorf("event type = %q", ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("contact event not emitted")
	}
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
	}{
		{"missing name", func(f *Form) { f.Name = "" }},
		{"bad email", func(f *Form) { f.Email = "priya" }},
		{"unknown subject", func(f *Form) { f.Subject = "spam" }},
		{"empty message", func(f *Form) { f.Message = "  " }},
		{"bad phone", func(f *Form) { f.Phone = "abc" }},
		{"long message", func(f *Form) { f.Message = strings.Repeat("x", MaxMessageLength+1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(repository.NewMemoryRepository(), nil, 0, nil)
			f := validForm()
			tt.mutate(&f)
			if _, err := svc.Submit(context.Background(), f, ""); !errors.Is(err, validate.ErrInvalid) {
				t.Errorf("Submit = %v, want validation error", err)
			}
		})
	}
}

func TestSubmit_Cancelled(t *testing.T) {
	repo := repository.NewMemoryRepository()
	svc := New(repo, nil, time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Submit(ctx, validForm(), ""); !errors.Is(err, context.Canceled) {
		t.Fatalf("Submit = %v, want context.Canceled", err)
	}
	if msgs, _ := repo.ListRecent(context.Background(), 10); len(msgs) != 0 {
		t.Error("cancelled message was stored")
	}
}
