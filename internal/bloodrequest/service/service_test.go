package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nss-bloodbank/backend/internal/bloodrequest/domain"
	"nss-bloodbank/backend/internal/bloodrequest/repository"
	"nss-bloodbank/backend/internal/platform/validate"
	telemetrydomain "nss-bloodbank/backend/internal/telemetry/domain"
)

type chanEmitter chan *telemetrydomain.Event

func (c chanEmitter) Emit(_ context.Context, ev *telemetrydomain.Event) error {
	c <- ev
	return nil
}

var fixedNow = time.Date(2024, time.February, 20, 15, 30, 0, 0, time.UTC)

func validForm() Form {
	return Form{
		PatientName:   "Sunil Verma",
		BloodGroup:    "o-",
		HospitalName:  "City Hospital",
		City:          "Allahabad",
		State:         "Uttar Pradesh",
		ContactPerson: "Anita Verma",
		ContactPhone:  "9876500000",
		RequiredBy:    "2024-02-20",
	}
}

func newService(emitter chanEmitter, d time.Duration) (*Service, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository()
	var svc *Service
	if emitter != nil {
		svc = New(repo, emitter, d, nil)
	} else {
		svc = New(repo, nil, d, nil)
	}
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func TestSubmit_DefaultsAndAcknowledgment(t *testing.T) {
	events := make(chanEmitter, 1)
	svc, repo := newService(events, 0)

	ack, err := svc.Submit(context.Background(), validForm(), "")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if ack.ID == "" || ack.Status != domain.StatusOpen || ack.Urgency != domain.UrgencyMedium {
		t.Errorf("ack = %+v", ack)
	}
	stored, _ := repo.ListRecent(context.Background(), 1)
	if len(stored) != 1 || stored[0].Units != 1 || stored[0].BloodGroup != "O-" {
		t.Fatalf("stored = %+v", stored)
	}
	select {
	case ev := <-events:
		if ev.Type != telemetrydomain.EventBloodRequestSubmitted {
			t.Errorf("event type = %q", ev.Type)
		}
	case <-time.After(time.Second):
		t.Fatal("blood_request.submitted not emitted")
	}
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
	}{
		{"missing patient", func(f *Form) { f.PatientName = "" }},
		{"unknown blood group", func(f *Form) { f.BloodGroup = "Z" }},
		{"too many units", func(f *Form) { f.Units = 11 }},
		{"negative units", func(f *Form) { f.Units = -1 }},
		{"unknown urgency", func(f *Form) { f.Urgency = "asap" }},
		{"missing hospital", func(f *Form) { f.HospitalName = " " }},
		{"bad phone", func(f *Form) { f.ContactPhone = "n/a" }},
		{"bad date", func(f *Form) { f.RequiredBy = "20/02/2024" }},
		{"past date", func(f *Form) { f.RequiredBy = "2024-02-19" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newService(nil, 0)
			f := validForm()
			tt.mutate(&f)
			if _, err := svc.Submit(context.Background(), f, ""); !errors.Is(err, validate.ErrInvalid) {
				t.Fatalf("Submit = %v, want validation error", err)
			}
			if n, _ := repo.CountByStatus(context.Background(), domain.StatusOpen); n != 0 {
				t.Error("invalid request was stored")
			}
		})
	}
}

func TestSubmit_DelayHonorsCancellation(t *testing.T) {
	svc, repo := newService(nil, time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := svc.Submit(ctx, validForm(), ""); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Submit = %v, want context.DeadlineExceeded", err)
	}
	if n, _ := repo.CountByStatus(context.Background(), domain.StatusOpen); n != 0 {
		t.Error("cancelled request was stored")
	}
}
