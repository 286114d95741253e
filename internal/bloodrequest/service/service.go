// Package service accepts blood request submissions.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/bloodrequest/domain"
	"nss-bloodbank/backend/internal/bloodrequest/repository"
	donordomain "nss-bloodbank/backend/internal/donor/domain"
	"nss-bloodbank/backend/internal/platform/delay"
	"nss-bloodbank/backend/internal/platform/validate"
	"nss-bloodbank/backend/internal/telemetry"
	telemetrydomain "nss-bloodbank/backend/internal/telemetry/domain"
)

// DateLayout is the wire format of RequiredBy.
const DateLayout = "2006-01-02"

// Form is the blood request form. Units 0 and an empty urgency take the defaults 1 and medium.
type Form struct {
	PatientName    string `json:"patient_name"`
	BloodGroup     string `json:"blood_group"`
	Units          int    `json:"units"`
	Urgency        string `json:"urgency"`
	HospitalName   string `json:"hospital_name"`
	City           string `json:"city"`
	State          string `json:"state"`
	ContactPerson  string `json:"contact_person"`
	ContactPhone   string `json:"contact_phone"`
	RequiredBy     string `json:"required_by"`
	AdditionalInfo string `json:"additional_info"`
}

// Acknowledgment is returned for an accepted request.
type Acknowledgment struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Urgency     string    `json:"urgency"`
	SubmittedAt time.Time `json:"submitted_at"`
	Message     string    `json:"message"`
}

// Service validates, stores and announces blood requests.
type Service struct {
	repo    repository.Repository
	emitter telemetry.EventEmitter
	delay   time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// New returns a Service. submissionDelay simulates processing time before the request is stored.
func New(repo repository.Repository, emitter telemetry.EventEmitter, submissionDelay time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, emitter: emitter, delay: submissionDelay, logger: logger, now: time.Now}
}

func (f Form) normalize() Form {
	f.PatientName = strings.TrimSpace(f.PatientName)
	f.BloodGroup = strings.ToUpper(strings.TrimSpace(f.BloodGroup))
	if f.Units == 0 {
		f.Units = domain.MinUnits
	}
	f.Urgency = strings.ToLower(strings.TrimSpace(f.Urgency))
	if f.Urgency == "" {
		f.Urgency = domain.UrgencyMedium
	}
	f.HospitalName = strings.TrimSpace(f.HospitalName)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.ContactPerson = strings.TrimSpace(f.ContactPerson)
	f.ContactPhone = strings.TrimSpace(f.ContactPhone)
	f.RequiredBy = strings.TrimSpace(f.RequiredBy)
	f.AdditionalInfo = strings.TrimSpace(f.AdditionalInfo)
	return f
}

// validate returns the parsed RequiredBy date. today is the caller's current date at midnight UTC.
func (f Form) validate(today time.Time) (time.Time, error) {
	if err := validate.Required("patient_name", f.PatientName); err != nil {
		return time.Time{}, err
	}
	if !donordomain.ValidBloodGroup(f.BloodGroup) {
		return time.Time{}, validate.Fail("blood_group", "blood group must be one of "+strings.Join(donordomain.BloodGroups, ", "))
	}
	if f.Units < domain.MinUnits || f.Units > domain.MaxUnits {
		return time.Time{}, validate.Fail("units", fmt.Sprintf("units must be between %d and %d", domain.MinUnits, domain.MaxUnits))
	}
	if err := validate.First(
		validate.OneOf("urgency", f.Urgency, domain.Urgencies...),
		validate.Required("hospital_name", f.HospitalName),
		validate.Required("city", f.City),
		validate.Required("state", f.State),
		validate.Required("contact_person", f.ContactPerson),
		validate.Phone("contact_phone", f.ContactPhone),
		validate.Required("required_by", f.RequiredBy),
	); err != nil {
		return time.Time{}, err
	}
	by, err := time.Parse(DateLayout, f.RequiredBy)
	if err != nil {
		return time.Time{}, validate.Fail("required_by", "required_by must be a date (YYYY-MM-DD)")
	}
	if by.Before(today) {
		return time.Time{}, validate.Fail("required_by", "required_by must not be in the past")
	}
	return by, nil
}

// Submit validates the form, waits out the submission delay, stores the request and emits
// blood_request.submitted. A context that ends during the delay aborts the submission.
func (s *Service) Submit(ctx context.Context, form Form, userID string) (*Acknowledgment, error) {
	form = form.normalize()
	now := s.now().UTC()
	requiredBy, err := form.validate(now.Truncate(24 * time.Hour))
	if err != nil {
		return nil, err
	}
	if err := delay.Sleep(ctx, s.delay); err != nil {
		return nil, err
	}

	req := &domain.Request{
		ID:             uuid.New().String(),
		PatientName:    form.PatientName,
		BloodGroup:     form.BloodGroup,
		Units:          form.Units,
		Urgency:        form.Urgency,
		HospitalName:   form.HospitalName,
		City:           form.City,
		State:          form.State,
		ContactPerson:  form.ContactPerson,
		ContactPhone:   form.ContactPhone,
		RequiredBy:     requiredBy,
		AdditionalInfo: form.AdditionalInfo,
		Status:         domain.StatusOpen,
		CreatedAt:      now,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("store blood request: %w", err)
	}

	s.logger.Info("bloodrequest: submitted",
		zap.String("request_id", req.ID),
		zap.String("blood_group", req.BloodGroup),
		zap.String("urgency", req.Urgency),
		zap.Int("units", req.Units),
	)
	telemetry.EmitAsync(s.emitter, ctx, telemetry.NewEvent(telemetrydomain.EventBloodRequestSubmitted, "bloodrequest", userID, map[string]any{
		"request_id":  req.ID,
		"blood_group": req.BloodGroup,
		"units":       req.Units,
		"urgency":     req.Urgency,
		"city":        req.City,
	}))
	return &Acknowledgment{
		ID:          req.ID,
		Status:      req.Status,
		Urgency:     req.Urgency,
		SubmittedAt: now,
		Message:     "Blood request submitted successfully. We will contact you soon.",
	}, nil
}

// Recent returns the latest requests, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]*domain.Request, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}
