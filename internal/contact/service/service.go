// Package service accepts contact form submissions.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/contact/domain"
	"nss-bloodbank/backend/internal/contact/repository"
	"nss-bloodbank/backend/internal/platform/delay"
	"nss-bloodbank/backend/internal/platform/validate"
	"nss-bloodbank/backend/internal/telemetry"
	telemetrydomain "nss-bloodbank/backend/internal/telemetry/domain"
)

// MaxMessageLength bounds the message body in bytes.
const MaxMessageLength = 5000

// Form is the contact form. Phone is optional.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Acknowledgment is returned for an accepted message.
type Acknowledgment struct {
	ID          string    `json:"id"`
	SubmittedAt time.Time `json:"submitted_at"`
	Message     string    `json:"message"`
}

type Service struct {
	repo    repository.Repository
	emitter telemetry.EventEmitter
	delay   time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// New returns a Service. submissionDelay simulates processing time before the message is stored.
func New(repo repository.Repository, emitter telemetry.EventEmitter, submissionDelay time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, emitter: emitter, delay: submissionDelay, logger: logger, now: time.Now}
}

func (f Form) validate() error {
	if err := validate.First(
		validate.Required("name", f.Name),
		validate.Email("email", f.Email),
		validate.OneOf("subject", f.Subject, domain.Subjects...),
		validate.Required("message", f.Message),
	); err != nil {
		return err
	}
	if f.Phone != "" {
		if err := validate.Phone("phone", f.Phone); err != nil {
			return err
		}
	}
	if len(f.Message) > MaxMessageLength {
		return validate.Fail("message", fmt.Sprintf("message must be at most %d characters", MaxMessageLength))
	}
	return nil
}

// Submit validates and stores the message, then emits contact.submitted.
func (s *Service) Submit(ctx context.Context, form Form, userID string) (*Acknowledgment, error) {
	form = Form{
		Name:    strings.TrimSpace(form.Name),
		Email:   strings.ToLower(strings.TrimSpace(form.Email)),
		Phone:   strings.TrimSpace(form.Phone),
		Subject: strings.ToLower(strings.TrimSpace(form.Subject)),
		Message: strings.TrimSpace(form.Message),
	}
	if err := form.validate(); err != nil {
		return nil, err
	}
	if err := delay.Sleep(ctx, s.delay); err != nil {
		return nil, err
	}

	m := &domain.Message{
		ID:        uuid.New().String(),
		Name:      form.Name,
		Email:     form.Email,
		Phone:     form.Phone,
		Subject:   form.Subject,
		Message:   form.Message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}
	s.logger.Info("contact: message received", zap.String("message_id", m.ID), zap.String("subject", m.Subject))
	telemetry.EmitAsync(s.emitter, ctx, telemetry.NewEvent(telemetrydomain.EventContactSubmitted, "contact", userID, map[string]string{
		"message_id": m.ID,
		"subject":    m.Subject,
	}))
	return &Acknowledgment{
		ID:          m.ID,
		SubmittedAt: m.CreatedAt,
		Message:     "Thank you for your message. We will get back to you soon!",
	}, nil
}

// Recent returns the latest messages, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListRecent(ctx, limit)
}
