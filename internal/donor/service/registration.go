// Package service runs the three-step donor registration wizard.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/donor/domain"
	"nss-bloodbank/backend/internal/donor/repository"
	"nss-bloodbank/backend/internal/otp"
	"nss-bloodbank/backend/internal/platform/validate"
	"nss-bloodbank/backend/internal/telemetry"
	telemetrydomain "nss-bloodbank/backend/internal/telemetry/domain"
)

var (
	// ErrPhoneNotVerified is returned when the phone number has not passed OTP verification.
	ErrPhoneNotVerified = errors.New("phone number not verified")
	// ErrAlreadyRegistered is returned when the email or phone belongs to an existing donor.
	ErrAlreadyRegistered = errors.New("donor already registered")
	// ErrInvalidStep is returned for step numbers outside 1..LastStep.
	ErrInvalidStep = errors.New("invalid registration step")
)

// LastStep is the number of wizard steps.
const LastStep = 3

// Form is everything the wizard collects.
type Form struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Age              int    `json:"age"`
	BloodGroup       string `json:"blood_group"`
	Country          string `json:"country"`
	State            string `json:"state"`
	City             string `json:"city"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergency_contact"`
	EmergencyPhone   string `json:"emergency_phone"`
	MedicalHistory   string `json:"medical_history"`
	AgreeToTerms     bool   `json:"agree_to_terms"`
}

// Normalize trims every text field, lower-cases the email and upper-cases the blood group.
func (f Form) Normalize() Form {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.BloodGroup = strings.ToUpper(strings.TrimSpace(f.BloodGroup))
	f.Country = strings.TrimSpace(f.Country)
	if f.Country == "" {
		f.Country = domain.DefaultCountry
	}
	f.State = strings.TrimSpace(f.State)
	f.City = strings.TrimSpace(f.City)
	f.Address = strings.TrimSpace(f.Address)
	f.EmergencyContact = strings.TrimSpace(f.EmergencyContact)
	f.EmergencyPhone = strings.TrimSpace(f.EmergencyPhone)
	f.MedicalHistory = strings.TrimSpace(f.MedicalHistory)
	return f
}

// ValidateStep checks the fields collected on one step. Errors wrap validate.ErrInvalid.
// Phone verification is not part of this check.
func (f Form) ValidateStep(step int) error {
	switch step {
	case 1:
		if err := validate.First(
			validate.Required("name", f.Name),
			validate.Email("email", f.Email),
			validate.Phone("phone", f.Phone),
		); err != nil {
			return err
		}
		if f.Age < domain.MinAge || f.Age > domain.MaxAge {
			return validate.Fail("age", "age must be between 18 and 65")
		}
		return nil
	case 2:
		if !domain.ValidBloodGroup(f.BloodGroup) {
			return validate.Fail("blood_group", "blood group must be one of "+strings.Join(domain.BloodGroups, ", "))
		}
		if err := validate.First(
			validate.Required("state", f.State),
			validate.Required("city", f.City),
		); err != nil {
			return err
		}
		if f.EmergencyPhone != "" {
			return validate.Phone("emergency_phone", f.EmergencyPhone)
		}
		return nil
	case 3:
		if !f.AgreeToTerms {
			return validate.Fail("agree_to_terms", "you must agree to the terms and conditions")
		}
		return nil
	}
	return ErrInvalidStep
}

// PhoneVerifier is the part of *otp.Gate the wizard depends on.
type PhoneVerifier interface {
	IsVerified(target string) bool
	ConsumeVerified(target string) bool
}

// RegistrationService validates wizard steps and persists completed registrations.
type RegistrationService struct {
	repo     repository.Repository
	verifier PhoneVerifier
	emitter  telemetry.EventEmitter
	logger   *zap.Logger
	now      func() time.Time
}

// NewRegistrationService returns a RegistrationService. verifier nil skips the phone check;
// emitter may be nil.
func NewRegistrationService(repo repository.Repository, verifier PhoneVerifier, emitter telemetry.EventEmitter, logger *zap.Logger) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{repo: repo, verifier: verifier, emitter: emitter, logger: logger, now: time.Now}
}

// CheckStep validates the fields of step and every step before it, so the wizard cannot skip
// ahead. Step 1 additionally requires a verified phone.
func (s *RegistrationService) CheckStep(_ context.Context, step int, form Form) error {
	if step < 1 || step > LastStep {
		return ErrInvalidStep
	}
	form = form.Normalize()
	for i := 1; i <= step; i++ {
		if err := form.ValidateStep(i); err != nil {
			return err
		}
	}
	if s.verifier != nil && !s.verifier.IsVerified(form.Phone) {
		return ErrPhoneNotVerified
	}
	return nil
}

// Submit validates every step, consumes the phone verification and stores the donor.
// userID is the signed-in account, if any, and only travels on the emitted event.
func (s *RegistrationService) Submit(ctx context.Context, form Form, userID string) (*domain.Donor, error) {
	form = form.Normalize()
	for i := 1; i <= LastStep; i++ {
		if err := form.ValidateStep(i); err != nil {
			return nil, err
		}
	}
	if s.verifier != nil && !s.verifier.IsVerified(form.Phone) {
		return nil, ErrPhoneNotVerified
	}
	// Stored in the gate's canonical form so uniqueness holds across spellings.
	phone, _, err := otp.NormalizeTarget(form.Phone)
	if err != nil {
		return nil, validate.Fail("phone", "phone number is invalid")
	}

	d := &domain.Donor{
		ID:               uuid.New().String(),
		Name:             form.Name,
		Email:            form.Email,
		Phone:            phone,
		BloodGroup:       form.BloodGroup,
		Age:              form.Age,
		Address:          form.Address,
		City:             form.City,
		State:            form.State,
		Country:          form.Country,
		EmergencyContact: form.EmergencyContact,
		EmergencyPhone:   form.EmergencyPhone,
		MedicalHistory:   form.MedicalHistory,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicateDonor) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	if s.verifier != nil {
		s.verifier.ConsumeVerified(phone)
	}

	s.logger.Info("donor: registered",
		zap.String("donor_id", d.ID),
		zap.String("blood_group", d.BloodGroup),
		zap.String("phone", otp.MaskTarget(d.Phone)),
	)
	telemetry.EmitAsync(s.emitter, ctx, telemetry.NewEvent(telemetrydomain.EventDonorRegistered, "donor", userID, map[string]string{
		"donor_id":    d.ID,
		"blood_group": d.BloodGroup,
		"city":        d.City,
		"state":       d.State,
	}))
	return d, nil
}
