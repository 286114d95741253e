// Package handler exposes donor search and registration over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/donor/domain"
	"nss-bloodbank/backend/internal/donor/repository"
	"nss-bloodbank/backend/internal/donor/service"
	"nss-bloodbank/backend/internal/platform/httpjson"
	"nss-bloodbank/backend/internal/platform/validate"
	"nss-bloodbank/backend/internal/server/middleware"
)

// Registrar is the part of *service.RegistrationService used by the handler.
type Registrar interface {
	CheckStep(ctx context.Context, step int, form service.Form) error
	Submit(ctx context.Context, form service.Form, userID string) (*domain.Donor, error)
}

// States offered by the registration form.
var States = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya", "Mizoram",
	"Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim", "Tamil Nadu",
	"Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand", "West Bengal",
}

// Handler serves /api/donors.
type Handler struct {
	repo      repository.Repository
	registrar Registrar
	logger    *zap.Logger
}

// New returns a Handler. A nil logger is replaced with zap.NewNop.
func New(repo repository.Repository, registrar Registrar, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, registrar: registrar, logger: logger}
}

type listResponse struct {
	Donors []*domain.Donor `json:"donors"`
	Total  int             `json:"total"`
	Filter domain.Filter   `json:"filter"`
}

type optionsResponse struct {
	BloodGroups []string `json:"blood_groups"`
	States      []string `json:"states"`
}

type stepRequest struct {
	Step int          `json:"step"`
	Form service.Form `json:"form"`
}

type stepResponse struct {
	Step     int  `json:"step"`
	Valid    bool `json:"valid"`
	NextStep int  `json:"next_step,omitempty"`
}

// List returns donors matching the search, blood_group, state and city query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.Filter{
		Search:     q.Get("search"),
		BloodGroup: q.Get("blood_group"),
		State:      q.Get("state"),
		City:       q.Get("city"),
	}
	donors, err := h.repo.List(r.Context(), f)
	if err != nil {
		h.logger.Error("donor: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if donors == nil {
		donors = []*domain.Donor{}
	}
	httpjson.Write(w, http.StatusOK, listResponse{Donors: donors, Total: len(donors), Filter: f})
}

// Options returns the select lists used by the search and registration forms.
func (h *Handler) Options(w http.ResponseWriter, _ *http.Request) {
	httpjson.Write(w, http.StatusOK, optionsResponse{BloodGroups: domain.BloodGroups, States: States})
}

// CheckStep validates one wizard step so the client can advance.
func (h *Handler) CheckStep(w http.ResponseWriter, r *http.Request) {
	var req stepRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.registrar.CheckStep(r.Context(), req.Step, req.Form); err != nil {
		h.writeError(w, err)
		return
	}
	resp := stepResponse{Step: req.Step, Valid: true}
	if req.Step < service.LastStep {
		resp.NextStep = req.Step + 1
	}
	httpjson.Write(w, http.StatusOK, resp)
}

// Register submits the completed wizard.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var form service.Form
	if err := httpjson.Decode(r, &form); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.registrar.Submit(r.Context(), form, middleware.UserID(r.Context()))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, d)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, validate.ErrInvalid), errors.Is(err, service.ErrInvalidStep):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrPhoneNotVerified):
		httpjson.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrAlreadyRegistered):
		httpjson.Error(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("donor: registration failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
