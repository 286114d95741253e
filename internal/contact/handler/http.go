// Package handler exposes the contact form over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/contact/domain"
	"nss-bloodbank/backend/internal/contact/service"
	"nss-bloodbank/backend/internal/platform/httpjson"
	"nss-bloodbank/backend/internal/platform/validate"
	"nss-bloodbank/backend/internal/server/middleware"
)

// Submitter is the part of *service.Service used by the handler.
type Submitter interface {
	Submit(ctx context.Context, form service.Form, userID string) (*service.Acknowledgment, error)
	Recent(ctx context.Context, limit int) ([]*domain.Message, error)
}

type Handler struct {
	svc    Submitter
	logger *zap.Logger
}

func New(svc Submitter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Submit handles POST /api/contact.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var form service.Form
	if err := httpjson.Decode(r, &form); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	ack, err := h.svc.Submit(r.Context(), form, middleware.UserID(r.Context()))
	switch {
	case err == nil:
		httpjson.Write(w, http.StatusCreated, ack)
	case errors.Is(err, validate.ErrInvalid):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		httpjson.Error(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.Error("contact: submit failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// Subjects handles GET /api/contact/subjects.
func (h *Handler) Subjects(w http.ResponseWriter, _ *http.Request) {
	httpjson.Write(w, http.StatusOK, map[string][]string{"subjects": domain.Subjects})
}

// List handles GET /api/admin/messages?limit=N.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	msgs, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("contact: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if msgs == nil {
		msgs = []*domain.Message{}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"messages": msgs})
}
