// Package handler exposes blood request submission over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/bloodrequest/domain"
	"nss-bloodbank/backend/internal/bloodrequest/service"
	"nss-bloodbank/backend/internal/platform/httpjson"
	"nss-bloodbank/backend/internal/platform/validate"
	"nss-bloodbank/backend/internal/server/middleware"
)

// Submitter is the part of *service.Service used by the handler.
type Submitter interface {
	Submit(ctx context.Context, form service.Form, userID string) (*service.Acknowledgment, error)
	Recent(ctx context.Context, limit int) ([]*domain.Request, error)
}

type Handler struct {
	svc    Submitter
	logger *zap.Logger
}

// New returns a Handler. A nil logger is replaced with zap.NewNop.
func New(svc Submitter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// Submit handles POST /api/requests.
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
		h.logger.Warn("bloodrequest: submission abandoned", zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.Error("bloodrequest: submit failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// List handles GET /api/admin/requests?limit=N.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	reqs, err := h.svc.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("bloodrequest: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if reqs == nil {
		reqs = []*domain.Request{}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"requests": reqs})
}
