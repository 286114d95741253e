// Package handler serves the event listing.
package handler

import (
	"net/http"

	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/event/domain"
	"nss-bloodbank/backend/internal/event/repository"
	"nss-bloodbank/backend/internal/platform/httpjson"
)

type Handler struct {
	repo   repository.Repository
	logger *zap.Logger
}

func New(repo repository.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// eventView adds the computed registration progress.
type eventView struct {
	*domain.Event
	Progress float64 `json:"progress"`
}

// List handles GET /api/events?category=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	events, err := h.repo.List(r.Context(), category)
	if err != nil {
		h.logger.Error("event: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, eventView{Event: e, Progress: e.Progress()})
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"events": views})
}
