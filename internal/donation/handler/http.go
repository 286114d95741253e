// Package handler serves donation history and its statistics.
package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/donation/domain"
	"nss-bloodbank/backend/internal/donation/repository"
	"nss-bloodbank/backend/internal/donation/service"
	"nss-bloodbank/backend/internal/platform/httpjson"
)

type Handler struct {
	repo   repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

func New(repo repository.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger, now: time.Now}
}

type historyResponse struct {
	Period    domain.Period      `json:"period"`
	Donations []*domain.Donation `json:"donations"`
	Stats     domain.Stats       `json:"stats"`
}

// List handles GET /api/donations?period=week|month|year|all.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	period, err := domain.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	donations, stats, err := service.History(r.Context(), h.repo, period, h.now().UTC())
	if err != nil {
		h.logger.Error("donation: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, historyResponse{Period: period, Donations: donations, Stats: stats})
}
