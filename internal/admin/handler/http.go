// Package handler serves the admin dashboard. Routes are mounted behind guard.RequireAdmin.
package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	auditdomain "nss-bloodbank/backend/internal/audit/domain"
	auditrepo "nss-bloodbank/backend/internal/audit/repository"
	requestdomain "nss-bloodbank/backend/internal/bloodrequest/domain"
	donationdomain "nss-bloodbank/backend/internal/donation/domain"
	donationrepo "nss-bloodbank/backend/internal/donation/repository"
	donationservice "nss-bloodbank/backend/internal/donation/service"
	eventdomain "nss-bloodbank/backend/internal/event/domain"
	"nss-bloodbank/backend/internal/platform/httpjson"
)

// Counter counts every row of one kind.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// StatusCounter counts rows in one status.
type StatusCounter interface {
	CountByStatus(ctx context.Context, status string) (int, error)
}

// Sources are the repositories the dashboard reads. Users may be nil.
type Sources struct {
	Donors    Counter
	Users     Counter
	Requests  StatusCounter
	Events    StatusCounter
	Donations donationrepo.Repository
	Audit     auditrepo.Repository
}

// Dashboard is the admin overview.
type Dashboard struct {
	TotalDonors        int                  `json:"total_donors"`
	RegisteredUsers    *int                 `json:"registered_users,omitempty"`
	ActiveRequests     int                  `json:"active_requests"`
	UpcomingEvents     int                  `json:"upcoming_events"`
	DonationsThisMonth int                  `json:"donations_this_month"`
	DonationStats      donationdomain.Stats `json:"donation_stats"`
	GeneratedAt        time.Time            `json:"generated_at"`
}

// Handler serves /api/admin/*.
type Handler struct {
	src    Sources
	logger *zap.Logger
	now    func() time.Time
}

// New returns a Handler. A nil logger is replaced with zap.NewNop.
func New(src Sources, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{src: src, logger: logger, now: time.Now}
}

// Stats gathers the dashboard counters. The first failing source aborts the call.
func (h *Handler) Stats(ctx context.Context) (*Dashboard, error) {
	now := h.now().UTC()
	d := &Dashboard{GeneratedAt: now}
	var err error
	if d.TotalDonors, err = h.src.Donors.Count(ctx); err != nil {
		return nil, err
	}
	if h.src.Users != nil {
		n, err := h.src.Users.Count(ctx)
		if err != nil {
			return nil, err
		}
		d.RegisteredUsers = &n
	}
	if d.ActiveRequests, err = h.src.Requests.CountByStatus(ctx, requestdomain.StatusOpen); err != nil {
		return nil, err
	}
	if d.UpcomingEvents, err = h.src.Events.CountByStatus(ctx, eventdomain.StatusUpcoming); err != nil {
		return nil, err
	}
	month, _, err := donationservice.History(ctx, h.src.Donations, donationdomain.PeriodMonth, now)
	if err != nil {
		return nil, err
	}
	d.DonationsThisMonth = len(month)
	_, d.DonationStats, err = donationservice.History(ctx, h.src.Donations, donationdomain.PeriodAll, now)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// GetDashboard handles GET /api/admin/dashboard.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Stats(r.Context())
	if err != nil {
		h.logger.Error("admin: dashboard failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, d)
}

// ListAudit handles GET /api/admin/audit?limit=N&offset=M. limit defaults to 50 and is capped at 500.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = 50
	}
	limit = min(limit, 500)
	offset, _ := strconv.Atoi(q.Get("offset"))
	offset = max(offset, 0)

	entries, err := h.src.Audit.ListRecent(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("admin: audit list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if entries == nil {
		entries = []*auditdomain.AuditLog{}
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"entries": entries, "limit": limit, "offset": offset})
}
