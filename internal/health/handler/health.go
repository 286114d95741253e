// Package handler reports readiness over HTTP (/healthz) and the standard gRPC health service.
package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"nss-bloodbank/backend/internal/platform/httpjson"
)

// Pinger checks database reachability (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker checks that the route guard policy still evaluates (e.g. *guard.PolicyGuard).
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// CheckTimeout bounds one readiness probe.
const CheckTimeout = 2 * time.Second

// Checker probes the optional dependencies. A nil dependency is reported as skipped.
type Checker struct {
	db     Pinger
	policy PolicyChecker
	logger *zap.Logger
}

// NewChecker returns a Checker. Pass untyped nil for absent dependencies.
func NewChecker(db Pinger, policy PolicyChecker, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{db: db, policy: policy, logger: logger}
}

// Report is the /healthz body.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Check runs every probe and reports whether all passed.
func (c *Checker) Check(ctx context.Context) (Report, bool) {
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	rep := Report{Status: "ok", Checks: map[string]string{"database": "skipped", "policy": "skipped"}}
	healthy := true
	if c.db != nil {
		rep.Checks["database"] = "ok"
		if err := c.db.PingContext(ctx); err != nil {
			c.logger.Warn("health: database ping failed", zap.Error(err))
			rep.Checks["database"] = "unavailable"
			healthy = false
		}
	}
	if c.policy != nil {
		rep.Checks["policy"] = "ok"
		if err := c.policy.HealthCheck(ctx); err != nil {
			c.logger.Warn("health: policy check failed", zap.Error(err))
			rep.Checks["policy"] = "unavailable"
			healthy = false
		}
	}
	if !healthy {
		rep.Status = "unavailable"
	}
	return rep, healthy
}

// ServeHTTP answers 200 when every probe passes and 503 otherwise.
func (c *Checker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rep, ok := c.Check(r.Context())
	status := http.StatusOK
	if !ok {
		status = http.StatusServiceUnavailable
	}
	httpjson.Write(w, status, rep)
}

// Sync updates hs from Check every interval until ctx is done. The overall service ("") is
// marked SERVING or NOT_SERVING.
func (c *Checker) Sync(ctx context.Context, hs *health.Server, interval time.Duration) {
	update := func() {
		st := healthpb.HealthCheckResponse_SERVING
		if _, ok := c.Check(ctx); !ok {
			st = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus("", st)
	}
	update()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-t.C:
			update()
		}
	}
}
