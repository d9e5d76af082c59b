package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/evcomfg/invoice-backend/internal/domain"
	"github.com/evcomfg/invoice-backend/internal/platform/httpx"
	"github.com/evcomfg/invoice-backend/internal/services"
)

// HealthHandlers serves liveness and readiness probes.
type HealthHandlers struct {
	build  services.BuildInfo
	clock  func() time.Time
	health services.HealthService
}

// HealthOption customises HealthHandlers.
type HealthOption func(*HealthHandlers)

// WithHealthBuildInfo sets the build metadata reported by /healthz.
func WithHealthBuildInfo(info services.BuildInfo) HealthOption {
	return func(h *HealthHandlers) {
		h.build = info
	}
}

// WithHealthClock overrides the clock, primarily for tests.
func WithHealthClock(clock func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// WithHealthService wires the readiness probes behind /readyz.
func WithHealthService(svc services.HealthService) HealthOption {
	return func(h *HealthHandlers) {
		h.health = svc
	}
}

// NewHealthHandlers constructs health handlers. Without a health service /readyz reports ok.
func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	if h.build.StartedAt.IsZero() {
		h.build.StartedAt = h.clock()
	}
	return h
}

type healthResponse struct {
	Status      string `json:"status"`
	Version     string `json:"version,omitempty"`
	CommitSHA   string `json:"commitSha,omitempty"`
	Environment string `json:"environment,omitempty"`
	Uptime      string `json:"uptime"`
	Timestamp   string `json:"timestamp"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	LatencyMS int64  `json:"latencyMs"`
	CheckedAt string `json:"checkedAt,omitempty"`
}

type readinessResponse struct {
	Status    string                    `json:"status"`
	Checks    map[string]readinessCheck `json:"checks"`
	Details   []string                  `json:"details,omitempty"`
	Uptime    string                    `json:"uptime,omitempty"`
	Timestamp string                    `json:"timestamp"`
}

// Healthz reports process liveness and build metadata.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	now := h.clock().UTC()
	httpx.WriteJSON(w, http.StatusOK, healthResponse{
		Status:      domain.HealthStatusOK,
		Version:     h.build.Version,
		CommitSHA:   h.build.CommitSHA,
		Environment: h.build.Environment,
		Uptime:      now.Sub(h.build.StartedAt).Round(time.Second).String(),
		Timestamp:   now.Format(time.RFC3339),
	})
}

// Readyz runs the readiness probes and answers 503 unless every probe passed.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	now := h.clock().UTC()
	if h.health == nil {
		httpx.WriteJSON(w, http.StatusOK, readinessResponse{
			Status:    domain.HealthStatusOK,
			Checks:    map[string]readinessCheck{},
			Timestamp: now.Format(time.RFC3339),
		})
		return
	}

	report, err := h.health.HealthReport(r.Context())
	if err != nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, readinessResponse{
			Status:    domain.HealthStatusError,
			Checks:    map[string]readinessCheck{},
			Details:   []string{err.Error()},
			Timestamp: now.Format(time.RFC3339),
		})
		return
	}

	resp := readinessResponse{
		Status:    report.Status,
		Checks:    make(map[string]readinessCheck, len(report.Checks)),
		Timestamp: now.Format(time.RFC3339),
	}
	if report.Uptime > 0 {
		resp.Uptime = report.Uptime.Round(time.Second).String()
	}
	names := make([]string, 0, len(report.Checks))
	for name := range report.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		check := report.Checks[name]
		rc := readinessCheck{
			Status:    check.Status,
			Detail:    check.Detail,
			LatencyMS: check.Latency.Milliseconds(),
		}
		if !check.CheckedAt.IsZero() {
			rc.CheckedAt = check.CheckedAt.UTC().Format(time.RFC3339)
		}
		resp.Checks[name] = rc
		if check.Error != "" {
			resp.Details = append(resp.Details, fmt.Sprintf("%s: %s", name, check.Error))
		}
	}

	status := http.StatusOK
	if report.Status != domain.HealthStatusOK {
		status = http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, status, resp)
}
