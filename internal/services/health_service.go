package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/evcomfg/invoice-backend/internal/domain"
)

const defaultProbeTimeout = 1500 * time.Millisecond

// BuildInfo captures runtime metadata exposed via health endpoints.
type BuildInfo struct {
	Version     string
	CommitSHA   string
	Environment string
	StartedAt   time.Time
}

// ReadinessProbe is one named check run for /readyz.
type ReadinessProbe struct {
	Name    string
	Timeout time.Duration
	Check   func(context.Context) error
}

// HealthService reports readiness of the invoice pipeline.
type HealthService interface {
	HealthReport(ctx context.Context) (domain.SystemHealthReport, error)
}

// HealthServiceDeps bundles collaborators required to construct a health service.
type HealthServiceDeps struct {
	Probes         []ReadinessProbe
	DefaultTimeout time.Duration
	Clock          func() time.Time
	Build          BuildInfo
}

type healthService struct {
	probes         []ReadinessProbe
	defaultTimeout time.Duration
	clock          func() time.Time
	build          BuildInfo
}

var _ HealthService = (*healthService)(nil)

// NewHealthService validates the probe set and returns a service that runs every probe
// concurrently on each report.
func NewHealthService(deps HealthServiceDeps) (HealthService, error) {
	if len(deps.Probes) == 0 {
		return nil, errors.New("health service: at least one probe is required")
	}
	for _, probe := range deps.Probes {
		if strings.TrimSpace(probe.Name) == "" {
			return nil, errors.New("health service: probe missing name")
		}
		if probe.Check == nil {
			return nil, fmt.Errorf("health service: probe %s missing check function", probe.Name)
		}
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	timeout := deps.DefaultTimeout
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}

	build := deps.Build
	if build.StartedAt.IsZero() {
		build.StartedAt = clock()
	}

	probes := make([]ReadinessProbe, len(deps.Probes))
	copy(probes, deps.Probes)

	return &healthService{
		probes:         probes,
		defaultTimeout: timeout,
		clock: func() time.Time {
			return clock().UTC()
		},
		build: build,
	}, nil
}

func (s *healthService) HealthReport(ctx context.Context) (domain.SystemHealthReport, error) {
	if ctx == nil {
		return domain.SystemHealthReport{}, errors.New("health service: context is required")
	}

	results := make(map[string]domain.SystemHealthCheck, len(s.probes))
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	wg.Add(len(s.probes))
	for _, probe := range s.probes {
		probe := probe
		go func() {
			defer wg.Done()
			check := s.runProbe(ctx, probe)
			mu.Lock()
			results[probe.Name] = check
			mu.Unlock()
		}()
	}
	wg.Wait()

	now := s.clock()
	report := domain.SystemHealthReport{
		Status:      deriveStatus(results),
		Checks:      results,
		Version:     s.build.Version,
		CommitSHA:   s.build.CommitSHA,
		Environment: s.build.Environment,
		GeneratedAt: now,
	}
	if !s.build.StartedAt.IsZero() {
		report.Uptime = now.Sub(s.build.StartedAt)
	}
	return report, nil
}

func (s *healthService) runProbe(ctx context.Context, probe ReadinessProbe) domain.SystemHealthCheck {
	timeout := probe.Timeout
	if timeout <= 0 {
		timeout = s.defaultTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := s.clock()
	err := probe.Check(probeCtx)
	end := s.clock()

	check := domain.SystemHealthCheck{
		Status:    domain.HealthStatusOK,
		Detail:    "ok",
		Latency:   end.Sub(start),
		CheckedAt: end,
	}
	if err == nil && probeCtx.Err() != nil {
		err = probeCtx.Err()
	}
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		check.Status = domain.HealthStatusError
		check.Detail = "cancelled"
		check.Error = err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		check.Status = domain.HealthStatusError
		check.Detail = "timeout"
		check.Error = err.Error()
	default:
		check.Status = domain.HealthStatusDegraded
		check.Detail = err.Error()
		check.Error = err.Error()
	}
	return check
}

func deriveStatus(checks map[string]domain.SystemHealthCheck) string {
	status := domain.HealthStatusOK
	for _, check := range checks {
		switch check.Status {
		case domain.HealthStatusOK, "":
			continue
		case domain.HealthStatusError:
			return domain.HealthStatusError
		default:
			status = domain.HealthStatusDegraded
		}
	}
	return status
}
