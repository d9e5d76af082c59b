package domain

import "time"

const (
	// HealthStatusOK indicates all dependencies are healthy.
	HealthStatusOK = "ok"
	// HealthStatusDegraded indicates a probe failed but the service keeps serving.
	HealthStatusDegraded = "degraded"
	// HealthStatusError indicates a probe timed out or was cancelled.
	HealthStatusError = "error"
)

// SystemHealthCheck describes the outcome of an individual readiness probe.
type SystemHealthCheck struct {
	Status    string
	Detail    string
	Error     string
	Latency   time.Duration
	CheckedAt time.Time
}

// SystemHealthReport aggregates probe results for the readiness endpoint.
type SystemHealthReport struct {
	Status      string
	Checks      map[string]SystemHealthCheck
	Version     string
	CommitSHA   string
	Environment string
	Uptime      time.Duration
	GeneratedAt time.Time
}
