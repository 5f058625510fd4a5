// Package health aggregates named checks into a report and mirrors the
// overall status into the standard gRPC health service.
package health

import (
	"context"
	"sort"
	"sync"
	"time"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Status is the outcome of a check or of a whole report
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// rank orders statuses from best to worst
func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	case StatusUnhealthy:
		return 3
	default:
		return 2
	}
}

// CheckResult is the outcome of one check. Name, Duration and Timestamp are
// filled in by the registry.
type CheckResult struct {
	Name      string         `json:"name"`
	Status    Status         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Duration  time.Duration  `json:"duration"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// Checker is a named health check
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

type namedCheck struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

func (c namedCheck) Name() string                          { return c.name }
func (c namedCheck) Check(ctx context.Context) CheckResult { return c.fn(ctx) }

// Report is the result of running every registered check
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Uptime    time.Duration `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// Registry holds the checks of one service
type Registry struct {
	mu      sync.RWMutex
	checks  map[string]Checker
	service string
	version string
	started time.Time
}

// NewRegistry creates an empty registry for service at version
func NewRegistry(service, version string) *Registry {
	return &Registry{
		checks:  make(map[string]Checker),
		service: service,
		version: version,
		started: time.Now(),
	}
}

// Register adds checker, replacing a check of the same name
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checks[checker.Name()] = checker
}

// RegisterFunc registers fn under name
func (r *Registry) RegisterFunc(name string, fn func(ctx context.Context) CheckResult) {
	r.Register(namedCheck{name: name, fn: fn})
}

// Check runs all checks concurrently. The report lists them by name and
// carries the worst status; an empty registry is healthy.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	checks := make([]Checker, 0, len(r.checks))
	for _, c := range r.checks {
		checks = append(checks, c)
	}
	r.mu.RUnlock()

	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup
	for i, c := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			result := c.Check(ctx)
			result.Name = c.Name()
			result.Duration = time.Since(start)
			result.Timestamp = time.Now()
			if result.Status == "" {
				result.Status = StatusUnknown
			}
			results[i] = result
		}()
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	overall := StatusHealthy
	for _, res := range results {
		if res.Status.rank() > overall.rank() {
			overall = res.Status
		}
	}

	return &Report{
		Service:   r.service,
		Version:   r.version,
		Status:    overall,
		Uptime:    time.Since(r.started),
		Timestamp: time.Now(),
		Checks:    results,
	}
}

// Pinger is implemented by stores that can verify their connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingCheck reports unhealthy when p cannot be reached within timeout
func PingCheck(name string, p Pinger, timeout time.Duration) Checker {
	return namedCheck{name: name, fn: func(ctx context.Context) CheckResult {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := p.Ping(ctx); err != nil {
			return CheckResult{Status: StatusUnhealthy, Message: err.Error()}
		}
		return CheckResult{Status: StatusHealthy, Message: "reachable"}
	}}
}

// Publish runs the registry every interval and mirrors the overall status
// into the gRPC health server under service. It blocks until ctx is done
// and leaves the service NOT_SERVING.
func (r *Registry) Publish(ctx context.Context, srv *grpchealth.Server, service string, interval time.Duration) {
	update := func() {
		checkCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		srv.SetServingStatus(service, ServingStatus(r.Check(checkCtx).Status))
	}

	update()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			srv.SetServingStatus(service, healthpb.HealthCheckResponse_NOT_SERVING)
			return
		case <-ticker.C:
			update()
		}
	}
}

// ServingStatus maps a report status to the gRPC health protocol.
// Degraded still serves.
func ServingStatus(status Status) healthpb.HealthCheckResponse_ServingStatus {
	switch status {
	case StatusHealthy, StatusDegraded:
		return healthpb.HealthCheckResponse_SERVING
	case StatusUnhealthy:
		return healthpb.HealthCheckResponse_NOT_SERVING
	default:
		return healthpb.HealthCheckResponse_UNKNOWN
	}
}

// FromServingStatus maps a gRPC health response back to a Status
func FromServingStatus(status healthpb.HealthCheckResponse_ServingStatus) Status {
	switch status {
	case healthpb.HealthCheckResponse_SERVING:
		return StatusHealthy
	case healthpb.HealthCheckResponse_NOT_SERVING, healthpb.HealthCheckResponse_SERVICE_UNKNOWN:
		return StatusUnhealthy
	default:
		return StatusUnknown
	}
}
