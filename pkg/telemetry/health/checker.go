package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Status values.
const (
	StatusOK        = "ok"
	StatusReady     = "ready"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc checks one component and returns nil when it is healthy.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Status   string        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ms,omitempty"`
}

// RunStatus summarizes the most recent lint run in watch mode.
type RunStatus struct {
	RunID       string    `json:"run_id"`
	Findings    int       `json:"findings"`
	Error       string    `json:"error,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// HealthStatus is the aggregated health report.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	LastRun   *RunStatus             `json:"last_run,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Checker runs registered component checks and remembers the last lint run.
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]CheckFunc
	lastRun *RunStatus

	checkTimeout time.Duration
}

// New creates a checker. A zero timeout defaults to 5 seconds per check.
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout == 0 {
		checkTimeout = 5 * time.Second
	}

	return &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
	}
}

// RegisterCheck registers or replaces the check for a named component.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checks[name] = check
}

// UnregisterCheck removes a named check.
func (c *Checker) UnregisterCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.checks, name)
}

// ListChecks returns the registered check names in sorted order.
func (c *Checker) ListChecks() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// SetLastRun records the outcome of a lint run.
func (c *Checker) SetLastRun(run RunStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastRun = &run
}

// LastRun returns the most recent run, or nil before the first run.
func (c *Checker) LastRun() *RunStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.lastRun == nil {
		return nil
	}
	run := *c.lastRun
	return &run
}

// CheckLiveness reports the process as alive along with the last run.
func (c *Checker) CheckLiveness(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusOK,
		LastRun:   c.LastRun(),
		Timestamp: time.Now(),
	}
}

// CheckReadiness runs every registered check concurrently. The result is
// degraded when any check fails or the last lint run errored.
func (c *Checker) CheckReadiness(ctx context.Context) HealthStatus {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, check := range c.checks {
		checks[name] = check
	}
	c.mu.RUnlock()

	results := make(map[string]CheckResult, len(checks))
	var resultMu sync.Mutex
	var wg sync.WaitGroup

	for name, check := range checks {
		wg.Add(1)
		go func(name string, check CheckFunc) {
			defer wg.Done()

			result := c.runCheck(ctx, check)

			resultMu.Lock()
			results[name] = result
			resultMu.Unlock()
		}(name, check)
	}
	wg.Wait()

	status := StatusReady
	for _, result := range results {
		if result.Status == StatusUnhealthy {
			status = StatusDegraded
		}
	}

	lastRun := c.LastRun()
	if lastRun != nil && lastRun.Error != "" {
		status = StatusDegraded
	}

	return HealthStatus{
		Status:    status,
		Checks:    results,
		LastRun:   lastRun,
		Timestamp: time.Now(),
	}
}

// runCheck executes a single check with the checker's timeout.
func (c *Checker) runCheck(ctx context.Context, check CheckFunc) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()

	errChan := make(chan error, 1)
	go func() {
		errChan <- check(checkCtx)
	}()

	select {
	case err := <-errChan:
		duration := time.Since(start)
		if err != nil {
			return CheckResult{Status: StatusUnhealthy, Message: err.Error(), Duration: duration}
		}
		return CheckResult{Status: StatusOK, Duration: duration}

	case <-checkCtx.Done():
		return CheckResult{
			Status:   StatusUnhealthy,
			Message:  "health check timeout",
			Duration: time.Since(start),
		}
	}
}
