// Package health provides Kubernetes-style liveness and readiness probes.
//
// Registered checks run periodically in a single background goroutine; the
// HTTP endpoints read the latest results. Readiness additionally requires the
// application-level ready gate (SetReady), so a server can drain before
// shutdown by flipping the gate off.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
)

// CheckFunc probes one component. It returns nil when healthy.
type CheckFunc func(ctx context.Context) error

// check holds one registered probe and its latest result.
type check struct {
	name    string
	timeout time.Duration
	fn      CheckFunc

	// lastErr is written by the runner goroutine and read by HTTP handlers.
	lastErr atomic.Pointer[error]
}

func (c *check) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	err := c.fn(ctx)
	c.lastErr.Store(&err)
}

// healthy assumes a check that has not run yet is passing, so probes answer
// sensibly before Start.
func (c *check) healthy() bool {
	p := c.lastErr.Load()
	return p == nil || *p == nil
}

func (c *check) message() string {
	if p := c.lastErr.Load(); p != nil && *p != nil {
		return (*p).Error()
	}
	return "ok"
}

// Service runs health checks and serves their results.
type Service struct {
	mu        sync.Mutex
	liveness  []*check
	readiness []*check

	ready  atomic.Bool
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an empty health service. Register checks before calling Start.
func New() *Service {
	return &Service{done: make(chan struct{})}
}

// AddLivenessCheck registers a probe for /livez.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, &check{name: name, timeout: timeout, fn: fn})
}

// AddReadinessCheck registers a probe for /readyz.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, fn CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, &check{name: name, timeout: timeout, fn: fn})
}

// Start runs every check once, then re-runs them at the given interval until
// ctx is cancelled or Stop is called.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.mu.Lock()
	checks := make([]*check, 0, len(s.liveness)+len(s.readiness))
	checks = append(checks, s.liveness...)
	checks = append(checks, s.readiness...)
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		for _, c := range checks {
			c.run(ctx)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, c := range checks {
					c.run(ctx)
				}
			}
		}
	}()
}

// Stop cancels the check runner and waits for it to exit.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

// SetReady flips the application-level readiness gate.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// LiveEndpoint serves the liveness probe result.
func (s *Service) LiveEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	checks := s.liveness
	s.mu.Unlock()
	serveChecks(w, checks, true)
}

// ReadyEndpoint serves the readiness probe result. It reports unhealthy while
// the ready gate is off, regardless of check results.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	checks := s.readiness
	s.mu.Unlock()
	serveChecks(w, checks, s.ready.Load())
}

func serveChecks(w http.ResponseWriter, checks []*check, gate bool) {
	healthy := gate
	results := make(map[string]string, len(checks))
	for _, c := range checks {
		results[c.name] = c.message()
		if !c.healthy() {
			healthy = false
		}
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "unhealthy"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": state,
		"checks": results,
	})
}

// GoroutineCountCheck returns a CheckFunc that fails when the goroutine count
// exceeds threshold. Useful as a liveness check for goroutine leaks.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if count := runtime.NumGoroutine(); count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}
