package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/asqwklop12/sparta/pkg/httputil"
)

// Checker probes one dependency.
type Checker func(ctx context.Context) error

// Status of a component or of the whole service.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// DefaultTimeout bounds a full readiness run.
const DefaultTimeout = 5 * time.Second

// Response is the body of both probe endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of one checker.
type CheckResult struct {
	Status   Status `json:"status"`
	Critical bool   `json:"critical"`
	Error    string `json:"error,omitempty"`
}

type check struct {
	fn       Checker
	critical bool
}

// Handler serves liveness and readiness probes.
type Handler struct {
	mu      sync.RWMutex
	checks  map[string]check
	timeout time.Duration
}

// NewHandler returns a Handler with no checks registered.
func NewHandler() *Handler {
	return &Handler{checks: make(map[string]check), timeout: DefaultTimeout}
}

// RegisterCritical adds a check whose failure makes the service not ready.
func (h *Handler) RegisterCritical(name string, fn Checker) {
	h.register(name, fn, true)
}

// RegisterNonCritical adds a check whose failure only degrades readiness.
func (h *Handler) RegisterNonCritical(name string, fn Checker) {
	h.register(name, fn, false)
}

func (h *Handler) register(name string, fn Checker, critical bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check{fn: fn, critical: critical}
}

// LivenessHandler reports up for as long as the process can serve HTTP.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, Response{Status: StatusUp, Timestamp: time.Now().UTC()})
	}
}

// ReadinessHandler runs every check concurrently. Any failing critical check
// yields 503; failing non-critical checks yield 200 with status degraded.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := h.Check(r.Context())
		status := http.StatusOK
		if resp.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, resp)
	}
}

// Check runs all registered checks and aggregates the result.
func (h *Handler) Check(ctx context.Context) Response {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	h.mu.RLock()
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	checks := make([]check, len(names))
	sort.Strings(names)
	for i, name := range names {
		checks[i] = h.checks[name]
	}
	h.mu.RUnlock()

	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup
	for i, c := range checks {
		wg.Add(1)
		go func(i int, c check) {
			defer wg.Done()
			res := CheckResult{Status: StatusUp, Critical: c.critical}
			if err := c.fn(ctx); err != nil {
				res.Status = StatusDown
				res.Error = err.Error()
			}
			results[i] = res
		}(i, c)
	}
	wg.Wait()

	overall := StatusUp
	out := make(map[string]CheckResult, len(results))
	for i, res := range results {
		out[names[i]] = res
		if res.Status != StatusDown {
			continue
		}
		if res.Critical {
			overall = StatusDown
		} else if overall == StatusUp {
			overall = StatusDegraded
		}
	}

	return Response{Status: overall, Timestamp: time.Now().UTC(), Checks: out}
}
