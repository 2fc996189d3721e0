// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
)

const checkTimeout = 5 * time.Second

type Checker interface {
	Ping(ctx context.Context) error
}

// CalendarStatus reports whether the configured day boundary is in effect.
type CalendarStatus interface {
	Zone() string
	Degraded() bool
}

type Handler struct {
	db       Checker
	redis    Checker
	calendar CalendarStatus
	ready    atomic.Bool
	shutdown atomic.Bool
}

func NewHandler(db, redis Checker, calendar CalendarStatus) *Handler {
	h := &Handler{
		db:       db,
		redis:    redis,
		calendar: calendar,
	}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.shutdown.Load() {
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	}

	writeStatus(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Readiness fails only on unreachable dependencies. A calendar running on
// the fallback zone keeps serving but reports degraded.
func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	switch {
	case h.shutdown.Load():
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "shutting_down",
		})
		return
	case !h.ready.Load():
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "not_ready",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	checks := h.runChecks(ctx)

	status := "ok"
	code := http.StatusOK
	for _, c := range checks {
		if !c.Healthy {
			status = "unavailable"
			code = http.StatusServiceUnavailable
			break
		}
		if c.Degraded {
			status = "degraded"
		}
	}

	writeStatus(w, code, ReadinessResponse{Status: status, Checks: checks})
}

func (h *Handler) runChecks(ctx context.Context) []HealthCheck {
	checks := make([]HealthCheck, 3)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		checks[0] = ping(ctx, "database", h.db)
	}()
	go func() {
		defer wg.Done()
		checks[1] = ping(ctx, "redis", h.redis)
	}()
	checks[2] = h.checkCalendar()
	wg.Wait()

	return checks
}

func ping(ctx context.Context, name string, c Checker) HealthCheck {
	check := HealthCheck{Name: name, Healthy: true}

	if c == nil {
		check.Healthy = false
		check.Message = name + " checker not configured"
		return check
	}

	start := time.Now()
	err := c.Ping(ctx)
	check.Latency = time.Since(start).String()

	if err != nil {
		check.Healthy = false
		check.Message = "ping failed"
	}

	return check
}

func (h *Handler) checkCalendar() HealthCheck {
	check := HealthCheck{Name: "calendar", Healthy: true}

	if h.calendar == nil {
		return check
	}

	if h.calendar.Degraded() {
		check.Degraded = true
		check.Message = "timezone unavailable, using " + h.calendar.Zone()
	}

	return check
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *Handler) SetShutdown(shutdown bool) {
	h.shutdown.Store(shutdown)
}

func writeStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response
	_ = json.NewEncoder(w).Encode(data)
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name     string `json:"name"`
	Healthy  bool   `json:"healthy"`
	Degraded bool   `json:"degraded,omitempty"`
	Latency  string `json:"latency,omitempty"`
	Message  string `json:"message,omitempty"`
}
