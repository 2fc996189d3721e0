// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/arcana-vip/internal/core"
)

// EntitlementCounter reports how many stored entitlements grant access now.
type EntitlementCounter interface {
	Counts(ctx context.Context) (active, total int, err error)
}

// CalendarInfo is the subset of the calendar resolver shown to operators.
type CalendarInfo interface {
	Today() string
	Zone() string
	Degraded() bool
}

type Handler struct {
	dbStats      func() sql.DBStats
	redisStats   func() *redis.PoolStats
	dbPing       func(ctx context.Context) error
	redisPing    func(ctx context.Context) error
	entitlements EntitlementCounter
	calendar     CalendarInfo
}

type HandlerConfig struct {
	DBStats      func() sql.DBStats
	RedisStats   func() *redis.PoolStats
	DBPing       func(ctx context.Context) error
	RedisPing    func(ctx context.Context) error
	Entitlements EntitlementCounter
	Calendar     CalendarInfo
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		dbStats:      cfg.DBStats,
		redisStats:   cfg.RedisStats,
		dbPing:       cfg.DBPing,
		redisPing:    cfg.RedisPing,
		entitlements: cfg.Entitlements,
		calendar:     cfg.Calendar,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/admin/stats", h.GetSystemStats)
		r.Get("/admin/stats/db", h.GetDatabaseStats)
		r.Get("/admin/stats/redis", h.GetRedisStats)
		r.Get("/admin/stats/runtime", h.GetRuntimeStats)
	})
}

// GetSystemStats never fails as a whole; a broken dependency shows up as
// healthy=false in its own section.
func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: probe(ctx, h.dbPing),
			Stats:   h.poolStats(),
		},
		Redis: RedisStatus{
			Healthy: probe(ctx, h.redisPing),
			Stats:   h.cacheStats(),
		},
		Runtime: readRuntime(),
	}

	if h.entitlements != nil {
		active, total, err := h.entitlements.Counts(ctx)
		if err != nil {
			core.SetSpanError(ctx, err)
		} else {
			resp.Entitlements = &EntitlementStats{Active: active, Total: total}
		}
	}

	if h.calendar != nil {
		resp.Calendar = &CalendarStats{
			Today:    h.calendar.Today(),
			Zone:     h.calendar.Zone(),
			Degraded: h.calendar.Degraded(),
		}
	}

	core.OK(w, resp)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.poolStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, h.cacheStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, readRuntime())
}

func probe(ctx context.Context, ping func(context.Context) error) bool {
	if ping == nil {
		return false
	}
	return ping(ctx) == nil
}

func readRuntime() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     mem.Alloc,
		MemSys:       mem.Sys,
		NumGC:        mem.NumGC,
	}
}

func (h *Handler) poolStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	s := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: s.MaxOpenConnections,
		OpenConnections:    s.OpenConnections,
		InUse:              s.InUse,
		Idle:               s.Idle,
		WaitCount:          s.WaitCount,
		WaitDuration:       s.WaitDuration.String(),
		MaxLifetimeClosed:  s.MaxLifetimeClosed,
	}
}

func (h *Handler) cacheStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	s := h.redisStats()
	return &RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
	}
}
