// AngelaMos | 2026
// calendar.go

package calendar

import (
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	DefaultTimezone = "Asia/Ho_Chi_Minh"
	DateLayout      = "2006-01-02"
)

// Clock supplies the current instant. Production code uses SystemClock;
// tests pin it with FixedClock.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At
}

// Resolver answers "what day is it" for the service's configured timezone.
//
// When the configured zone cannot be loaded the resolver falls back to the
// host's local zone and stays in degraded mode for its lifetime. The
// fallback is logged once and exposed through Degraded so readiness checks
// can report it; wrong-zone dates select the wrong daily card.
type Resolver struct {
	loc       *time.Location
	requested string
	degraded  bool
	clock     Clock
}

func NewResolver(timezone string, clock Clock, logger *slog.Logger) *Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	requested := strings.TrimSpace(timezone)
	if requested == "" {
		requested = DefaultTimezone
	}

	r := &Resolver{
		requested: requested,
		clock:     clock,
	}

	loc, err := time.LoadLocation(requested)
	if err != nil {
		r.loc = time.Local
		r.degraded = true
		logger.Warn("calendar timezone unavailable, using host local zone",
			"requested_timezone", requested,
			"fallback_timezone", time.Local.String(),
			"error", err,
		)
		return r
	}

	r.loc = loc
	return r
}

// Today returns the current date in the resolver's zone as YYYY-MM-DD.
func (r *Resolver) Today() string {
	return r.TodayAt(r.clock.Now())
}

func (r *Resolver) TodayAt(t time.Time) string {
	return t.In(r.loc).Format(DateLayout)
}

func (r *Resolver) Location() *time.Location {
	return r.loc
}

// Zone is the name of the zone actually in use.
func (r *Resolver) Zone() string {
	return r.loc.String()
}

func (r *Resolver) Requested() string {
	return r.requested
}

func (r *Resolver) Degraded() bool {
	return r.degraded
}

// ParseDate validates a YYYY-MM-DD string and returns it normalized.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
