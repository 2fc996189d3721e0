// AngelaMos | 2026
// entity.go

package entitlement

import (
	"time"
)

// Record is the single stored entitlement row for a user. IsVip is never
// cleared on expiry; whether the record grants access is derived at read
// time by ActiveAt.
type Record struct {
	UserID    string     `db:"user_id"`
	IsVip     bool       `db:"is_vip"`
	ExpiresAt *time.Time `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

func (r *Record) IsPermanent() bool {
	return r.IsVip && r.ExpiresAt == nil
}

// ExpiredAt reports whether an expiring record has lapsed. A record expires
// at exactly ExpiresAt, not after it.
func (r *Record) ExpiredAt(now time.Time) bool {
	return r.ExpiresAt != nil && !r.ExpiresAt.After(now)
}

func (r *Record) ActiveAt(now time.Time) bool {
	if !r.IsVip {
		return false
	}
	return !r.ExpiredAt(now)
}

const (
	ReasonActive       = "vip_active"
	ReasonNotVip       = "not_vip"
	ReasonExpired      = "vip_expired"
	ReasonLookupFailed = "lookup_failed"
)

// Decision is the outcome of an entitlement check. Reason is diagnostic
// detail for operators and the 403 body; Granted is the only field callers
// may authorize on.
type Decision struct {
	Granted bool
	Reason  string
}

// PublicReason collapses internal failure detail into the two reasons a
// client is allowed to see.
func (d Decision) PublicReason() string {
	if d.Reason == ReasonExpired {
		return ReasonExpired
	}
	return ReasonNotVip
}
