// AngelaMos | 2026
// service.go

package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/carterperez-dev/arcana-vip/internal/calendar"
	"github.com/carterperez-dev/arcana-vip/internal/core"
	"github.com/carterperez-dev/arcana-vip/internal/middleware"
)

type Service struct {
	repo   Repository
	clock  calendar.Clock
	logger *slog.Logger
}

func NewService(
	repo Repository,
	clock calendar.Clock,
	logger *slog.Logger,
) *Service {
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, clock: clock, logger: logger}
}

// Evaluate re-reads the record on every call. Missing records and store
// failures deny access; the failure is logged, never returned.
func (s *Service) Evaluate(ctx context.Context, userID string) Decision {
	if strings.TrimSpace(userID) == "" {
		return Decision{Reason: ReasonNotVip}
	}

	rec, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return Decision{Reason: ReasonNotVip}
		}
		s.logger.WarnContext(ctx, "entitlement lookup failed, denying access",
			"user_id", userID,
			"error", err,
		)
		return Decision{Reason: ReasonLookupFailed}
	}

	if !rec.IsVip {
		return Decision{Reason: ReasonNotVip}
	}

	if rec.ExpiredAt(s.clock.Now()) {
		return Decision{Reason: ReasonExpired}
	}

	return Decision{Granted: true, Reason: ReasonActive}
}

func (s *Service) IsEntitled(ctx context.Context, userID string) bool {
	return s.Evaluate(ctx, userID).Granted
}

// Authorize adapts Evaluate for the access gate; the reason is already
// reduced to what a client may see.
func (s *Service) Authorize(ctx context.Context, userID string) (bool, string) {
	d := s.Evaluate(ctx, userID)
	if d.Granted {
		return true, d.Reason
	}
	return false, d.PublicReason()
}

func (s *Service) Status(
	ctx context.Context,
	userID string,
) (StatusResponse, error) {
	rec, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return StatusResponse{}, nil
		}
		return StatusResponse{}, err
	}

	return ToStatusResponse(rec, s.clock.Now()), nil
}

func (s *Service) Record(ctx context.Context, userID string) (*Record, error) {
	return s.repo.Get(ctx, userID)
}

// Grant upserts the entitlement for userID. A nil expiresAt stores a
// permanent entitlement; there is no partial update of the expiry.
func (s *Service) Grant(
	ctx context.Context,
	userID string,
	isVip bool,
	expiresAt *time.Time,
) (*Record, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("set entitlement: user id: %w", core.ErrInvalidInput)
	}

	rec := &Record{
		UserID:    userID,
		IsVip:     isVip,
		ExpiresAt: normalizeExpiry(expiresAt),
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "entitlement updated",
		"user_id", rec.UserID,
		"is_vip", rec.IsVip,
		"expires_at", rec.ExpiresAt,
	)

	return rec, nil
}

// SetEntitlement is the boolean form of Grant: false on any failure.
func (s *Service) SetEntitlement(
	ctx context.Context,
	userID string,
	isVip bool,
	expiresAt *time.Time,
) bool {
	if _, err := s.Grant(ctx, userID, isVip, expiresAt); err != nil {
		s.logger.ErrorContext(ctx, "set entitlement failed",
			"user_id", userID,
			"error", err,
		)
		return false
	}
	return true
}

func (s *Service) List(
	ctx context.Context,
	params ListParams,
) ([]RecordResponse, int, error) {
	now := s.clock.Now()

	records, total, err := s.repo.List(ctx, params, now)
	if err != nil {
		return nil, 0, err
	}

	return ToRecordResponseList(records, now), total, nil
}

func (s *Service) Counts(ctx context.Context) (int, int, error) {
	return s.repo.Counts(ctx, s.clock.Now())
}

func normalizeExpiry(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	utc := t.UTC()
	return &utc
}

var _ middleware.EntitlementChecker = (*Service)(nil)
