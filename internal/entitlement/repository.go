// AngelaMos | 2026
// repository.go

package entitlement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/arcana-vip/internal/core"
)

type Repository interface {
	Get(ctx context.Context, userID string) (*Record, error)
	Upsert(ctx context.Context, rec *Record) error
	List(
		ctx context.Context,
		params ListParams,
		now time.Time,
	) ([]Record, int, error)
	Counts(ctx context.Context, now time.Time) (active, total int, err error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, userID string) (*Record, error) {
	query := `
		SELECT user_id, is_vip, expires_at, created_at, updated_at
		FROM vip_entitlements
		WHERE user_id = $1`

	var rec Record
	if err := r.db.GetContext(ctx, &rec, query, userID); err != nil {
		return nil, fmt.Errorf("get entitlement: %w", core.MapError(err))
	}

	return &rec, nil
}

// Upsert inserts or replaces the row for rec.UserID in one statement, so
// concurrent readers see either the old or the new row.
func (r *repository) Upsert(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO vip_entitlements (user_id, is_vip, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET is_vip = EXCLUDED.is_vip,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = NOW()
		RETURNING created_at, updated_at`

	row := r.db.QueryRowxContext(ctx, query, rec.UserID, rec.IsVip, rec.ExpiresAt)
	if err := row.Scan(&rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return fmt.Errorf("upsert entitlement: %w", core.MapError(err))
	}

	return nil
}

// List pages over entitlement rows. The active filter combines the stored
// flag with the expiry; the flag alone over-reports VIPs.
func (r *repository) List(
	ctx context.Context,
	params ListParams,
	now time.Time,
) ([]Record, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("user_id ILIKE $%d", argIdx))
		args = append(args, escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Active != nil {
		active := fmt.Sprintf(
			"(is_vip AND (expires_at IS NULL OR expires_at > $%d))",
			argIdx,
		)
		if !*params.Active {
			active = "NOT " + active
		}
		conditions = append(conditions, active)
		args = append(args, now)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM vip_entitlements WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count entitlements: %w", core.MapError(err))
	}

	query := fmt.Sprintf(`
		SELECT user_id, is_vip, expires_at, created_at, updated_at
		FROM vip_entitlements
		WHERE %s
		ORDER BY updated_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var records []Record
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list entitlements: %w", core.MapError(err))
	}

	return records, total, nil
}

func (r *repository) Counts(
	ctx context.Context,
	now time.Time,
) (int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (
				WHERE is_vip AND (expires_at IS NULL OR expires_at > $1)
			) AS active,
			COUNT(*) AS total
		FROM vip_entitlements`

	var counts struct {
		Active int `db:"active"`
		Total  int `db:"total"`
	}
	if err := r.db.GetContext(ctx, &counts, query, now); err != nil {
		return 0, 0, fmt.Errorf("count entitlements: %w", core.MapError(err))
	}

	return counts.Active, counts.Total, nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
