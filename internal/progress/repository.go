// AngelaMos | 2026
// repository.go

package progress

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/arcana-vip/internal/core"
)

type Repository interface {
	Get(
		ctx context.Context,
		userID, itemID string,
		kind Kind,
	) (*Record, error)
	ListByUser(ctx context.Context, userID string, kind Kind) ([]Record, error)
	// InsertIfAbsent reports false without error when a record for the
	// same (user, item, kind) already exists.
	InsertIfAbsent(ctx context.Context, rec *Record) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Get(
	ctx context.Context,
	userID, itemID string,
	kind Kind,
) (*Record, error) {
	query := `
		SELECT id, user_id, item_id, item_kind, completed, progress_data, created_at
		FROM user_progress
		WHERE user_id = $1 AND item_id = $2 AND item_kind = $3`

	var rec Record
	if err := r.db.GetContext(ctx, &rec, query, userID, itemID, kind); err != nil {
		return nil, fmt.Errorf("get progress: %w", core.MapError(err))
	}

	return &rec, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID string,
	kind Kind,
) ([]Record, error) {
	query := `
		SELECT id, user_id, item_id, item_kind, completed, progress_data, created_at
		FROM user_progress
		WHERE user_id = $1 AND item_kind = $2
		ORDER BY created_at`

	var records []Record
	if err := r.db.SelectContext(ctx, &records, query, userID, kind); err != nil {
		return nil, fmt.Errorf("list progress: %w", core.MapError(err))
	}

	return records, nil
}

// InsertIfAbsent is a single statement; the unique constraint on
// (user_id, item_id, item_kind) decides concurrent first views.
func (r *repository) InsertIfAbsent(ctx context.Context, rec *Record) (bool, error) {
	query := `
		INSERT INTO user_progress (id, user_id, item_id, item_kind, completed, progress_data)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, item_id, item_kind) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.ItemID,
		rec.ItemKind,
		rec.Completed,
		rec.Data,
	)
	if err != nil {
		return false, fmt.Errorf("insert progress: %w", core.MapError(err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert progress: rows affected: %w", err)
	}

	return n == 1, nil
}
