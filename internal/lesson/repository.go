// AngelaMos | 2026
// repository.go

package lesson

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/arcana-vip/internal/core"
)

type Repository interface {
	List(ctx context.Context) ([]Lesson, error)
	GetByID(ctx context.Context, id string) (*Lesson, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Lesson, error) {
	query := `
		SELECT id, title, summary, body, position, created_at
		FROM lessons
		ORDER BY position, created_at`

	var lessons []Lesson
	if err := r.db.SelectContext(ctx, &lessons, query); err != nil {
		return nil, fmt.Errorf("list lessons: %w", core.MapError(err))
	}

	return lessons, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Lesson, error) {
	query := `
		SELECT id, title, summary, body, position, created_at
		FROM lessons
		WHERE id = $1`

	var l Lesson
	if err := r.db.GetContext(ctx, &l, query, id); err != nil {
		return nil, fmt.Errorf("get lesson: %w", core.MapError(err))
	}

	return &l, nil
}
