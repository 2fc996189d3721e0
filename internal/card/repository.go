// AngelaMos | 2026
// repository.go

package card

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/arcana-vip/internal/core"
)

type Repository interface {
	GetByDate(ctx context.Context, date string) (*Card, error)
	GetByID(ctx context.Context, id string) (*Card, error)
	Create(ctx context.Context, c *Card) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const cardColumns = `
	id, to_char(card_date, 'YYYY-MM-DD') AS card_date, name,
	image_url, meaning, description, created_at`

func (r *repository) GetByDate(ctx context.Context, date string) (*Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM daily_cards
		WHERE card_date = $1::date`

	var c Card
	if err := r.db.GetContext(ctx, &c, query, date); err != nil {
		return nil, fmt.Errorf("get card by date: %w", core.MapError(err))
	}

	return &c, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM daily_cards
		WHERE id = $1`

	var c Card
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, fmt.Errorf("get card by id: %w", core.MapError(err))
	}

	return &c, nil
}

// Create fails with core.ErrDuplicateKey when the date already has a card.
func (r *repository) Create(ctx context.Context, c *Card) error {
	query := `
		INSERT INTO daily_cards (id, card_date, name, image_url, meaning, description)
		VALUES ($1, $2::date, $3, $4, $5, $6)
		RETURNING created_at`

	row := r.db.QueryRowxContext(ctx, query,
		c.ID,
		c.CardDate,
		c.Name,
		c.ImageURL,
		c.Meaning,
		c.Description,
	)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return fmt.Errorf("create card: %w", core.MapError(err))
	}

	return nil
}
