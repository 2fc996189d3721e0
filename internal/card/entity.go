// AngelaMos | 2026
// entity.go

package card

import (
	"time"
)

const (
	PlaceholderName    = "No card today"
	PlaceholderMessage = "No card has been published for today yet. Check back later."
)

// Card is immutable once published; at most one exists per card_date.
type Card struct {
	ID          string    `db:"id"`
	CardDate    string    `db:"card_date"`
	Name        string    `db:"name"`
	ImageURL    string    `db:"image_url"`
	Meaning     string    `db:"meaning"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`

	// Message is set only on the placeholder.
	Message string `db:"-"`
}

func Placeholder(date string) *Card {
	return &Card{
		CardDate: date,
		Name:     PlaceholderName,
		Message:  PlaceholderMessage,
	}
}

func (c *Card) IsPlaceholder() bool {
	return c.ID == ""
}
