// AngelaMos | 2026
// entity.go

package lesson

import (
	"time"
)

type Lesson struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Summary   string    `db:"summary"`
	Body      string    `db:"body"`
	Position  int       `db:"position"`
	CreatedAt time.Time `db:"created_at"`
}
