// AngelaMos | 2026
// entity.go

package progress

import (
	"encoding/json"
	"time"
)

type Kind string

const (
	KindCard   Kind = "card"
	KindLesson Kind = "lesson"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCard, KindLesson:
		return true
	}
	return false
}

// Record marks one item as completed for one user. At most one exists per
// (user, item, kind); it is created once and never updated.
type Record struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ItemID    string    `db:"item_id"`
	ItemKind  Kind      `db:"item_kind"`
	Completed bool      `db:"completed"`
	Data      []byte    `db:"progress_data"`
	CreatedAt time.Time `db:"created_at"`
}

// ViewPayload is the progress_data written on a first view.
type ViewPayload struct {
	ViewedAt time.Time `json:"viewedAt"`
}

// Status is the per-item decoration attached to content responses.
type Status struct {
	Progress    json.RawMessage `json:"progress"`
	IsCompleted bool            `json:"isCompleted"`
}

func (r *Record) Status() Status {
	if r == nil {
		return Status{}
	}
	var data json.RawMessage
	if len(r.Data) > 0 {
		data = json.RawMessage(r.Data)
	}
	return Status{Progress: data, IsCompleted: r.Completed}
}
