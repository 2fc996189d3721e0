// AngelaMos | 2026
// dto.go

package lesson

import (
	"encoding/json"

	"github.com/carterperez-dev/arcana-vip/internal/progress"
)

// SummaryResponse omits the body; list pages stay small.
type SummaryResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Summary     string          `json:"summary"`
	Position    int             `json:"position"`
	Progress    json.RawMessage `json:"progress"`
	IsCompleted bool            `json:"isCompleted"`
}

type LessonResponse struct {
	SummaryResponse
	Body string `json:"body"`
}

func ToSummaryResponse(l *Lesson, status progress.Status) SummaryResponse {
	return SummaryResponse{
		ID:          l.ID,
		Title:       l.Title,
		Summary:     l.Summary,
		Position:    l.Position,
		Progress:    status.Progress,
		IsCompleted: status.IsCompleted,
	}
}

func ToLessonResponse(l *Lesson, status progress.Status) LessonResponse {
	return LessonResponse{
		SummaryResponse: ToSummaryResponse(l, status),
		Body:            l.Body,
	}
}

func ToSummaryList(lessons []Lesson, byItem map[string]progress.Status) []SummaryResponse {
	out := make([]SummaryResponse, 0, len(lessons))
	for i := range lessons {
		out = append(out, ToSummaryResponse(&lessons[i], byItem[lessons[i].ID]))
	}
	return out
}
