// AngelaMos | 2026
// dto.go

package card

import (
	"encoding/json"

	"github.com/carterperez-dev/arcana-vip/internal/progress"
)

type PublishRequest struct {
	CardDate    string `json:"card_date"   validate:"required,datetime=2006-01-02"`
	Name        string `json:"name"        validate:"required,min=1,max=200"`
	ImageURL    string `json:"imageUrl"    validate:"omitempty,url,max=2048"`
	Meaning     string `json:"meaning"     validate:"max=2000"`
	Description string `json:"description" validate:"max=10000"`
}

// CardResponse is the wire form of a card. ID is null for the placeholder.
type CardResponse struct {
	ID          *string         `json:"id"`
	CardDate    string          `json:"card_date"`
	Name        string          `json:"name"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	Meaning     string          `json:"meaning,omitempty"`
	Description string          `json:"description,omitempty"`
	Message     string          `json:"message,omitempty"`
	Progress    json.RawMessage `json:"progress"`
	IsCompleted bool            `json:"isCompleted"`
}

func ToCardResponse(c *Card, status progress.Status) CardResponse {
	resp := CardResponse{
		CardDate:    c.CardDate,
		Name:        c.Name,
		ImageURL:    c.ImageURL,
		Meaning:     c.Meaning,
		Description: c.Description,
		Message:     c.Message,
		Progress:    status.Progress,
		IsCompleted: status.IsCompleted,
	}
	if !c.IsPlaceholder() {
		id := c.ID
		resp.ID = &id
	}
	return resp
}
