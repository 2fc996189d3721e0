// AngelaMos | 2026
// service.go

package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/arcana-vip/internal/calendar"
	"github.com/carterperez-dev/arcana-vip/internal/core"
)

// DayResolver names the current calendar day in the service timezone.
type DayResolver interface {
	Today() string
}

type Service struct {
	repo   Repository
	cache  Cache
	days   DayResolver
	logger *slog.Logger
}

// NewService accepts a nil cache; every read then goes to the store.
func NewService(
	repo Repository,
	cache Cache,
	days DayResolver,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, days: days, logger: logger}
}

// Today returns the card published for the current day, or a placeholder
// dated today when none exists. Store failures are returned.
func (s *Service) Today(ctx context.Context) (*Card, error) {
	date := s.days.Today()

	if c := s.cached(ctx, date); c != nil {
		return c, nil
	}

	c, err := s.repo.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return Placeholder(date), nil
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, c); err != nil {
			s.logger.DebugContext(ctx, "card cache put failed",
				"card_date", date,
				"error", err,
			)
		}
	}

	return c, nil
}

func (s *Service) cached(ctx context.Context, date string) *Card {
	if s.cache == nil {
		return nil
	}

	c, ok, err := s.cache.Get(ctx, date)
	if err != nil {
		s.logger.DebugContext(ctx, "card cache get failed",
			"card_date", date,
			"error", err,
		)
		return nil
	}
	if !ok {
		return nil
	}
	return c
}

func (s *Service) Get(ctx context.Context, id string) (*Card, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get card: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Publish(ctx context.Context, req PublishRequest) (*Card, error) {
	if _, err := calendar.ParseDate(req.CardDate); err != nil {
		return nil, core.ValidationError("card_date must be YYYY-MM-DD")
	}

	c := &Card{
		ID:          uuid.NewString(),
		CardDate:    req.CardDate,
		Name:        strings.TrimSpace(req.Name),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		Meaning:     req.Meaning,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("card for " + req.CardDate)
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "card published",
		"card_id", c.ID,
		"card_date", c.CardDate,
	)

	return c, nil
}
