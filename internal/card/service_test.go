// AngelaMos | 2026
// service_test.go

package card

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/arcana-vip/internal/calendar"
	"github.com/carterperez-dev/arcana-vip/internal/core"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) GetByDate(ctx context.Context, date string) (*Card, error) {
	args := m.Called(ctx, date)
	if c, ok := args.Get(0).(*Card); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*Card, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*Card); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Create(ctx context.Context, c *Card) error {
	return m.Called(ctx, c).Error(0)
}

type mapCache struct {
	mu    sync.Mutex
	cards map[string]Card
}

func newMapCache() *mapCache {
	return &mapCache{cards: make(map[string]Card)}
}

func (c *mapCache) Get(_ context.Context, date string) (*Card, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	card, ok := c.cards[date]
	if !ok {
		return nil, false, nil
	}
	return &card, true, nil
}

func (c *mapCache) Put(_ context.Context, card *Card) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if card.IsPlaceholder() {
		return nil
	}
	c.cards[card.CardDate] = *card
	return nil
}

// 2024-01-01T17:30Z is already 2024-01-02 in Ho Chi Minh City.
func testResolver() *calendar.Resolver {
	at := time.Date(2024, 1, 1, 17, 30, 0, 0, time.UTC)
	return calendar.NewResolver(calendar.DefaultTimezone, calendar.FixedClock{At: at}, nil)
}

const today = "2024-01-02"

func TestToday_Placeholder(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetByDate", mock.Anything, today).
		Return(nil, fmt.Errorf("get card by date: %w", core.ErrNotFound))

	cache := newMapCache()
	svc := NewService(repo, cache, testResolver(), nil)

	c, err := svc.Today(context.Background())
	require.NoError(t, err)
	assert.True(t, c.IsPlaceholder())
	assert.Empty(t, c.ID)
	assert.Equal(t, today, c.CardDate)
	assert.Equal(t, PlaceholderName, c.Name)
	assert.NotEmpty(t, c.Message)
	assert.Empty(t, cache.cards, "placeholder is not cached")

	resp := ToCardResponse(c, noProgress)
	assert.Nil(t, resp.ID)

	repo.AssertExpectations(t)
}

func TestToday_PublishedCardIsCached(t *testing.T) {
	published := &Card{ID: "c-1", CardDate: today, Name: "The Star"}

	repo := new(mockRepository)
	repo.On("GetByDate", mock.Anything, today).Return(published, nil).Once()

	svc := NewService(repo, newMapCache(), testResolver(), nil)

	for range 3 {
		c, err := svc.Today(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "The Star", c.Name)
	}

	repo.AssertNumberOfCalls(t, "GetByDate", 1)
}

func TestToday_StoreError(t *testing.T) {
	repo := new(mockRepository)
	repo.On("GetByDate", mock.Anything, today).
		Return(nil, fmt.Errorf("get card by date: %w", core.ErrStore))

	svc := NewService(repo, nil, testResolver(), nil)

	_, err := svc.Today(context.Background())
	assert.ErrorIs(t, err, core.ErrStore)
}

func TestGet_MalformedIDSkipsStore(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo, nil, testResolver(), nil)

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestPublish(t *testing.T) {
	t.Run("creates card", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(c *Card) bool {
			return c.CardDate == today && c.Name == "The Moon" && c.ID != ""
		})).Return(nil)

		svc := NewService(repo, nil, testResolver(), nil)

		c, err := svc.Publish(context.Background(), PublishRequest{
			CardDate: today,
			Name:     " The Moon ",
		})
		require.NoError(t, err)
		assert.False(t, c.IsPlaceholder())
		repo.AssertExpectations(t)
	})

	t.Run("duplicate date conflicts", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("Create", mock.Anything, mock.Anything).
			Return(fmt.Errorf("create card: %w", core.ErrDuplicateKey))

		svc := NewService(repo, nil, testResolver(), nil)

		_, err := svc.Publish(context.Background(), PublishRequest{
			CardDate: today,
			Name:     "The Moon",
		})
		require.Error(t, err)

		var appErr *core.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusConflict, appErr.StatusCode)
	})

	t.Run("bad date", func(t *testing.T) {
		repo := new(mockRepository)
		svc := NewService(repo, nil, testResolver(), nil)

		_, err := svc.Publish(context.Background(), PublishRequest{
			CardDate: "02/01/2024",
			Name:     "The Moon",
		})
		assert.ErrorIs(t, err, core.ErrInvalidInput)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
