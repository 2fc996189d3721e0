// AngelaMos | 2026
// cache.go

package card

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache holds published cards by date. The placeholder is never stored.
type Cache interface {
	Get(ctx context.Context, date string) (*Card, bool, error)
	Put(ctx context.Context, c *Card) error
}

type RedisCache struct {
	rdb   *redis.Client
	keyNS string
	ttl   time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{rdb: rdb, keyNS: "card:date:", ttl: ttl}
}

func (c *RedisCache) key(date string) string { return c.keyNS + date }

func (c *RedisCache) Get(ctx context.Context, date string) (*Card, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var card Card
	if err := json.Unmarshal(raw, &card); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return &card, true, nil
}

func (c *RedisCache) Put(ctx context.Context, card *Card) error {
	if card == nil || card.IsPlaceholder() {
		return nil
	}

	raw, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.rdb.Set(ctx, c.key(card.CardDate), raw, c.ttl).Err()
}
