package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/forcosplay/costume-shop/internal/transport"
)

var ErrCacheMiss = errors.New("cache miss")

// generationTTL outlives any cached view.
const generationTTL = time.Hour

type entry struct {
	Generation int64              `json:"generation"`
	View       transport.CartView `json:"view"`
}

type CartCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewCartCache(client *redis.Client) *CartCache {
	return &CartCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

// Connect builds a client and pings it with a short timeout.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// Generation returns the account's current cart generation. Delete bumps it,
// so a view loaded before an invalidation is never served after it.
func (c *CartCache) Generation(ctx context.Context, accountID uint) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey(accountID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation failed: %w", err)
	}
	return gen, nil
}

func (c *CartCache) Get(ctx context.Context, accountID uint) (*transport.CartView, error) {
	vals, err := c.client.MGet(ctx, cacheKey(accountID), generationKey(accountID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, ErrCacheMiss
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	var current int64
	if s, ok := vals[1].(string); ok {
		if current, err = strconv.ParseInt(s, 10, 64); err != nil {
			return nil, fmt.Errorf("parse cart generation failed: %w", err)
		}
	}
	if e.Generation != current {
		return nil, ErrCacheMiss
	}
	return &e.View, nil
}

// Set stores view under gen, the value Generation returned before the view
// was loaded.
func (c *CartCache) Set(ctx context.Context, accountID uint, gen int64, view *transport.CartView) error {
	data, err := json.Marshal(entry{Generation: gen, View: *view})
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := c.client.Set(ctx, cacheKey(accountID), data, c.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *CartCache) Delete(ctx context.Context, accountID uint) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(accountID))
		pipe.Expire(ctx, generationKey(accountID), generationTTL)
		pipe.Del(ctx, cacheKey(accountID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(accountID uint) string {
	return fmt.Sprintf("cart:%d", accountID)
}

func generationKey(accountID uint) string {
	return fmt.Sprintf("cart:gen:%d", accountID)
}
