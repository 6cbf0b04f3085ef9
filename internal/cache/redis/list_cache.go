package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Gunvolt24/resto-orders/internal/ports"
)

// Проверка, что ListCache удовлетворяет интерфейсу ports.ListCache.
var _ ports.ListCache = (*ListCache)(nil)

// ListCache — кэш-коллаборатор поверх Redis.
// Каждая операция ограничена opTimeout: деградировавший Redis не должен
// растягивать латентность запросов — вызывающий слой переживёт ошибку.
type ListCache struct {
	client    *redis.Client
	opTimeout time.Duration
}

func NewListCache(addr string, opTimeout time.Duration) *ListCache {
	return NewListCacheWithClient(redis.NewClient(&redis.Options{Addr: addr}), opTimeout)
}

// NewListCacheWithClient — вариант с готовым клиентом (тесты, нестандартная конфигурация).
func NewListCacheWithClient(client *redis.Client, opTimeout time.Duration) *ListCache {
	if opTimeout <= 0 {
		opTimeout = 300 * time.Millisecond
	}
	return &ListCache{client: client, opTimeout: opTimeout}
}

// Get — (nil, false, nil) на промахе; ненулевой err только при недоступности кэша.
func (c *ListCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *ListCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *ListCache) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()

	return c.client.Del(ctx, key).Err()
}

func (c *ListCache) Close() error { return c.client.Close() }
