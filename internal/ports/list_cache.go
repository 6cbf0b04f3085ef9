package ports

import (
	"context"
	"time"
)

// ListCache — кэш-коллаборатор: key-value хранилище с TTL (Redis).
// Промах и отказ различимы: (nil, false, nil) — промаха, ненулевой err — кэш
// недоступен, и вызывающий слой обязан деградировать к чтению из хранилища.
type ListCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
