package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neuralhub/neuralhub-go/internal/model"
)

const waitlistKey = "neuralhub:waitlist"

// RedisWaitlist keeps signups in a sorted set scored by signup time.
type RedisWaitlist struct {
	rdb *redis.Client
}

// NewRedisWaitlist creates a RedisWaitlist on top of an existing client.
func NewRedisWaitlist(rdb *redis.Client) *RedisWaitlist {
	return &RedisWaitlist{rdb: rdb}
}

func (w *RedisWaitlist) Add(ctx context.Context, sub model.Subscriber) (bool, error) {
	added, err := w.rdb.ZAddNX(ctx, waitlistKey, redis.Z{
		Score:  float64(sub.SubscribedAt.Unix()),
		Member: sub.Email,
	}).Result()
	if err != nil {
		return false, fmt.Errorf("waitlist zadd: %w", err)
	}
	return added == 1, nil
}

func (w *RedisWaitlist) Count(ctx context.Context) (int64, error) {
	n, err := w.rdb.ZCard(ctx, waitlistKey).Result()
	if err != nil {
		return 0, fmt.Errorf("waitlist zcard: %w", err)
	}
	return n, nil
}

// MemoryWaitlist is the process-local fallback used when Redis is not configured.
type MemoryWaitlist struct {
	mu     sync.Mutex
	emails map[string]time.Time
}

func NewMemoryWaitlist() *MemoryWaitlist {
	return &MemoryWaitlist{emails: make(map[string]time.Time)}
}

func (w *MemoryWaitlist) Add(_ context.Context, sub model.Subscriber) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.emails[sub.Email]; ok {
		return false, nil
	}
	w.emails[sub.Email] = sub.SubscribedAt
	return true, nil
}

func (w *MemoryWaitlist) Count(_ context.Context) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return int64(len(w.emails)), nil
}
