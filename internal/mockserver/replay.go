package mockserver

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReplayGuard remembers request ids so a captured request cannot be sent
// twice.
type ReplayGuard interface {
	// Seen records id and reports whether it had already been recorded.
	Seen(ctx context.Context, id string) (bool, error)
}

const replayTTL = 10 * time.Minute

type RedisReplayGuard struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReplayGuard(addr, password string) *RedisReplayGuard {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	return &RedisReplayGuard{client: rdb, ttl: replayTTL}
}

func (g *RedisReplayGuard) Seen(ctx context.Context, id string) (bool, error) {
	fresh, err := g.client.SetNX(ctx, "discount-function:request:"+id, 1, g.ttl).Result()
	if err != nil {
		return false, err
	}
	return !fresh, nil
}

func (g *RedisReplayGuard) Close() error {
	return g.client.Close()
}

type MemoryReplayGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryReplayGuard() *MemoryReplayGuard {
	return &MemoryReplayGuard{seen: make(map[string]time.Time), ttl: replayTTL, now: time.Now}
}

func (g *MemoryReplayGuard) Seen(_ context.Context, id string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, at := range g.seen {
		if now.Sub(at) > g.ttl {
			delete(g.seen, k)
		}
	}
	if _, ok := g.seen[id]; ok {
		return true, nil
	}
	g.seen[id] = now
	return false, nil
}
