package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 15 * time.Minute

// Cache keeps derived results (price comparisons, searches) in Redis with
// a TTL. It always degrades to a miss: a Redis failure never reaches the
// caller.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

func New(addr string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		TTL:    ttl,
	}
}

func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	val, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		log.Printf("[cache] bad payload for %s: %v", key, err)
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, val any) {
	b, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.Client.Set(ctx, key, b, c.TTL).Err(); err != nil {
		log.Printf("[cache] set %s failed: %v", key, err)
	}
}
