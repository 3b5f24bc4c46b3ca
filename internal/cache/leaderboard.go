package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Leaderboard is a read-through cache for leaderboard pages. A nil
// *Leaderboard is valid and behaves as a permanent miss, so callers do not
// branch on whether redis is configured.
type Leaderboard struct {
	r   *redis.Client
	ttl time.Duration
}

func NewLeaderboard(addr string, ttl time.Duration) (*Leaderboard, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Leaderboard{r: rdb, ttl: ttl}, nil
}

func (c *Leaderboard) Close() error {
	if c == nil {
		return nil
	}
	return c.r.Close()
}

func key(limit, offset int) string {
	return fmt.Sprintf("leaderboard:%d:%d", limit, offset)
}

func (c *Leaderboard) Get(ctx context.Context, limit, offset int, dst any) (bool, error) {
	if c == nil {
		return false, nil
	}
	b, err := c.r.Get(ctx, key(limit, offset)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Leaderboard) Set(ctx context.Context, limit, offset int, v any) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.r.Set(ctx, key(limit, offset), b, c.ttl).Err()
}
