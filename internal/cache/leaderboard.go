package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nationbuilder/nationbuilder/internal/services"
)

const leaderboardKey = "nationbuilder:leaderboard:v1"

// LeaderboardCache keeps the assembled full-depth leaderboard in Redis.
type LeaderboardCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
}

func NewLeaderboardCache(client redis.Cmdable, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

// GetLeaderboard returns nil without error on a miss.
func (c *LeaderboardCache) GetLeaderboard(ctx context.Context) (*services.Leaderboard, error) {
	raw, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get leaderboard: %w", err)
	}
	var b services.Leaderboard
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode leaderboard: %w", err)
	}
	return &b, nil
}

func (c *LeaderboardCache) SetLeaderboard(ctx context.Context, b *services.Leaderboard) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode leaderboard: %w", err)
	}
	if err := c.client.Set(ctx, leaderboardKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set leaderboard: %w", err)
	}
	return nil
}

func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, leaderboardKey).Err()
}

// Publish drops the cached board when a lifecycle event can change it.
func (c *LeaderboardCache) Publish(ctx context.Context, ev services.NationEvent) error {
	switch ev.Type {
	case services.EventNationPublished, services.EventNationUpdated, services.EventNationDeleted:
		return c.Invalidate(ctx)
	}
	return nil
}
