package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard:total"

// LeaderboardCache mirrors cumulative player totals in a Redis ZSET so
// the leaderboard read never touches the archive.
type LeaderboardCache interface {
	AddScore(ctx context.Context, identityID string, delta int) error
	Top(ctx context.Context, limit int) ([]Entry, error)
}

// Entry is a single leaderboard row.
type Entry struct {
	IdentityID string `json:"identity_id"`
	Score      int    `json:"score"`
	Rank       int    `json:"rank"`
}

type leaderboardCache struct {
	client *redis.Client
}

// NewLeaderboardCache creates a leaderboard cache over client.
func NewLeaderboardCache(client *redis.Client) LeaderboardCache {
	return &leaderboardCache{client: client}
}

func (c *leaderboardCache) AddScore(ctx context.Context, identityID string, delta int) error {
	return c.client.ZIncrBy(ctx, leaderboardKey, float64(delta), identityID).Err()
}

func (c *leaderboardCache) Top(ctx context.Context, limit int) ([]Entry, error) {
	results, err := c.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(results))
	for i, z := range results {
		entries[i] = Entry{
			IdentityID: z.Member.(string),
			Score:      int(z.Score),
			Rank:       i + 1,
		}
	}
	return entries, nil
}
