package allowlist

import (
	"context"
	"fmt"
	"strconv"

	"github.com/astro-web3/metabase-embed/internal/domain/embed"
	"github.com/redis/go-redis/v9"
)

const DefaultKey = "embed:dashboards:allowed"

type redisPolicy struct {
	client *redis.Client
	key    string
}

func NewRedisClient(url string, poolSize int) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if poolSize > 0 {
		opt.PoolSize = poolSize
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// NewRedisPolicy allows a dashboard when its id is a member of the redis set
// stored at key.
func NewRedisPolicy(client *redis.Client, key string) embed.DashboardPolicy {
	if key == "" {
		key = DefaultKey
	}
	return &redisPolicy{client: client, key: key}
}

func (r *redisPolicy) Allowed(ctx context.Context, dashboardID uint32) (bool, error) {
	member := strconv.FormatUint(uint64(dashboardID), 10)
	ok, err := r.client.SIsMember(ctx, r.key, member).Result()
	if err != nil {
		return false, fmt.Errorf("failed to query redis allowlist: %w", err)
	}
	return ok, nil
}
