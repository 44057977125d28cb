package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis は URL から Redis クライアントを作成し、疎通確認を行います。
func ConnectRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("redis: failed to parse url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}
	return rdb, nil
}
