package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/paswerklabs/paswerk/internal/config"
)

var Module = fx.Module("redis",
	fx.Provide(NewClient),
)

// NewClient connects to the shared Redis instance used for rate-table caching.
// An empty address disables caching; dependents declare the client optional.
func NewClient(cfg config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
