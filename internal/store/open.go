package store

import (
	"context"
	"fmt"

	"github.com/punchamoorthee/courtledger/internal/config"
)

// Open connects to the backend named by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		s, err := NewPostgresStore(ctx, cfg.DBSource)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendRedis:
		s, err := NewRedisStore(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			PoolSize: cfg.RedisPoolSize,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
