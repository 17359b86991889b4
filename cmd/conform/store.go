package main

import (
	"context"
	"fmt"

	"github.com/aretw0/conform/internal/config"
	"github.com/aretw0/conform/pkg/adapters/file"
	"github.com/aretw0/conform/pkg/adapters/memory"
	"github.com/aretw0/conform/pkg/adapters/redis"
	"github.com/aretw0/conform/pkg/ports"
	"github.com/aretw0/conform/pkg/registry"
)

// openStore builds the schema store selected by the configuration.
// The returned close function is never nil.
func openStore(ctx context.Context, c config.Config) (ports.SchemaStore, func() error, error) {
	noop := func() error { return nil }

	switch kind := c.StoreKind(); kind {
	case config.StoreMemory:
		store, err := memory.LoadDir(c.Dir)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case config.StoreFile:
		return file.New(c.Dir), noop, nil
	case config.StoreRedis:
		store := redis.New(c.Redis.Addr, c.Redis.Password, c.Redis.DB,
			redis.WithPrefix(c.Redis.Prefix),
			redis.WithTTL(c.Redis.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, noop, fmt.Errorf("failed to connect to redis at %s: %w", c.Redis.Addr, err)
		}
		return store, store.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store %q", kind)
	}
}

func openRegistry(ctx context.Context) (*registry.Registry, func() error, error) {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, closeStore, err
	}
	return registry.New(store), closeStore, nil
}
