package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"brewcart/pkg/config"
	"brewcart/pkg/kv"
	"brewcart/pkg/kv/memory"
	pg "brewcart/pkg/kv/postgres"
	rkv "brewcart/pkg/kv/redis"
	"brewcart/pkg/kv/sqlite"
)

// openStore connects the configured backend. The returned close func is never
// nil.
func openStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (kv.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store.Driver {
	case config.DriverRedis:
		if redisClient == nil {
			return nil, noop, fmt.Errorf("redis driver selected without a redis client")
		}
		return rkv.New(redisClient, cfg.Redis.Namespace), noop, nil

	case config.DriverPostgres:
		db, err := sql.Open("postgres", cfg.Store.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("db connect: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, noop, fmt.Errorf("db ping: %w", err)
		}
		if err := pg.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, noop, err
		}
		return pg.New(db), db.Close, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil

	default:
		return memory.New(), noop, nil
	}
}
