package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/mapty/internal/config"
)

// ErrNotFound is returned by KV.Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// KV is a flat key-value store of opaque byte values.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open connects the KV backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (KV, error) {
	switch cfg.Driver {
	case "sqlite":
		return OpenSQLite(cfg.SQLitePath)
	case "postgres":
		dsn := cfg.Postgres.DSN()
		if err := RunMigrations(dsn, cfg.Postgres.Migrations); err != nil {
			return nil, err
		}
		pool, err := ConnectPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return NewPostgres(pool), nil
	case "redis":
		return ConnectRedis(ctx, cfg.Redis)
	case "memory":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
}
