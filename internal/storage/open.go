package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/swiftstay/admin/internal/config"
)

// Open creates the store selected by cfg.Backend
func Open(cfg config.StorageConfig, logger zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case "keyring":
		return NewKeyringStore(cfg.WatchInterval, logger), nil

	case "file":
		dir, err := resolveDir(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return NewFileStore(dir, logger)

	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			dir, err := resolveDir(cfg.Dir)
			if err != nil {
				return nil, err
			}
			if err := os.MkdirAll(dir, 0700); err != nil {
				return nil, fmt.Errorf("failed to create storage directory: %w", err)
			}
			path = filepath.Join(dir, "session.db")
		}
		return NewSQLiteStore(path, cfg.WatchInterval, logger)

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisStore(client, cfg.RedisPrefix, logger), nil

	case "memory":
		return NewMemoryStore(WithMemoryLogger(logger))

	default:
		return nil, fmt.Errorf("unknown storage backend '%s'", cfg.Backend)
	}
}

func resolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return DefaultDir()
}
