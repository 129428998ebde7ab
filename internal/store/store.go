// Package store persists the state document in a single-key durable
// key-value store.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Yoshiyuki1026/smtd/internal/config"
)

var ErrNotFound = errors.New("store: key not found")

// Store is a small key-value store. Put replaces the whole value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open returns the backend selected by cfg. File and sqlite paths
// default to locations under dataDir.
func Open(ctx context.Context, cfg config.Store, dataDir string) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemory(), nil
	case "", "file":
		dir := cfg.Path
		if dir == "" {
			dir = dataDir
		}
		return NewFile(dir)
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = filepath.Join(dataDir, "smtd.db")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		return NewSQLite(path)
	case "redis":
		return NewRedis(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Backend)
	}
}
