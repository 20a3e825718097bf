package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecocycle/ecocycle-backend/pkg/config"
)

// Fixed store keys, one collection per key. Names mirror the persisted
// client-side keys so exported data stays portable.
const (
	KeyUser           = "user"
	KeyCart           = "cart"
	KeyWatchlist      = "watchlist"
	KeySellerProducts = "seller_products"
	KeySellerProfile  = "seller_profile"
	KeyOrders         = "orders"
)

// KV is the persistence capability every store runs on. Values are opaque
// JSON blobs; a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(context.Context) error
}

// Open builds the KV backend selected by configuration.
func Open(ctx context.Context, cfg config.StorageConfig, redisCfg config.RedisConfig) (KV, error) {
	switch cfg.Driver {
	case config.StorageDriverMemory:
		return NewMemory(), nil
	case config.StorageDriverFile:
		return NewFile(cfg.Dir, cfg.Namespace)
	case config.StorageDriverSQLite:
		return NewSQLite(cfg.SQLitePath, cfg.Namespace)
	case config.StorageDriverRedis:
		return NewRedis(ctx, redisCfg, cfg.Namespace)
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// LoadJSON reads and decodes the value under key into dest. A missing key
// leaves dest untouched. A corrupt value is deleted and reported so the
// caller can start from an empty collection; corruption is never fatal.
func LoadJSON(ctx context.Context, kv KV, key string, dest any) (corrupt bool, err error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		_ = kv.Delete(ctx, key)
		return true, nil
	}
	return false, nil
}

// SaveJSON encodes value and persists it under key.
func SaveJSON(ctx context.Context, kv KV, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}
