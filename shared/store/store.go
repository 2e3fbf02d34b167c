package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sanjaybaskaran1/New-gen-Churn-Prediction/shared/config"
)

var ErrNotFound = errors.New("store: key not found")

// Store keeps uploaded datasets and prediction results between requests.
// A ttl of zero keeps the value until it is deleted.
type Store interface {
	Name() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New opens the store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
