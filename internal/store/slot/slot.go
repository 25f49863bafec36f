// Package slot defines the persistent key-value slot the shopping list is
// written to. Each key holds one complete serialized value; writes replace it.
package slot

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("key not found")

type Store interface {
	// Get returns ErrNotFound when key has never been set.
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte) error

	Delete(ctx context.Context, key string) error

	Close() error
}
