// Package memstore is an in-process slot.Store.
package memstore

import (
	"bytes"
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/idilsaglam/shoplist/internal/store/slot"
)

type Store struct {
	m  map[string][]byte
	mu sync.RWMutex
}

func New() *Store {
	return &Store{m: make(map[string][]byte)}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, exists := s.m[key]
	if !exists {
		return nil, errors.Wrapf(slot.ErrNotFound, "get %q", key)
	}
	return bytes.Clone(val), nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.m[key] = bytes.Clone(value)
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.m, key)
	return nil
}

func (s *Store) Close() error { return nil }
