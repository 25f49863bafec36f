// Package store picks a slot.Store backend by name.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/shoplist/internal/store/jsonstore"
	"github.com/idilsaglam/shoplist/internal/store/memstore"
	"github.com/idilsaglam/shoplist/internal/store/slot"
	"github.com/idilsaglam/shoplist/internal/store/sqlitestore"
)

const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Kinds lists the accepted backend names.
var Kinds = []string{KindFile, KindSQLite, KindMemory}

// Open returns the backend named kind rooted at dir.
func Open(ctx context.Context, kind, dir string) (slot.Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindFile, "":
		return jsonstore.New(dir), nil
	case KindSQLite:
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
		s, err := sqlitestore.Open(ctx, filepath.Join(dir, sqlitestore.DefaultFileName))
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindMemory:
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("unknown storage %q (want one of %s)", kind, strings.Join(Kinds, ", "))
}
