package list

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/store/slot"
)

// DefaultKey is the slot key the list is stored under.
const DefaultKey = "shoppingListItems"

// Store owns the list state and writes the full sequence to its slot after
// every accepted transition. It is not safe for concurrent use; callers
// deliver operations one at a time.
type Store struct {
	slot  slot.Store
	key   string
	log   *zap.Logger
	newID func() string

	state State
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDFunc replaces the uuid generator used for new items.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// Open loads the list stored under key. A missing or unreadable value starts
// an empty list; only a failing slot read is returned as an error.
func Open(ctx context.Context, sl slot.Store, key string, opts ...Option) (*Store, error) {
	if sl == nil {
		return nil, errors.New("slot store is required")
	}
	if key == "" {
		key = DefaultKey
	}
	s := &Store{
		slot:  sl,
		key:   key,
		log:   zap.NewNop(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("key", key))

	items, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.state = NewState(items)
	s.log.Debug("list loaded", zap.Int("items", s.state.Len()))
	return s, nil
}

func (s *Store) load(ctx context.Context) ([]model.Item, error) {
	b, err := s.slot.Get(ctx, s.key)
	if errors.Is(err, slot.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	items, err := Unmarshal(b, s.newID)
	if err != nil {
		s.log.Warn("stored list unreadable, starting empty", zap.Error(err))
		return nil, nil
	}
	return items, nil
}

// Key is the slot key in use.
func (s *Store) Key() string { return s.key }

// Snapshot returns a copy of the current items with freshly computed totals.
func (s *Store) Snapshot() model.Snapshot { return s.state.Snapshot() }

// State returns the current state value.
func (s *Store) State() State { return s.state }

// apply runs op and, if accepted, recomputes totals and persists. Rejected
// ops leave state and slot untouched. A failed write keeps the new state in
// memory; the next accepted op rewrites the whole slot.
func (s *Store) apply(ctx context.Context, op Op) (model.Snapshot, error) {
	next, err := s.state.Apply(op)
	if errors.Is(err, ErrIgnored) {
		return s.Snapshot(), nil
	}
	if err != nil {
		s.log.Debug("operation rejected", zap.Stringer("op", op), zap.Error(err))
		return s.Snapshot(), err
	}
	s.state = next
	snap := s.Snapshot()

	b, err := Marshal(snap.Items)
	if err == nil {
		err = s.slot.Set(ctx, s.key, b)
	}
	if err != nil {
		s.log.Error("persist failed", zap.Stringer("op", op), zap.Error(err))
		return snap, fmt.Errorf("persist: %w", err)
	}
	s.log.Debug("operation applied",
		zap.Stringer("op", op),
		zap.Int("items", snap.Totals.Items),
		zap.Int("quantity", snap.Totals.Quantity),
	)
	return snap, nil
}

// at resolves index against the current sequence and builds the op for it.
func (s *Store) at(ctx context.Context, index int, build func(id string) Op) (model.Snapshot, error) {
	id, err := s.state.IDAt(index)
	if err != nil {
		return s.Snapshot(), err
	}
	return s.apply(ctx, build(id))
}

// AddItem appends text as a new item. Blank text is a silent no-op.
func (s *Store) AddItem(ctx context.Context, text string) (model.Snapshot, error) {
	op := Add{Text: text}
	if strings.TrimSpace(text) != "" {
		op.ID = s.newID()
	}
	return s.apply(ctx, op)
}

func (s *Store) IncreaseQuantity(ctx context.Context, index int) (model.Snapshot, error) {
	return s.at(ctx, index, func(id string) Op { return Increase{ID: id} })
}

func (s *Store) IncreaseQuantityByID(ctx context.Context, id string) (model.Snapshot, error) {
	return s.apply(ctx, Increase{ID: id})
}

func (s *Store) DecreaseQuantity(ctx context.Context, index int) (model.Snapshot, error) {
	return s.at(ctx, index, func(id string) Op { return Decrease{ID: id} })
}

func (s *Store) DecreaseQuantityByID(ctx context.Context, id string) (model.Snapshot, error) {
	return s.apply(ctx, Decrease{ID: id})
}

func (s *Store) DeleteItem(ctx context.Context, index int) (model.Snapshot, error) {
	return s.at(ctx, index, func(id string) Op { return Delete{ID: id} })
}

func (s *Store) DeleteItemByID(ctx context.Context, id string) (model.Snapshot, error) {
	return s.apply(ctx, Delete{ID: id})
}

func (s *Store) ToggleCompleted(ctx context.Context, index int) (model.Snapshot, error) {
	return s.at(ctx, index, func(id string) Op { return ToggleCompleted{ID: id} })
}

func (s *Store) ToggleCompletedByID(ctx context.Context, id string) (model.Snapshot, error) {
	return s.apply(ctx, ToggleCompleted{ID: id})
}

func (s *Store) ToggleEditing(ctx context.Context, index int) (model.Snapshot, error) {
	return s.at(ctx, index, func(id string) Op { return ToggleEditing{ID: id} })
}

func (s *Store) ToggleEditingByID(ctx context.Context, id string) (model.Snapshot, error) {
	return s.apply(ctx, ToggleEditing{ID: id})
}

// RenameItem sets the name of an item in edit mode. Meant to be called on
// every keystroke; text is stored as given.
func (s *Store) RenameItem(ctx context.Context, index int, text string) (model.Snapshot, error) {
	return s.at(ctx, index, func(id string) Op { return Rename{ID: id, Text: text} })
}

func (s *Store) RenameItemByID(ctx context.Context, id, text string) (model.Snapshot, error) {
	return s.apply(ctx, Rename{ID: id, Text: text})
}
