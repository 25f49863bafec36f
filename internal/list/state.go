// Package list holds the shopping-list state model: pure transitions over an
// ordered item sequence, the slot codec, and Store, which persists every
// accepted transition.
package list

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/idilsaglam/shoplist/internal/model"
)

var (
	// ErrIgnored marks an operation that was accepted but changes nothing
	// (a blank add). Store swallows it and skips the write.
	ErrIgnored = errors.New("operation ignored")

	ErrItemNotFound    = errors.New("item not found")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotEditing      = errors.New("item is not being edited")
)

// State is the ordered item sequence. Transitions never mutate the receiver.
type State struct {
	items []model.Item
}

// NewState copies items into a fresh State.
func NewState(items []model.Item) State {
	return State{items: slices.Clone(items)}
}

// Items returns a copy of the sequence.
func (s State) Items() []model.Item { return slices.Clone(s.items) }

func (s State) Len() int { return len(s.items) }

// IDAt resolves a position to the stable ID of the item currently there.
func (s State) IDAt(index int) (string, error) {
	if index < 0 || index >= len(s.items) {
		return "", fmt.Errorf("%w: have %d, got %d", ErrIndexOutOfRange, len(s.items), index)
	}
	return s.items[index].ID, nil
}

// IndexOf returns the current position of id, or -1.
func (s State) IndexOf(id string) int {
	return slices.IndexFunc(s.items, func(it model.Item) bool { return it.ID == id })
}

// Snapshot copies the items and computes their totals.
func (s State) Snapshot() model.Snapshot {
	items := s.Items()
	if items == nil {
		items = []model.Item{}
	}
	return model.Snapshot{Items: items, Totals: Totals(items)}
}

// Apply runs op against a copy of s.
func (s State) Apply(op Op) (State, error) {
	return op.apply(s)
}

// Totals sums quantities and counts items.
func Totals(items []model.Item) model.Totals {
	t := model.Totals{Items: len(items)}
	for _, it := range items {
		t.Quantity += it.Quantity
	}
	return t
}

// Op is a single state transition.
type Op interface {
	apply(State) (State, error)
	fmt.Stringer
}

// Add appends a new item. Blank text (after trimming) is ignored; the stored
// name keeps the text as typed.
type Add struct {
	ID   string
	Text string
}

func (o Add) apply(s State) (State, error) {
	if strings.TrimSpace(o.Text) == "" {
		return s, ErrIgnored
	}
	if o.ID == "" {
		return s, errors.New("add: item id is required")
	}
	items := append(s.Items(), model.Item{ID: o.ID, Name: o.Text})
	return State{items: items}, nil
}

func (o Add) String() string { return "add" }

// Increase adds one to the item's quantity.
type Increase struct{ ID string }

func (o Increase) apply(s State) (State, error) {
	return s.update(o.ID, func(it *model.Item) error {
		it.Quantity++
		return nil
	})
}

func (o Increase) String() string { return "increase" }

// Decrease subtracts one from the item's quantity, stopping at zero.
type Decrease struct{ ID string }

func (o Decrease) apply(s State) (State, error) {
	return s.update(o.ID, func(it *model.Item) error {
		if it.Quantity > 0 {
			it.Quantity--
		}
		return nil
	})
}

func (o Decrease) String() string { return "decrease" }

// Delete removes the item; later items shift one position earlier.
type Delete struct{ ID string }

func (o Delete) apply(s State) (State, error) {
	i := s.IndexOf(o.ID)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrItemNotFound, o.ID)
	}
	return State{items: slices.Delete(s.Items(), i, i+1)}, nil
}

func (o Delete) String() string { return "delete" }

type ToggleCompleted struct{ ID string }

func (o ToggleCompleted) apply(s State) (State, error) {
	return s.update(o.ID, func(it *model.Item) error {
		it.Completed = !it.Completed
		return nil
	})
}

func (o ToggleCompleted) String() string { return "toggle-completed" }

type ToggleEditing struct{ ID string }

func (o ToggleEditing) apply(s State) (State, error) {
	return s.update(o.ID, func(it *model.Item) error {
		it.Editing = !it.Editing
		return nil
	})
}

func (o ToggleEditing) String() string { return "toggle-editing" }

// Rename replaces the name of an item that is being edited. The text is
// taken verbatim: unlike Add there is no trim and no empty check.
type Rename struct {
	ID   string
	Text string
}

func (o Rename) apply(s State) (State, error) {
	return s.update(o.ID, func(it *model.Item) error {
		if !it.Editing {
			return fmt.Errorf("%w: %s", ErrNotEditing, it.ID)
		}
		it.Name = o.Text
		return nil
	})
}

func (o Rename) String() string { return "rename" }

// update copies the sequence and applies fn to the item with id.
// On error the receiver is returned untouched.
func (s State) update(id string, fn func(*model.Item) error) (State, error) {
	i := s.IndexOf(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	items := s.Items()
	if err := fn(&items[i]); err != nil {
		return s, err
	}
	return State{items: items}, nil
}
