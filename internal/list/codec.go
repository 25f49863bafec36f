package list

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/idilsaglam/shoplist/internal/model"
)

// Marshal encodes the sequence for the storage slot.
func Marshal(items []model.Item) ([]byte, error) {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a slot value. Empty input is an empty list. Entries
// without an id (or repeating one) get a fresh id from newID; negative
// quantities clamp to zero.
func Unmarshal(b []byte, newID func() string) ([]model.Item, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return []model.Item{}, nil
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if items == nil {
		// literal null
		return []model.Item{}, nil
	}
	seen := make(map[string]struct{}, len(items))
	for i := range items {
		it := &items[i]
		if _, dup := seen[it.ID]; it.ID == "" || dup {
			it.ID = newID()
		}
		seen[it.ID] = struct{}{}
		if it.Quantity < 0 {
			it.Quantity = 0
		}
	}
	return items, nil
}
