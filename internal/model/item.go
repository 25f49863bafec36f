package model

// Item is one shopping-list entry.
// JSON names match the browser slot format so old lists still load.
type Item struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"itemName" yaml:"name"`
	Quantity  int    `json:"quantity" yaml:"quantity"`
	Completed bool   `json:"isSelected" yaml:"completed"`
	Editing   bool   `json:"isEditing" yaml:"editing"`
}

// Totals are derived from a list of items, never stored.
type Totals struct {
	Quantity int `json:"totalQuantity" yaml:"totalQuantity"`
	Items    int `json:"totalItemCount" yaml:"totalItemCount"`
}

// Snapshot is the ordered item sequence at a point in time plus its totals.
type Snapshot struct {
	Items  []Item `json:"items" yaml:"items"`
	Totals Totals `json:"totals" yaml:"totals"`
}
