package list_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/idilsaglam/shoplist/internal/list"
	"github.com/idilsaglam/shoplist/internal/model"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	items := []model.Item{
		{ID: "a", Name: "Milk", Quantity: 3, Completed: true},
		{ID: "b", Name: "  Eggs ", Quantity: 0, Editing: true},
		{ID: "c", Name: "Bread", Quantity: 12, Completed: true, Editing: true},
	}
	b, err := list.Marshal(items)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := list.Unmarshal(b, seqIDs())
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, items) {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", items, got)
	}
}

func TestUnmarshalBrowserFormat(t *testing.T) {
	raw := `[{"itemName":"Milk","quantity":2,"isSelected":false,"isEditing":false},
	         {"itemName":"Eggs","quantity":-4,"isSelected":true,"isEditing":true}]`

	got, err := list.Unmarshal([]byte(raw), seqIDs())
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []model.Item{
		{ID: "gen-1", Name: "Milk", Quantity: 2},
		{ID: "gen-2", Name: "Eggs", Quantity: 0, Completed: true, Editing: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %+v\ngot  %+v", want, got)
	}
}

func TestUnmarshalReplacesDuplicateIDs(t *testing.T) {
	raw := `[{"id":"a","itemName":"Milk"},{"id":"a","itemName":"Eggs"}]`
	got, err := list.Unmarshal([]byte(raw), seqIDs())
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got[0].ID != "a" || got[1].ID != "gen-1" {
		t.Fatalf("unexpected ids: %q %q", got[0].ID, got[1].ID)
	}
}

func TestUnmarshalEmptyAndNull(t *testing.T) {
	for _, raw := range []string{"", "  \n", "null", "[]"} {
		got, err := list.Unmarshal([]byte(raw), seqIDs())
		if err != nil {
			t.Fatalf("%q: %v", raw, err)
		}
		if got == nil || len(got) != 0 {
			t.Fatalf("%q: expected empty non-nil list, got %#v", raw, got)
		}
	}
}

func TestUnmarshalMalformed(t *testing.T) {
	for _, raw := range []string{"{", `{"itemName":"Milk"}`, `[{"quantity":"lots"}]`} {
		if _, err := list.Unmarshal([]byte(raw), seqIDs()); err == nil {
			t.Fatalf("%q: expected error", raw)
		}
	}
}
