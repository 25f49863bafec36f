package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/idilsaglam/shoplist/internal/model"
)

func TestItemsLabel(t *testing.T) {
	cases := map[int]string{0: "Item", 1: "Item", 2: "Items", 40: "Items"}
	for n, want := range cases {
		if got := ItemsLabel(n); got != want {
			t.Fatalf("ItemsLabel(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestTotalsLine(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })

	got := TotalsLine(model.Totals{Quantity: 5, Items: 2})
	if got != "Items : 5   Total : 2" {
		t.Fatalf("unexpected line %q", got)
	}
	got = TotalsLine(model.Totals{Quantity: 1, Items: 3})
	if got != "Item : 1   Total : 3" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestItemLinePriority(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })

	cases := []struct {
		item model.Item
		want string
	}{
		{model.Item{Name: "Milk", Quantity: 2}, "[ ] Milk  ×2"},
		{model.Item{Name: "Milk", Editing: true}, "[~] Milk  ×0"},
		{model.Item{Name: "Milk", Completed: true, Editing: true}, "[x] Milk  ×0"},
	}
	for _, tc := range cases {
		if got := ItemLine(tc.item); got != tc.want {
			t.Fatalf("ItemLine(%+v) = %q, want %q", tc.item, got, tc.want)
		}
	}
}

func TestItemLineTruncatesLongNames(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })

	got := ItemLine(model.Item{Name: strings.Repeat("ä", 200)})
	if !strings.Contains(got, "…") {
		t.Fatalf("expected ellipsis in %q", got)
	}
	if strings.Count(got, "ä") >= 200 {
		t.Fatal("expected name to be shortened")
	}
}

func TestProgressBar(t *testing.T) {
	if got := ProgressBar(1, 2, 10); got != "█████░░░░░  50%" {
		t.Fatalf("unexpected bar %q", got)
	}
	if got := ProgressBar(0, 0, 2); got != "░░░░░   0%" {
		t.Fatalf("unexpected bar %q", got)
	}
}

func TestPrinters(t *testing.T) {
	SetTheme("mono")
	t.Cleanup(func() { SetTheme("classic") })

	var buf bytes.Buffer
	OK(&buf, "added")
	Fail(&buf, "nope")
	if buf.String() != "✔ added\n✖ nope\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
