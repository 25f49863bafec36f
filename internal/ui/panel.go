package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/shoplist/internal/model"
)

// MaxNameWidth caps item names in rows.
const MaxNameWidth = 60

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// PanelString frames inner with the current theme's border.
func PanelString(inner string) string {
	return lipgloss.NewStyle().
		Border(current.Border).
		BorderForeground(current.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// Panel writes lines inside a framed box.
func Panel(w io.Writer, lines []string) {
	fmt.Fprintln(w, PanelString(strings.Join(lines, "\n")))
}

// ItemsLabel is "Item" for a quantity total of at most one, else "Items".
func ItemsLabel(n int) string {
	if n <= 1 {
		return "Item"
	}
	return "Items"
}

// TotalsLine renders both totals, e.g. "Items : 5   Total : 2".
func TotalsLine(t model.Totals) string {
	return fmt.Sprintf("%s : %d   %s : %d",
		current.Accent.Render(ItemsLabel(t.Quantity)), t.Quantity,
		current.Accent.Render("Total"), t.Items,
	)
}

// Completed counts completed items.
func Completed(items []model.Item) int {
	n := 0
	for _, it := range items {
		if it.Completed {
			n++
		}
	}
	return n
}

// ItemLine renders one row. A completed item shows as completed even while
// editing; editing wins over the default view.
func ItemLine(it model.Item) string {
	name := ansi.Truncate(it.Name, MaxNameWidth, "…")
	var box string
	switch {
	case it.Completed:
		box = current.Success.Render(current.BoxChecked)
		name = current.Done.Render(name)
	case it.Editing:
		box = current.Pending.Render(current.BoxEditing)
		name = current.Pending.Render(name)
	default:
		box = current.Muted.Render(current.BoxUnchecked)
	}
	qty := current.Muted.Render("×") + fmt.Sprintf("%d", it.Quantity)
	return fmt.Sprintf("%s %s  %s", box, name, qty)
}
