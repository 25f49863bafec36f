// Package tui is the interactive shopping-list editor. Every gesture is sent
// to the list store, which persists it; the view is redrawn from the
// returned snapshot.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	liststore "github.com/idilsaglam/shoplist/internal/list"
	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/ui"
)

// row adapts model.Item to bubbles/list.Item
type row struct{ item model.Item }

func (r row) Title() string       { return r.item.Name }
func (r row) Description() string { return "" }
func (r row) FilterValue() string { return r.item.Name }

// Custom delegate to control how items render (single line)
type rowDelegate struct{}

func (d rowDelegate) Height() int                               { return 1 }
func (d rowDelegate) Spacing() int                              { return 0 }
func (d rowDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(row)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render(">") + " "
	}
	fmt.Fprintln(w, prefix+ui.ItemLine(r.item))
}

// addCharLimit caps typed names; editing keeps whatever is stored.
const addCharLimit = 200

type mode int

const (
	browsing mode = iota
	adding
	editing
)

type keyMap struct {
	add, edit, complete, inc, dec, del, quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit/save")),
		complete: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "complete")),
		inc:      key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more")),
		dec:      key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "less")),
		del:      key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model implements tea.Model over a list store.
type Model struct {
	ctx   context.Context
	store *liststore.Store
	keys  keyMap

	list list.Model
	ti   textinput.Model // shared text input (add & edit)

	mode   mode
	editID string // item being renamed while mode == editing

	width, height int
}

// New builds the model from the store's current snapshot.
func New(ctx context.Context, store *liststore.Store) Model {
	keys := newKeyMap()

	l := list.New(nil, rowDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Help
	l.Styles.PaginationStyle = ui.Current().Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	extra := func() []key.Binding {
		return []key.Binding{keys.add, keys.edit, keys.complete, keys.inc, keys.dec, keys.del, keys.quit}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "

	m := Model{
		ctx:    ctx,
		store:  store,
		keys:   keys,
		list:   l,
		ti:     ti,
		width:  80,
		height: 24,
	}
	m.sync(store.Snapshot())
	return m
}

// Run starts the Bubble Tea program and blocks until the user quits.
// Changes are already persisted by the store as they happen.
func Run(ctx context.Context, store *liststore.Store, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(ctx, store), opts...)
	_, err := p.Run()
	return err
}

// Mode reports the current input mode: "browse", "add" or "edit".
func (m Model) Mode() string {
	switch m.mode {
	case adding:
		return "add"
	case editing:
		return "edit"
	}
	return "browse"
}

// Selected is the highlighted item, if any.
func (m Model) Selected() (model.Item, bool) {
	r, ok := m.list.SelectedItem().(row)
	return r.item, ok
}

// sync redraws rows and title from snap, keeping the cursor in range.
func (m *Model) sync(snap model.Snapshot) tea.Cmd {
	rows := make([]list.Item, 0, len(snap.Items))
	for _, it := range snap.Items {
		rows = append(rows, row{item: it})
	}
	cmd := m.list.SetItems(rows)
	if n := len(rows); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
	m.list.Title = fmt.Sprintf("%s   %s   %s",
		ui.Current().Title.Render("Shopping List"),
		ui.TotalsLine(snap.Totals),
		ui.Current().Muted.Render(ui.ProgressBar(ui.Completed(snap.Items), len(snap.Items), 10)),
	)
	return cmd
}

// apply forwards the store result to the view; errors become a status line.
func (m *Model) apply(snap model.Snapshot, err error) tea.Cmd {
	cmd := m.sync(snap)
	if err != nil {
		return tea.Batch(cmd, m.list.NewStatusMessage(ui.Current().Error.Render("✖ "+err.Error())))
	}
	return cmd
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
	}

	switch m.mode {
	case adding:
		return m.updateAdding(msg)
	case editing:
		return m.updateEditing(msg)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(k, m.keys.quit):
		return m, tea.Quit
	case key.Matches(k, m.keys.add):
		m.mode = adding
		m.ti.CharLimit = addCharLimit
		m.ti.SetValue("")
		m.ti.Placeholder = "Add an item..."
		return m, m.ti.Focus()
	}

	it, selected := m.Selected()
	if !selected {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(k, m.keys.complete):
		return m, m.apply(m.store.ToggleCompletedByID(m.ctx, it.ID))
	case key.Matches(k, m.keys.inc):
		return m, m.apply(m.store.IncreaseQuantityByID(m.ctx, it.ID))
	case key.Matches(k, m.keys.dec):
		return m, m.apply(m.store.DecreaseQuantityByID(m.ctx, it.ID))
	case key.Matches(k, m.keys.del):
		return m, m.apply(m.store.DeleteItemByID(m.ctx, it.ID))
	case key.Matches(k, m.keys.edit):
		snap, err := m.store.ToggleEditingByID(m.ctx, it.ID)
		cmd := m.apply(snap, err)
		if err != nil {
			return m, cmd
		}
		// The input only opens when the editing view would be shown:
		// completed items keep their completed view.
		if cur, ok := m.Selected(); ok && cur.Editing && !cur.Completed {
			m.mode = editing
			m.editID = cur.ID
			m.ti.CharLimit = 0 // names added elsewhere may be longer
			m.ti.SetValue(cur.Name)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Item name..."
			return m, tea.Batch(cmd, m.ti.Focus())
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			text := m.ti.Value()
			m.ti.SetValue("")
			m.ti.Blur()
			m.mode = browsing
			snap, err := m.store.AddItem(m.ctx, text)
			cmd := m.apply(snap, err)
			if strings.TrimSpace(text) != "" && err == nil {
				m.list.Select(len(snap.Items) - 1)
			}
			return m, cmd
		case "esc":
			m.ti.SetValue("")
			m.ti.Blur()
			m.mode = browsing
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

// updateEditing renames on every keystroke; enter or esc saves by toggling
// the editing flag back off.
func (m Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter", "esc":
			m.ti.Blur()
			m.mode = browsing
			id := m.editID
			m.editID = ""
			return m, m.apply(m.store.ToggleEditingByID(m.ctx, id))
		}
	}
	before := m.ti.Value()
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	if after := m.ti.Value(); after != before {
		return m, tea.Batch(cmd, m.apply(m.store.RenameItemByID(m.ctx, m.editID, after)))
	}
	return m, cmd
}

func (m Model) View() string {
	listHeight := m.height - 4
	if m.mode != browsing {
		listHeight = m.height - 8
	}
	if listHeight < 1 {
		listHeight = 1
	}
	m.list.SetSize(m.width-4, listHeight)

	content := m.list.View()
	if m.mode != browsing {
		title := "Add new item"
		if m.mode == editing {
			title = "Edit item"
		}
		bar := lipgloss.NewStyle().
			Border(ui.Current().Border).
			BorderForeground(ui.Current().BorderColor).
			Padding(0, 1)
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	return ui.PanelString(content)
}
