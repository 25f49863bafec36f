package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/shoplist/internal/list"
	"github.com/idilsaglam/shoplist/internal/model"
	"github.com/idilsaglam/shoplist/internal/ui"
)

// -------------- argument helpers ----------------

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: shoplist %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: shoplist %s", usage)
		}
		return nil
	}
}

// position converts a 1-based user index to a list position.
func (a *app) position(cmdName, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, usagef("%s: not a number: %s", cmdName, arg)
	}
	have := len(a.list.Snapshot().Items)
	if n < 1 || n > have {
		return 0, usagef("index out of range: have %d, got %d", have, n)
	}
	return n - 1, nil
}

// indexCmd builds a subcommand that applies op to the item at <index>.
// op is a method expression so the store is resolved after PersistentPreRunE.
func (a *app) indexCmd(use, short, done string, op func(*list.Store, context.Context, int) (model.Snapshot, error)) *cobra.Command {
	name := strings.Fields(use)[0]
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  exactArgs(1, use),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := a.position(name, args[0])
			if err != nil {
				return withHint(err)
			}
			snap, err := op(a.list, cmd.Context(), i)
			if err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("%s: %s", done, describe(snap, i)))
			return nil
		},
	}
}

func withHint(err error) error {
	if ue, ok := err.(usageError); ok && strings.HasPrefix(ue.msg, "index out of range") {
		ue.msg += "\nHint: run `shoplist ls` to see valid indexes"
		return ue
	}
	return err
}

func describe(snap model.Snapshot, i int) string {
	if i < 0 || i >= len(snap.Items) {
		return ui.TotalsLine(snap.Totals)
	}
	it := snap.Items[i]
	return fmt.Sprintf("%s ×%d", it.Name, it.Quantity)
}

// -------------- subcommand impls ----------------

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name...>",
		Short: "Add an item",
		Args:  minArgs(1, "add <name...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			before := len(a.list.Snapshot().Items)
			snap, err := a.list.AddItem(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if len(snap.Items) == before {
				ui.Hint(cmd.OutOrStdout(), "nothing to add")
				return nil
			}
			ui.OK(cmd.OutOrStdout(), "added")
			return nil
		},
	}
}

func (a *app) incCmd() *cobra.Command {
	return a.indexCmd("inc <index>", "Increase quantity", "increased", (*list.Store).IncreaseQuantity)
}

func (a *app) decCmd() *cobra.Command {
	return a.indexCmd("dec <index>", "Decrease quantity", "decreased", (*list.Store).DecreaseQuantity)
}

func (a *app) doneCmd() *cobra.Command {
	return a.indexCmd("done <index>", "Toggle completed", "toggled", (*list.Store).ToggleCompleted)
}

func (a *app) editCmd() *cobra.Command {
	return a.indexCmd("edit <index>", "Toggle edit mode", "edit toggled", (*list.Store).ToggleEditing)
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <index>",
		Short: "Remove an item",
		Args:  exactArgs(1, "rm <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := a.position("rm", args[0])
			if err != nil {
				return withHint(err)
			}
			if _, err := a.list.DeleteItem(cmd.Context(), i); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		},
	}
}

func (a *app) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <index> <name...>",
		Short: "Rename an item",
		Args:  minArgs(2, "rename <index> <name...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := a.position("rename", args[0])
			if err != nil {
				return withHint(err)
			}
			snap, err := renameAt(cmd.Context(), a.list, i, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "renamed: "+describe(snap, i))
			return nil
		},
	}
}

// renameAt enters edit mode when needed, renames, and leaves edit mode again
// if it entered it, also when the rename fails. The name is stored as typed.
func renameAt(ctx context.Context, s *list.Store, i int, name string) (model.Snapshot, error) {
	snap := s.Snapshot()
	if i < 0 || i >= len(snap.Items) {
		return s.RenameItem(ctx, i, name)
	}
	entered := !snap.Items[i].Editing
	if entered {
		// a failed write still flips the flag in memory
		if _, err := s.ToggleEditing(ctx, i); err != nil {
			snap, leaveErr := s.ToggleEditing(ctx, i)
			return snap, multierr.Append(err, leaveErr)
		}
	}
	snap, err := s.RenameItem(ctx, i, name)
	if entered {
		var leaveErr error
		snap, leaveErr = s.ToggleEditing(ctx, i)
		err = multierr.Append(err, leaveErr)
	}
	return snap, err
}

func (a *app) lsCmd() *cobra.Command {
	var group bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List items with totals",
		Args:  exactArgs(0, "ls [--group]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderList(cmd.OutOrStdout(), a.list.Snapshot(), group)
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/completed")
	return cmd
}

func (a *app) totalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Print the totals line",
		Args:  exactArgs(0, "totals"),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), ui.TotalsLine(a.list.Snapshot().Totals))
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the list and totals as JSON or YAML",
		Args:  exactArgs(0, "export [--format json|yaml]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return export(cmd.OutOrStdout(), a.list.Snapshot(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or yaml")
	return cmd
}

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive editor",
		Args:  exactArgs(0, "tui"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.opt.RunTUI(cmd.Context(), a.list); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
}

// -------------- rendering helpers --------------

func export(w io.Writer, snap model.Snapshot, format string) error {
	switch strings.ToLower(format) {
	case "json":
		b, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	}
	return usagef("export: unknown format %q (want json or yaml)", format)
}

func renderList(w io.Writer, snap model.Snapshot, group bool) {
	t := ui.Current()
	done := ui.Completed(snap.Items)
	header := fmt.Sprintf("%s  %s %d  %s %d",
		t.Title.Render("Shopping List"),
		t.Success.Render(t.BoxChecked), done,
		t.Pending.Render(t.BoxUnchecked), len(snap.Items)-done,
	)

	lines := []string{
		header,
		ui.TotalsLine(snap.Totals),
		t.Muted.Render(ui.ProgressBar(done, len(snap.Items), 28)),
		"",
	}
	if group {
		lines = append(lines, groupLines(snap.Items)...)
	} else {
		lines = append(lines, flatLines(snap.Items, nil)...)
	}
	lines = append(lines, "", t.Muted.Render("Tip: add with `shoplist add \"Oat milk\"`"))
	ui.Panel(w, lines)
}

// flatLines numbers rows by their list position; keep selects a subset.
func flatLines(items []model.Item, keep func(model.Item) bool) []string {
	var out []string
	for i, it := range items {
		if keep != nil && !keep(it) {
			continue
		}
		idx := ui.Current().Muted.Render(fmt.Sprintf("%2d.", i+1))
		out = append(out, idx+" "+ui.ItemLine(it))
	}
	if len(out) == 0 {
		return []string{ui.Current().Muted.Render("no items")}
	}
	return out
}

func groupLines(items []model.Item) []string {
	t := ui.Current()
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	lines = append(lines, flatLines(items, func(it model.Item) bool { return !it.Completed })...)
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Completed"))
	lines = append(lines, flatLines(items, func(it model.Item) bool { return it.Completed })...)
	return lines
}
